package divination

import (
	"strconv"

	"github.com/sorcererxstreme/chatbot/internal/model"
)

// LifePathNumber reduces day, month and year separately, sums them and reduces the
// total. Master numbers 11, 22 and 33 stop a reduction wherever they appear, so a path
// that reaches 22 returns "22" rather than "4".
func LifePathNumber(date model.CalendarDate) string {
	total := reduce(date.Day) + reduce(date.Month) + reduce(date.Year)
	return strconv.Itoa(reduce(total))
}

func reduce(n int) int {
	for n > 9 && !isMaster(n) {
		n = digitSum(n)
	}
	return n
}

func isMaster(n int) bool {
	return n == 11 || n == 22 || n == 33
}

func digitSum(n int) int {
	sum := 0
	for n > 0 {
		sum += n % 10
		n /= 10
	}
	return sum
}
