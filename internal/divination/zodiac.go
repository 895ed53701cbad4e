package divination

type zodiacCutover struct {
	month     int
	threshold int
	sign      string
}

// zodiacCutovers lists, per month, the first day that already belongs to the next sign.
var zodiacCutovers = []zodiacCutover{
	{1, 20, "Ma Kết"},
	{2, 19, "Bảo Bình"},
	{3, 21, "Song Ngư"},
	{4, 20, "Bạch Dương"},
	{5, 21, "Kim Ngưu"},
	{6, 22, "Song Tử"},
	{7, 23, "Cự Giải"},
	{8, 23, "Sư Tử"},
	{9, 23, "Xử Nữ"},
	{10, 24, "Thiên Bình"},
	{11, 23, "Thiên Yết"},
	{12, 22, "Nhân Mã"},
}

// ZodiacSigns returns the twelve sign names in calendar order starting with Capricorn.
func ZodiacSigns() []string {
	out := make([]string, len(zodiacCutovers))
	for i, c := range zodiacCutovers {
		out[i] = c.sign
	}
	return out
}

// ZodiacSign maps a day and month to its sun sign. month must be 1..12; callers
// validate dates through ParseDate first.
func ZodiacSign(day, month int) string {
	i := month - 1
	c := zodiacCutovers[i]
	if day < c.threshold {
		return c.sign
	}
	return zodiacCutovers[(i+1)%len(zodiacCutovers)].sign
}
