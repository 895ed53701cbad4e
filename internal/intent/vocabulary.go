package intent

import "strings"

// cardAlias maps a lowercase phrase found in a question to the canonical card name.
type cardAlias struct {
	phrase string
	card   string
}

// MajorArcana are the 22 trump cards in deck order.
var MajorArcana = []string{
	"The Fool", "The Magician", "The High Priestess", "The Empress", "The Emperor",
	"The Hierophant", "The Lovers", "The Chariot", "Strength", "The Hermit",
	"Wheel of Fortune", "Justice", "The Hanged Man", "Death", "Temperance",
	"The Devil", "The Tower", "The Star", "The Moon", "The Sun", "Judgement", "The World",
}

// Suits of the Minor Arcana.
var Suits = []string{"Wands", "Cups", "Swords", "Pentacles"}

// cardAliases is scanned in order, so matches come back in deck order.
var cardAliases = buildCardAliases()

func buildCardAliases() []cardAlias {
	var out []cardAlias
	for _, c := range MajorArcana {
		out = append(out, cardAlias{phrase: strings.ToLower(c), card: c})
	}
	out = append(out, cardAlias{phrase: "judgment", card: "Judgement"})
	for _, s := range Suits {
		out = append(out, cardAlias{phrase: strings.ToLower(s), card: s})
	}
	return out
}

// domainKeywords mark a question as worth computing: horoscope, astrology, numerology,
// time references and relationship words, in Vietnamese (with and without diacritics)
// and English.
var domainKeywords = []string{
	// tử vi / horoscope
	"tử vi", "tu vi", "lá số", "la so", "bản mệnh", "cung mệnh", "vận mệnh", "vận hạn",
	"tuổi", "horoscope",
	// chiêm tinh / astrology
	"chiêm tinh", "chiem tinh", "cung hoàng đạo", "hoàng đạo", "hoang dao", "zodiac",
	"astrology",
	// thần số học / numerology
	"thần số", "than so", "số chủ đạo", "so chu dao", "con số", "numerology", "life path",
	// tarot
	"tarot", "lá bài", "la bai", "trải bài",
	// time references
	"hôm nay", "hom nay", "ngày mai", "ngay mai", "tuần", "tháng", "năm nay", "nam nay",
	"năm sau", "today", "tomorrow", "this year",
	// relationships and life areas
	"tình yêu", "tinh yeu", "người yêu", "nguoi yeu", "vợ", "chồng", "hợp nhau", "hợp tuổi",
	"hẹn hò", "sự nghiệp", "su nghiep", "công việc", "cong viec", "tài lộc", "tài chính",
	"sức khỏe", "love", "partner", "career",
}
