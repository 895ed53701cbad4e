// Package intent decides what a question is about before any calculation runs.
package intent

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/sorcererxstreme/chatbot/internal/divination"
	"github.com/sorcererxstreme/chatbot/internal/model"
)

// MinSubstantiveTokens is the token count at which a message is no longer treated as
// chit-chat on length alone.
const MinSubstantiveTokens = 4

// Extract reads the explicit date, the Tarot cards and the computation gate out of a
// question. suppliedCards, when non-empty, wins over cards named in the text.
func Extract(question string, suppliedCards []string) model.Intent {
	in := model.Intent{
		ExplicitDate: divination.ExtractDateFromText(question),
	}

	cards := lo.Uniq(lo.Compact(lo.Map(suppliedCards, func(c string, _ int) string {
		return strings.TrimSpace(c)
	})))
	if len(cards) == 0 {
		cards = FindCards(question)
	}
	in.CardNames = cards

	in.RequiresComputation = HasDomainKeyword(question) ||
		in.ExplicitDate != nil ||
		len(in.CardNames) > 0 ||
		len(strings.Fields(question)) >= MinSubstantiveTokens

	return in
}

// FindCards returns the canonical names of every card mentioned in text, without
// duplicates, in deck order.
func FindCards(text string) []string {
	lowered := strings.ToLower(text)
	var found []string
	for _, a := range cardAliases {
		if containsPhrase(lowered, a.phrase) {
			found = append(found, a.card)
		}
	}
	return lo.Uniq(found)
}

// HasDomainKeyword reports whether text mentions any horoscope, astrology, numerology,
// time or relationship keyword.
func HasDomainKeyword(text string) bool {
	lowered := strings.ToLower(text)
	return lo.SomeBy(domainKeywords, func(k string) bool {
		return containsPhrase(lowered, k)
	})
}

// containsPhrase reports whether phrase occurs in text as whole words, so "cups" is
// not found in "hiccups".
func containsPhrase(text, phrase string) bool {
	for from := 0; from < len(text); {
		i := strings.Index(text[from:], phrase)
		if i < 0 {
			return false
		}
		start, end := from+i, from+i+len(phrase)
		before, _ := utf8.DecodeLastRuneInString(text[:start])
		after, _ := utf8.DecodeRuneInString(text[end:])
		if (start == 0 || !isWordRune(before)) && (end == len(text) || !isWordRune(after)) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		from = start + size
	}
	return false
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}
