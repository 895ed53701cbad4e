// Package assembler turns calculated facts into the redacted prompt context and the
// retrieval keywords.
package assembler

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/sorcererxstreme/chatbot/internal/divination"
	"github.com/sorcererxstreme/chatbot/internal/model"
)

// RelevanceThreshold is the minimum retriever score a snippet needs to be used.
const RelevanceThreshold = 0.35

// PartnerLabel is how the second subject is always referred to.
const PartnerLabel = "Người ấy"

const redactedMark = "***"

// Assembler builds the per-request context. It holds no per-request state.
type Assembler struct {
	horoscope divination.HoroscopeLookup
}

// New creates an Assembler. horoscope may be nil, in which case no chart is computed.
func New(horoscope divination.HoroscopeLookup) *Assembler {
	return &Assembler{horoscope: horoscope}
}

// Assemble computes the profiles it needs and renders them. Keyword precedence:
// Tarot cards, then the explicit date, then the user and partner profiles.
func (a *Assembler) Assemble(ctx context.Context, in model.Intent, user, partner *model.Subject, now time.Time) model.AssembledContext {
	userProfile := divination.Profile(ctx, a.horoscope, user)
	partnerProfile := divination.Profile(ctx, a.horoscope, partner)

	var explicitProfile *model.CalculatedProfile
	if in.ExplicitDate != nil {
		explicitProfile = divination.DateProfile(*in.ExplicitDate)
	}

	forbidden := forbiddenValues(user, partner)
	// Only free text is redacted; the derived lines come from calculator output.
	cards := lo.Reject(in.CardNames, func(c string, _ int) bool {
		return redact(c, forbidden) != c
	})

	lines := []string{fmt.Sprintf("Thời điểm hiện tại: %s", now.Format("02/01/2006"))}
	if userProfile != nil {
		lines = append(lines, userLine(user, userProfile, forbidden))
	}
	if partnerProfile != nil {
		lines = append(lines, fmt.Sprintf("- %s (đối phương): %s.", strings.ToUpper(PartnerLabel), describe(partnerProfile)))
	}
	if explicitProfile != nil {
		lines = append(lines, explicitDateLine(*in.ExplicitDate, explicitProfile, user, partner))
	}
	if len(in.CardNames) > 0 {
		shown := lo.Map(in.CardNames, func(c string, _ int) string { return redact(c, forbidden) })
		lines = append(lines, fmt.Sprintf("- LÁ BÀI TAROT: %s.", strings.Join(shown, ", ")))
	}

	var keywords []string
	switch {
	case len(in.CardNames) > 0:
		keywords = cards
	case explicitProfile != nil:
		keywords = profileKeywords(explicitProfile)
	default:
		keywords = append(profileKeywords(userProfile), profileKeywords(partnerProfile)...)
	}

	return model.AssembledContext{
		RedactedContext: strings.Join(lines, "\n"),
		Keywords:        lo.Uniq(keywords),
	}
}

// FilterSnippets drops snippets scored below RelevanceThreshold.
func FilterSnippets(snippets []model.KnowledgeSnippet) []model.KnowledgeSnippet {
	return lo.Filter(snippets, func(s model.KnowledgeSnippet, _ int) bool {
		return s.RelevanceScore >= RelevanceThreshold
	})
}

func userLine(user *model.Subject, p *model.CalculatedProfile, forbidden []string) string {
	label := "- NGƯỜI HỎI"
	if name := redact(strings.TrimSpace(user.Name), forbidden); name != "" {
		label += fmt.Sprintf(" (%s)", name)
	}
	return fmt.Sprintf("%s: %s.", label, describe(p))
}

func describe(p *model.CalculatedProfile) string {
	s := fmt.Sprintf("Số chủ đạo %s, Cung %s", p.LifePathNumber, p.ZodiacSign)
	if h := p.Horoscope; h != nil {
		s += fmt.Sprintf(", Mệnh %s, Cục %s, Chính tinh %s", h.DominantElement, h.StructureName, h.MainStars)
		if h.LifePalace != "" {
			s += fmt.Sprintf(" tại cung %s", h.LifePalace)
		}
	}
	return s
}

// explicitDateLine names the asked date unless it is somebody's birthday, in which
// case only its energy is shown.
func explicitDateLine(d model.CalendarDate, p *model.CalculatedProfile, subjects ...*model.Subject) string {
	label := fmt.Sprintf("NGÀY ĐƯỢC HỎI (%s)", d)
	for _, s := range subjects {
		if s.HasBirthDate() && *s.BirthDate == d {
			label = "NGÀY ĐƯỢC HỎI"
			break
		}
	}
	return fmt.Sprintf("- %s: Mang năng lượng số %s, thuộc cung %s.", label, p.LifePathNumber, p.ZodiacSign)
}

func profileKeywords(p *model.CalculatedProfile) []string {
	if p == nil {
		return nil
	}
	kw := []string{"Số " + p.LifePathNumber, p.ZodiacSign}
	if p.Horoscope != nil {
		for _, star := range strings.Split(p.Horoscope.MainStars, ",") {
			if star = strings.TrimSpace(star); star != "" {
				kw = append(kw, star)
			}
		}
	}
	return kw
}

// forbiddenValues lists raw personal data that must never reach the prompt: both
// subjects' birth data in the form it was sent and in canonical form, and the
// partner's name.
func forbiddenValues(user, partner *model.Subject) []string {
	var out []string
	for _, s := range []*model.Subject{user, partner} {
		if s == nil {
			continue
		}
		out = append(out, s.RawBirthDate, s.RawBirthTime, s.BirthPlace)
		if s.BirthDate != nil {
			out = append(out, s.BirthDate.String())
		}
	}
	if partner != nil {
		out = append(out, partner.Name)
	}
	return lo.Filter(lo.Uniq(out), func(v string, _ int) bool {
		v = strings.TrimSpace(v)
		return utf8.RuneCountInString(v) >= 2 && strings.IndexFunc(v, isWordRune) >= 0
	})
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}

// redact masks every whole-token occurrence of a forbidden value, ignoring case.
// A value only matches where it is not glued to other letters or digits.
func redact(text string, forbidden []string) string {
	for _, v := range forbidden {
		re := regexp.MustCompile(`(?i)(^|[^\p{L}\p{N}])` + regexp.QuoteMeta(strings.TrimSpace(v)) + `($|[^\p{L}\p{N}])`)
		// adjacent matches share a separator, so repeat until nothing is left
		for {
			next := re.ReplaceAllString(text, "${1}"+redactedMark+"${2}")
			if next == text {
				break
			}
			text = next
		}
	}
	return text
}
