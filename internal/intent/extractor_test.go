package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorcererxstreme/chatbot/internal/model"
)

func TestExtract_ChitChat(t *testing.T) {
	for _, q := range []string{"Hi", "Xin chào", "bạn khỏe không", "ok", ""} {
		in := Extract(q, nil)
		assert.False(t, in.RequiresComputation, q)
		assert.Nil(t, in.ExplicitDate)
		assert.Empty(t, in.CardNames)
	}
}

func TestExtract_ExplicitDate(t *testing.T) {
	in := Extract("10/10/2025?", nil)
	require.NotNil(t, in.ExplicitDate)
	assert.Equal(t, model.CalendarDate{Day: 10, Month: 10, Year: 2025}, *in.ExplicitDate)
	assert.True(t, in.RequiresComputation, "a date alone is substantive")
}

func TestExtract_DomainKeywordInShortQuestion(t *testing.T) {
	in := Extract("Tử vi?", nil)
	assert.True(t, in.RequiresComputation)

	in = Extract("Tử vi năm nay của tôi thế nào?", nil)
	assert.True(t, in.RequiresComputation)
	assert.Nil(t, in.ExplicitDate)
}

func TestExtract_LongQuestionWithoutKeywords(t *testing.T) {
	in := Extract("bạn có thể giúp mình không", nil)
	assert.True(t, in.RequiresComputation)
}

func TestExtract_SuppliedCardsWin(t *testing.T) {
	in := Extract("Giải giúp The Moon", []string{" The Sun ", "The Sun", "", "Death"})
	assert.Equal(t, []string{"The Sun", "Death"}, in.CardNames)
	assert.True(t, in.RequiresComputation)
}

func TestExtract_CardsFromText(t *testing.T) {
	in := Extract("rút được THE TOWER và three of cups", nil)
	assert.Equal(t, []string{"The Tower", "Cups"}, in.CardNames)
	assert.True(t, in.RequiresComputation)
}

func TestFindCards(t *testing.T) {
	assert.Equal(t, []string{"Judgement"}, FindCards("judgment day"))
	assert.Equal(t, []string{"The High Priestess", "Wheel of Fortune"}, FindCards("the high priestess, wheel of fortune"))
	assert.Empty(t, FindCards("hôm nay trời đẹp"))
}

func TestFindCards_WholeWordsOnly(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"exercise to strengthen my back", nil},
		{"I have the hiccups", nil},
		{"a deathly silence", nil},
		{"Death, then Strength.", []string{"Strength", "Death"}},
		{"(cups)", []string{"Cups"}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := FindCards(tt.text)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHasDomainKeyword(t *testing.T) {
	assert.True(t, HasDomainKeyword("Chiêm tinh"))
	assert.True(t, HasDomainKeyword("số chủ đạo của tôi"))
	assert.True(t, HasDomainKeyword("Tình yêu"))
	assert.False(t, HasDomainKeyword("Hi"))
	assert.False(t, HasDomainKeyword("lost my glove"))
	assert.True(t, HasDomainKeyword("love?"))
}
