package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorcererxstreme/chatbot/internal/model"
)

func TestToSubject(t *testing.T) {
	assert.Nil(t, toSubject(nil))
	assert.Nil(t, toSubject(&SubjectRequest{}))

	s := toSubject(&SubjectRequest{
		Name:       " An ",
		BirthDate:  "5-3-1999",
		BirthTime:  "07:30",
		Gender:     "Nam",
		BirthPlace: "Hà Nội",
	})
	require.NotNil(t, s)
	assert.Equal(t, "An", s.Name)
	assert.Equal(t, &model.CalendarDate{Day: 5, Month: 3, Year: 1999}, s.BirthDate)
	assert.Equal(t, &model.TimeOfDay{Hour: 7, Minute: 30}, s.BirthTime)
	assert.Equal(t, model.GenderMale, s.Gender)
	assert.Equal(t, "5-3-1999", s.RawBirthDate)
}

func TestToSubject_UnparseableKeepsRaw(t *testing.T) {
	s := toSubject(&SubjectRequest{BirthDate: "sometime in 1990", BirthTime: "noon"})
	require.NotNil(t, s)
	assert.Nil(t, s.BirthDate)
	assert.Nil(t, s.BirthTime)
	assert.Equal(t, "sometime in 1990", s.RawBirthDate)
	assert.False(t, s.HasBirthDate())
}
