package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseMonth(t *testing.T) {
	m, err := ParseMonth("2023-01")
	assert.NoError(t, err)
	assert.Equal(t, NewMonth(2023, time.January), m)

	m, err = ParseMonth("2023-01-15")
	assert.NoError(t, err)
	assert.Equal(t, NewMonth(2023, time.January), m)

	_, err = ParseMonth("01/2023")
	assert.Error(t, err)

	_, err = ParseMonth("")
	assert.Error(t, err)
}

func TestMonth_NextWrapsYear(t *testing.T) {
	assert.Equal(t, NewMonth(2024, time.January), NewMonth(2023, time.December).Next())
	assert.Equal(t, NewMonth(2023, time.February), NewMonth(2023, time.January).Next())
}

func TestMonth_PrevWrapsYear(t *testing.T) {
	prev, err := NewMonth(2023, time.January).Prev()
	assert.NoError(t, err)
	assert.Equal(t, NewMonth(2022, time.December), prev)

	_, err = NewMonth(1, time.January).Prev()
	assert.Error(t, err)
}

func TestMonth_Ordering(t *testing.T) {
	jan := NewMonth(2023, time.January)
	feb := NewMonth(2023, time.February)
	dec22 := NewMonth(2022, time.December)

	assert.True(t, jan.Before(feb))
	assert.True(t, dec22.Before(jan))
	assert.True(t, feb.After(jan))
	assert.False(t, jan.Before(jan))
}

func TestMonth_String(t *testing.T) {
	assert.Equal(t, "2023-01", NewMonth(2023, time.January).String())
	assert.Equal(t, "2023-12", NewMonth(2023, time.December).String())
}

func TestMonthOf_TruncatesToFirstOfMonth(t *testing.T) {
	ts := time.Date(2023, time.March, 28, 17, 4, 5, 0, time.UTC)
	assert.Equal(t, NewMonth(2023, time.March), MonthOf(ts))
	assert.Equal(t, time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC), MonthOf(ts).Time())
}
