package service

import (
	"testing"
	"time"

	"mongolog-report-bot/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateRangeParser_Parse(t *testing.T) {
	parser := NewDateRangeParser()

	t.Run("full range clamps day bounds", func(t *testing.T) {
		start, end, err := parser.Parse("01.01.24 - 31.12.24")
		require.NoError(t, err)
		require.NotNil(t, start)
		require.NotNil(t, end)
		assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *start)
		assert.Equal(t, time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC), *end)
	})

	t.Run("open end", func(t *testing.T) {
		start, end, err := parser.Parse("01.01.24 -")
		require.NoError(t, err)
		require.NotNil(t, start)
		assert.Nil(t, end)
		assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *start)
	})

	t.Run("open start", func(t *testing.T) {
		start, end, err := parser.Parse("- 01.01.24")
		require.NoError(t, err)
		assert.Nil(t, start)
		require.NotNil(t, end)
		assert.Equal(t, time.Date(2024, 1, 1, 23, 59, 59, 0, time.UTC), *end)
	})

	t.Run("two digit year resolves to the 2000s", func(t *testing.T) {
		start, _, err := parser.Parse("05.06.07 -")
		require.NoError(t, err)
		require.NotNil(t, start)
		assert.Equal(t, 2007, start.Year())
	})

	t.Run("one invalid side leaves that bound open", func(t *testing.T) {
		start, end, err := parser.Parse("99.99.99 - 31.12.24")
		require.NoError(t, err)
		assert.Nil(t, start)
		require.NotNil(t, end)
	})

	t.Run("malformed inputs fail with both bounds nil", func(t *testing.T) {
		inputs := []string{
			"garbage",
			"01.01.24",
			"01.01.24 - 02.01.24 - 03.01.24",
			"32.01.24 - 40.13.24",
			"1.1.24 - 2.1.24",
			"-",
			"",
			"31.04.24 -",
		}
		for _, input := range inputs {
			start, end, err := parser.Parse(input)
			assert.ErrorIs(t, err, entity.ErrInvalidDateRange, "input %q", input)
			assert.Nil(t, start, "input %q", input)
			assert.Nil(t, end, "input %q", input)
		}
	})

	t.Run("calendar overflow is rejected", func(t *testing.T) {
		start, end, err := parser.Parse("31.04.24 - 31.12.24")
		require.NoError(t, err)
		assert.Nil(t, start)
		require.NotNil(t, end)
	})
}

func TestFormatTimestamp(t *testing.T) {
	dateStr, timeStr := FormatTimestamp(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	assert.Equal(t, "02.01.24", dateStr)
	assert.Equal(t, "03:04:05", timeStr)
}
