package service

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"mongolog-report-bot/internal/domain/entity"
)

var dateTokenPattern = regexp.MustCompile(`^\d{2}\.\d{2}\.\d{2}$`)

// DateRangeParser parses free-text "DD.MM.YY - DD.MM.YY" range expressions.
// Two-digit years resolve to the 2000s. All bounds are UTC, like every other
// timestamp in the reporting path.
type DateRangeParser struct{}

// NewDateRangeParser creates a new date range parser.
func NewDateRangeParser() *DateRangeParser {
	return &DateRangeParser{}
}

// Parse splits the expression on the "-" separator and parses each side
// independently. An absent or unparseable side leaves that bound open; a
// start bound clamps to 00:00:00 and an end bound to 23:59:59 of its day.
// When the separator count is wrong or neither side parses, the result is
// entity.ErrInvalidDateRange with both bounds nil, never a partial pair.
func (p *DateRangeParser) Parse(input string) (start, end *time.Time, err error) {
	parts := strings.Split(input, "-")
	if len(parts) != 2 {
		return nil, nil, entity.ErrInvalidDateRange
	}

	start = parseDateToken(strings.TrimSpace(parts[0]), false)
	end = parseDateToken(strings.TrimSpace(parts[1]), true)
	if start == nil && end == nil {
		return nil, nil, entity.ErrInvalidDateRange
	}
	return start, end, nil
}

// parseDateToken returns nil when the token does not match DD.MM.YY or names
// an impossible calendar date.
func parseDateToken(token string, endOfDay bool) *time.Time {
	if !dateTokenPattern.MatchString(token) {
		return nil
	}

	day, _ := strconv.Atoi(token[0:2])
	month, _ := strconv.Atoi(token[3:5])
	year, _ := strconv.Atoi(token[6:8])
	if year < 100 {
		year += 2000
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return nil
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow, e.g. 31.04 becomes 01.05; reject it.
	if t.Day() != day || t.Month() != time.Month(month) {
		return nil
	}
	if endOfDay {
		t = time.Date(year, time.Month(month), day, 23, 59, 59, 0, time.UTC)
	}
	return &t
}

// FormatTimestamp renders a timestamp as the DD.MM.YY date and HH:MM:SS time
// strings used in report cells and file names.
func FormatTimestamp(t time.Time) (dateStr, timeStr string) {
	t = t.UTC()
	return t.Format("02.01.06"), t.Format("15:04:05")
}
