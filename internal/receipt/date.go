package receipt

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// dateGrammar turns one regexp match into a calendar date
type dateGrammar struct {
	pattern *regexp.Regexp
	build   func(m []string) (time.Time, bool)
}

// dateGrammars are tried in order; the first grammar with a valid match wins
var dateGrammars = []dateGrammar{
	{ // MM/DD/YYYY, MM-DD-YYYY, MM/DD/YY
		pattern: regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})[/-](\d{4}|\d{2})\b`),
		build: func(m []string) (time.Time, bool) {
			return makeDate(expandYear(m[3]), atoi(m[1]), atoi(m[2]))
		},
	},
	{ // YYYY-MM-DD, YYYY/MM/DD
		pattern: regexp.MustCompile(`\b(\d{4})[/-](\d{1,2})[/-](\d{1,2})\b`),
		build: func(m []string) (time.Time, bool) {
			return makeDate(atoi(m[1]), atoi(m[2]), atoi(m[3]))
		},
	},
	{ // Month DD, YYYY
		pattern: regexp.MustCompile(`(?i)\b([a-z]{3,9})\.?\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})\b`),
		build: func(m []string) (time.Time, bool) {
			month, ok := monthFromName(m[1])
			if !ok {
				return time.Time{}, false
			}
			return makeDate(atoi(m[3]), month, atoi(m[2]))
		},
	},
	{ // DD Month YYYY
		pattern: regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+([a-z]{3,9})\.?,?\s+(\d{4})\b`),
		build: func(m []string) (time.Time, bool) {
			month, ok := monthFromName(m[2])
			if !ok {
				return time.Time{}, false
			}
			return makeDate(atoi(m[3]), month, atoi(m[1]))
		},
	},
}

// ParseDate returns the first date found in text as a UTC calendar date
func (p *Parser) ParseDate(text string) (time.Time, error) {
	for _, g := range dateGrammars {
		for _, m := range g.pattern.FindAllStringSubmatch(text, -1) {
			if d, ok := g.build(m); ok {
				return d, nil
			}
		}
	}
	return time.Time{}, &NotFoundError{Field: FieldDate}
}

// makeDate rejects out-of-range parts instead of letting time.Date normalize them
func makeDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Day() != day || int(d.Month()) != month {
		return time.Time{}, false
	}
	return d, true
}

// expandYear maps two-digit years to 2000-2049 and 1950-1999
func expandYear(s string) int {
	y := atoi(s)
	if len(s) != 2 {
		return y
	}
	if y < 50 {
		return 2000 + y
	}
	return 1900 + y
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}

var monthNames = map[string]int{
	"january": 1, "february": 2, "march": 3, "april": 4,
	"may": 5, "june": 6, "july": 7, "august": 8,
	"september": 9, "october": 10, "november": 11, "december": 12,
}

// monthFromName accepts full English month names, three-letter
// abbreviations and "sept"
func monthFromName(name string) (int, bool) {
	name = strings.ToLower(name)
	if m, ok := monthNames[name]; ok {
		return m, true
	}
	if name == "sept" {
		return 9, true
	}
	if len(name) != 3 {
		return 0, false
	}
	for full, m := range monthNames {
		if strings.HasPrefix(full, name) {
			return m, true
		}
	}
	return 0, false
}
