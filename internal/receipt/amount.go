package receipt

import (
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

var (
	// optional currency symbol, integer part with optional thousands groups,
	// optional one or two fractional digits
	amountPattern = regexp.MustCompile(`(?:([$€£])\s?)?(\d{1,3}(?:,\d{3})+|\d+)(?:\.(\d{1,2}))?`)

	totalKeywordPattern = regexp.MustCompile(`(?i)\b(?:total|amount\s+due|balance)\b`)
)

// maxKeywordGap is how far, in bytes, an amount may sit after a total keyword
// on the same line and still count as adjacent
const maxKeywordGap = 16

type amountCandidate struct {
	value     decimal.Decimal
	hasSymbol bool
	hasCents  bool
	keyword   bool
}

// plausible reports whether the match reads as money rather than a bare
// integer such as a store number. Integers only count next to a total keyword.
func (c amountCandidate) plausible() bool {
	return c.hasSymbol || c.hasCents || c.keyword
}

// ParseAmount returns the receipt total. Keyword-adjacent figures win; otherwise
// the largest figure wins, and equal values resolve to the last one read.
// A keyword line without a figure of its own lends adjacency to the first
// figure on the next non-empty line.
func (p *Parser) ParseAmount(text string) (decimal.Decimal, error) {
	var (
		best      decimal.Decimal
		found     bool
		bestByKey bool
		pending   bool
	)
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		cands := scanAmounts(line)
		if pending && len(cands) > 0 {
			cands[0].keyword = true
		}
		pending = totalKeywordPattern.MatchString(line) && !slices.ContainsFunc(cands, func(c amountCandidate) bool {
			return c.keyword
		})

		for _, c := range cands {
			if !c.plausible() {
				continue
			}
			if p.MaxAmount.IsPositive() && c.value.GreaterThan(p.MaxAmount) {
				continue
			}
			switch {
			case !found:
			case c.keyword && !bestByKey:
			case c.keyword == bestByKey && c.value.GreaterThanOrEqual(best):
			default:
				continue
			}
			best, found, bestByKey = c.value, true, c.keyword
		}
	}
	if !found {
		return decimal.Zero, &NotFoundError{Field: FieldAmount}
	}
	return best, nil
}

// containsAmount reports whether line carries a money figure
func containsAmount(line string) bool {
	for _, c := range scanAmounts(line) {
		if c.plausible() {
			return true
		}
	}
	return false
}

// scanAmounts finds the number-shaped substrings of a single line that are not
// part of a date, time, code or longer number.
func scanAmounts(line string) []amountCandidate {
	keywords := totalKeywordPattern.FindAllStringIndex(line, -1)

	var out []amountCandidate
	for _, m := range amountPattern.FindAllStringSubmatchIndex(line, -1) {
		start, end := m[0], m[1]
		if !isolated(line, start, end) {
			continue
		}

		digits := strings.ReplaceAll(line[m[4]:m[5]], ",", "")
		c := amountCandidate{
			hasSymbol: m[2] >= 0,
			hasCents:  m[6] >= 0,
		}
		if c.hasCents {
			digits += "." + line[m[6]:m[7]]
		}
		v, err := decimal.NewFromString(digits)
		if err != nil {
			continue
		}
		c.value = v
		c.keyword = followsKeyword(line, keywords, start)
		out = append(out, c)
	}
	return out
}

// isolated rejects matches glued to digits, letters or date/time separators
func isolated(line string, start, end int) bool {
	if start > 0 {
		prev, size := utf8.DecodeLastRuneInString(line[:start])
		switch {
		case unicode.IsDigit(prev), unicode.IsLetter(prev):
			return false
		case prev == '/' || prev == ',':
			return false
		case prev == ':' || prev == '-' || prev == '.':
			before, _ := utf8.DecodeLastRuneInString(line[:start-size])
			if unicode.IsDigit(before) {
				return false
			}
		}
	}
	if end < len(line) {
		next, size := utf8.DecodeRuneInString(line[end:])
		switch {
		case unicode.IsDigit(next):
			return false
		case next == '/' || next == '%':
			return false
		case next == ':' || next == '-' || next == '.' || next == ',':
			after, _ := utf8.DecodeRuneInString(line[end+size:])
			if unicode.IsDigit(after) {
				return false
			}
		}
	}
	return true
}

// followsKeyword reports whether a total keyword closely precedes pos with no
// other digits in between. Leader runs such as "......" or "***" do not count
// toward the gap.
func followsKeyword(line string, keywords [][]int, pos int) bool {
	for i := len(keywords) - 1; i >= 0; i-- {
		kwEnd := keywords[i][1]
		if kwEnd > pos {
			continue
		}
		gap := strings.Map(func(r rune) rune {
			if isLeader(r) {
				return -1
			}
			return r
		}, line[kwEnd:pos])
		return len(gap) <= maxKeywordGap && !strings.ContainsFunc(gap, unicode.IsDigit)
	}
	return false
}

func isLeader(r rune) bool {
	switch r {
	case '.', '\u00b7', '*', ':', '-', '_', '=':
		return true
	}
	return unicode.IsSpace(r)
}
