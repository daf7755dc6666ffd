package receipt

import (
	"strings"
	"unicode"
)

// ParseVendor returns the first line that looks like a merchant name: it has
// letters and carries no money figure.
func (p *Parser) ParseVendor(text string) (string, error) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !strings.ContainsFunc(line, unicode.IsLetter) || containsAmount(line) {
			continue
		}
		if name := p.cleanVendor(line); name != "" {
			return name, nil
		}
	}
	return "", &NotFoundError{Field: FieldVendor}
}

func (p *Parser) cleanVendor(line string) string {
	name := strings.TrimFunc(line, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.IsSpace(r)
	})
	name = strings.Join(strings.Fields(name), " ")

	if p.MaxVendorLength > 0 {
		runes := []rune(name)
		if len(runes) > p.MaxVendorLength {
			name = strings.TrimSpace(string(runes[:p.MaxVendorLength]))
		}
	}
	return name
}
