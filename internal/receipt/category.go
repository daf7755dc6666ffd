package receipt

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zombor/expense-tracker/internal/ledger"
)

// Rule maps a case-insensitive vendor substring to a category
type Rule struct {
	Keyword  string          `yaml:"keyword"`
	Category ledger.Category `yaml:"category"`
}

// rulesFile is the YAML layout accepted by LoadRules
type rulesFile struct {
	Rules []Rule `yaml:"rules"`
}

// DefaultRules is the built-in rule table. Order is priority: multi-word and
// brand names come before generic words they contain or are contained in.
var DefaultRules = []Rule{
	{"uber eats", ledger.FoodAndDining},
	{"mcdonald", ledger.FoodAndDining},
	{"burger king", ledger.FoodAndDining},
	{"starbucks", ledger.FoodAndDining},
	{"subway", ledger.FoodAndDining},
	{"pizza", ledger.FoodAndDining},
	{"restaurant", ledger.FoodAndDining},
	{"cafe", ledger.FoodAndDining},
	{"diner", ledger.FoodAndDining},

	{"walmart", ledger.Groceries},
	{"target", ledger.Groceries},
	{"kroger", ledger.Groceries},
	{"safeway", ledger.Groceries},
	{"whole foods", ledger.Groceries},
	{"trader joe", ledger.Groceries},
	{"aldi", ledger.Groceries},
	{"grocery", ledger.Groceries},
	{"supermarket", ledger.Groceries},
	{"market", ledger.Groceries},

	{"shell", ledger.Gas},
	{"exxon", ledger.Gas},
	{"chevron", ledger.Gas},
	{"gas station", ledger.Gas},
	{"fuel", ledger.Gas},
	{"bp", ledger.Gas},

	{"office depot", ledger.Business},
	{"staples", ledger.Business},
	{"fedex", ledger.Business},
	{"ups store", ledger.Business},
	{"business", ledger.Business},

	{"uber", ledger.Transportation},
	{"lyft", ledger.Transportation},
	{"taxi", ledger.Transportation},
	{"metro", ledger.Transportation},
	{"transit", ledger.Transportation},
	{"parking", ledger.Transportation},
	{"bus", ledger.Transportation},

	{"amazon", ledger.Shopping},
	{"ebay", ledger.Shopping},
	{"best buy", ledger.Shopping},
	{"costco", ledger.Shopping},
	{"mall", ledger.Shopping},

	{"pharmacy", ledger.Healthcare},
	{"cvs", ledger.Healthcare},
	{"walgreens", ledger.Healthcare},
	{"clinic", ledger.Healthcare},
	{"hospital", ledger.Healthcare},
	{"doctor", ledger.Healthcare},
	{"dental", ledger.Healthcare},

	{"netflix", ledger.Entertainment},
	{"spotify", ledger.Entertainment},
	{"cinema", ledger.Entertainment},
	{"theater", ledger.Entertainment},
	{"theatre", ledger.Entertainment},

	{"electric", ledger.BillsAndUtilities},
	{"utility", ledger.BillsAndUtilities},
	{"utilities", ledger.BillsAndUtilities},
	{"comcast", ledger.BillsAndUtilities},
	{"verizon", ledger.BillsAndUtilities},
	{"at&t", ledger.BillsAndUtilities},

	{"airline", ledger.Travel},
	{"hotel", ledger.Travel},
	{"marriott", ledger.Travel},
	{"hilton", ledger.Travel},
	{"airbnb", ledger.Travel},
	{"expedia", ledger.Travel},

	{"university", ledger.Education},
	{"college", ledger.Education},
	{"tuition", ledger.Education},
	{"coursera", ledger.Education},
	{"udemy", ledger.Education},

	{"salon", ledger.PersonalCare},
	{"barber", ledger.PersonalCare},
	{"sephora", ledger.PersonalCare},

	{"store", ledger.Shopping},
}

// Suggester maps vendor names to categories with an ordered rule table.
// It holds no mutable state, so the same vendor always maps to the same category.
type Suggester struct {
	rules []Rule
}

// NewSuggester validates rules and lowercases their keywords
func NewSuggester(rules []Rule) (*Suggester, error) {
	normalized := make([]Rule, 0, len(rules))
	for i, r := range rules {
		kw := strings.ToLower(strings.TrimSpace(r.Keyword))
		if kw == "" {
			return nil, fmt.Errorf("rule %d: empty keyword", i)
		}
		if !r.Category.Valid() {
			return nil, fmt.Errorf("rule %d (%s): %w: %q", i, kw, ledger.ErrInvalidCategory, r.Category)
		}
		normalized = append(normalized, Rule{Keyword: kw, Category: r.Category})
	}
	return &Suggester{rules: normalized}, nil
}

// DefaultSuggester returns a Suggester over DefaultRules
func DefaultSuggester() *Suggester {
	s, err := NewSuggester(DefaultRules)
	if err != nil {
		panic(err)
	}
	return s
}

// LoadRules reads a YAML rule table of the form
//
//	rules:
//	  - keyword: blue bottle
//	    category: Food & Dining
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules file: %w", err)
	}
	var f rulesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing rules file: %w", err)
	}
	return f.Rules, nil
}

// SuggestCategory returns the category of the first rule whose keyword occurs
// in vendor, or Other
func (s *Suggester) SuggestCategory(vendor string) ledger.Category {
	v := strings.ToLower(vendor)
	for _, r := range s.rules {
		if strings.Contains(v, r.Keyword) {
			return r.Category
		}
	}
	return ledger.Other
}
