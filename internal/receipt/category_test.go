package receipt

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zombor/expense-tracker/internal/ledger"
)

var _ = Describe("Suggester", func() {
	var suggester *Suggester

	BeforeEach(func() {
		suggester = DefaultSuggester()
	})

	DescribeTable("SuggestCategory",
		func(vendor string, want ledger.Category) {
			Expect(suggester.SuggestCategory(vendor)).To(Equal(want))
		},
		Entry("grocery chain", "WALMART", ledger.Groceries),
		Entry("mixed case", "Trader Joe's", ledger.Groceries),
		Entry("specific brand before generic word", "Uber Eats", ledger.FoodAndDining),
		Entry("rideshare", "UBER *TRIP", ledger.Transportation),
		Entry("fuel", "Shell Oil 5521", ledger.Gas),
		Entry("pharmacy", "CVS/pharmacy", ledger.Healthcare),
		Entry("streaming", "NETFLIX.COM", ledger.Entertainment),
		Entry("generic store", "Corner Store", ledger.Shopping),
		Entry("unknown vendor", UnknownVendor, ledger.Other),
		Entry("empty vendor", "", ledger.Other),
	)

	It("is deterministic", func() {
		first := suggester.SuggestCategory("Starbucks #1234")
		for i := 0; i < 10; i++ {
			Expect(suggester.SuggestCategory("Starbucks #1234")).To(Equal(first))
		}
		Expect(DefaultSuggester().SuggestCategory("Starbucks #1234")).To(Equal(first))
	})

	It("always returns a valid category", func() {
		for _, vendor := range []string{"WALMART", "Acme Widgets", "???", "Blue Bottle"} {
			Expect(suggester.SuggestCategory(vendor).Valid()).To(BeTrue())
		}
	})

	Describe("NewSuggester", func() {
		It("uses the first matching rule", func() {
			s, err := NewSuggester([]Rule{
				{Keyword: "Blue Bottle", Category: ledger.FoodAndDining},
				{Keyword: "bottle", Category: ledger.Shopping},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(s.SuggestCategory("BLUE BOTTLE COFFEE")).To(Equal(ledger.FoodAndDining))
			Expect(s.SuggestCategory("Bottle Shop")).To(Equal(ledger.Shopping))
		})

		It("rejects an unknown category", func() {
			_, err := NewSuggester([]Rule{{Keyword: "acme", Category: "Widgets"}})
			Expect(err).To(MatchError(ledger.ErrInvalidCategory))
		})

		It("rejects an empty keyword", func() {
			_, err := NewSuggester([]Rule{{Keyword: "  ", Category: ledger.Other}})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("LoadRules", func() {
		var tmpDir string

		BeforeEach(func() {
			tmpDir = GinkgoT().TempDir()
		})

		It("reads a YAML rule table", func() {
			path := filepath.Join(tmpDir, "rules.yaml")
			Expect(os.WriteFile(path, []byte(`rules:
  - keyword: blue bottle
    category: Food & Dining
  - keyword: acme
    category: Business
`), 0644)).To(Succeed())

			rules, err := LoadRules(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(rules).To(Equal([]Rule{
				{Keyword: "blue bottle", Category: ledger.FoodAndDining},
				{Keyword: "acme", Category: ledger.Business},
			}))

			s, err := NewSuggester(append(rules, DefaultRules...))
			Expect(err).NotTo(HaveOccurred())
			Expect(s.SuggestCategory("ACME Corp")).To(Equal(ledger.Business))
			Expect(s.SuggestCategory("WALMART")).To(Equal(ledger.Groceries))
		})

		It("fails on a missing file", func() {
			_, err := LoadRules(filepath.Join(tmpDir, "missing.yaml"))
			Expect(err).To(MatchError(os.ErrNotExist))
		})

		It("fails on malformed YAML", func() {
			path := filepath.Join(tmpDir, "rules.yaml")
			Expect(os.WriteFile(path, []byte("rules: [unclosed"), 0644)).To(Succeed())

			_, err := LoadRules(path)
			Expect(err).To(HaveOccurred())
		})
	})
})
