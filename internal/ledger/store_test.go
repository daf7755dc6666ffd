package ledger

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

func sampleExpenses() []Expense {
	return []Expense{
		{
			Date:        time.Date(2025, 9, 17, 0, 0, 0, 0, time.UTC),
			Amount:      decimal.RequireFromString("25.50"),
			Category:    FoodAndDining,
			Vendor:      "Starbucks",
			Description: "Morning coffee",
		},
		{
			Date:        time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
			Amount:      decimal.RequireFromString("1234.00"),
			Category:    BillsAndUtilities,
			Vendor:      `Smith, "Power" & Light`,
			Description: "line one\nline two, with comma",
		},
		{
			Date:     time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
			Amount:   decimal.Zero,
			Category: Other,
			Vendor:   "Café Ünïcode",
		},
		{
			Date:        time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC),
			Amount:      decimal.RequireFromString("0.01"),
			Category:    Gas,
			Vendor:      "Shell\r#42",
			Description: "  padded \rnote with a carriage return\r  ",
		},
	}
}

var _ = Describe("Stores", func() {
	var tmpDir string

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
	})

	DescribeTable("round trip",
		func(format Format) {
			path := filepath.Join(tmpDir, "ledger."+string(format))
			store, err := NewStore(path, format)
			Expect(err).NotTo(HaveOccurred())

			want := sampleExpenses()
			Expect(store.Save(want)).To(Succeed())
			first, err := os.ReadFile(path)
			Expect(err).NotTo(HaveOccurred())

			got, err := store.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(HaveLen(len(want)))
			for i := range want {
				Expect(got[i].Equal(want[i])).To(BeTrue(), "record %d: %+v", i, got[i])
			}

			Expect(store.Save(got)).To(Succeed())
			second, err := os.ReadFile(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(second)).To(Equal(string(first)))
		},
		Entry("csv", FormatCSV),
		Entry("json", FormatJSON),
	)

	DescribeTable("missing file is an empty ledger",
		func(format Format) {
			store, err := NewStore(filepath.Join(tmpDir, "missing"), format)
			Expect(err).NotTo(HaveOccurred())
			got, err := store.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeEmpty())
		},
		Entry("csv", FormatCSV),
		Entry("json", FormatJSON),
	)

	Describe("CSVStore", func() {
		var (
			path  string
			store *CSVStore
		)

		BeforeEach(func() {
			path = filepath.Join(tmpDir, "expenses.csv")
			store = NewCSVStore(path)
		})

		It("writes the header and fixed two-decimal amounts", func() {
			Expect(store.Save(sampleExpenses()[:1])).To(Succeed())
			data, err := os.ReadFile(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal(
				"date,amount,category,vendor,description\n" +
					"2025-09-17,25.50,Food & Dining,Starbucks,Morning coffee\n"))
		})

		It("leaves no temp files behind", func() {
			Expect(store.Save(sampleExpenses())).To(Succeed())
			entries, err := os.ReadDir(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(1))
		})

		DescribeTable("rejects content that is not a csv ledger",
			func(content string) {
				Expect(os.WriteFile(path, []byte(content), 0644)).To(Succeed())
				_, err := store.Load()
				Expect(err).To(MatchError(ErrFormatMismatch))
			},
			Entry("wrong header", "when,how much,category,vendor,description\n"),
			Entry("missing column", "date,amount,category,vendor,description\n2025-09-17,1.00,Other,X\n"),
			Entry("bad amount", "date,amount,category,vendor,description\n2025-09-17,abc,Other,X,\n"),
			Entry("negative amount", "date,amount,category,vendor,description\n2025-09-17,-1.00,Other,X,\n"),
			Entry("bad date", "date,amount,category,vendor,description\n17/09/2025,1.00,Other,X,\n"),
			Entry("unknown category", "date,amount,category,vendor,description\n2025-09-17,1.00,Snacks,X,\n"),
			Entry("json content", `[{"date":"2025-09-17","amount":1}]`),
		)
	})

	Describe("JSONStore", func() {
		var (
			path  string
			store *JSONStore
		)

		BeforeEach(func() {
			path = filepath.Join(tmpDir, "expenses.json")
			store = NewJSONStore(path)
		})

		It("writes amounts as numeric literals", func() {
			Expect(store.Save(sampleExpenses()[:1])).To(Succeed())
			data, err := os.ReadFile(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(ContainSubstring(`"amount": 25.50`))
			Expect(string(data)).To(ContainSubstring(`"category": "Food & Dining"`))
		})

		It("defaults a missing description to empty", func() {
			Expect(os.WriteFile(path, []byte(`[{"date":"2025-09-17","amount":4,"category":"Gas","vendor":"Shell"}]`), 0644)).To(Succeed())
			got, err := store.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(HaveLen(1))
			Expect(got[0].Description).To(BeEmpty())
			Expect(got[0].Amount.StringFixed(2)).To(Equal("4.00"))
		})

		DescribeTable("rejects content that is not a json ledger",
			func(content string) {
				Expect(os.WriteFile(path, []byte(content), 0644)).To(Succeed())
				_, err := store.Load()
				Expect(err).To(MatchError(ErrFormatMismatch))
			},
			Entry("csv content", "date,amount,category,vendor,description\n"),
			Entry("object instead of array", `{"date":"2025-09-17"}`),
			Entry("unknown key", `[{"date":"2025-09-17","amount":1,"category":"Other","vendor":"X","tip":2}]`),
			Entry("missing amount", `[{"date":"2025-09-17","category":"Other","vendor":"X"}]`),
			Entry("quoted amount", `[{"date":"2025-09-17","amount":"12.50","category":"Other","vendor":"X"}]`),
			Entry("null amount", `[{"date":"2025-09-17","amount":null,"category":"Other","vendor":"X"}]`),
			Entry("boolean amount", `[{"date":"2025-09-17","amount":true,"category":"Other","vendor":"X"}]`),
			Entry("empty vendor", `[{"date":"2025-09-17","amount":1,"category":"Other","vendor":""}]`),
		)
	})

	Describe("ParseFormat", func() {
		It("accepts known formats case-insensitively", func() {
			Expect(ParseFormat(" JSON ")).To(Equal(FormatJSON))
			Expect(ParseFormat("csv")).To(Equal(FormatCSV))
		})

		It("rejects unknown formats", func() {
			_, err := ParseFormat("xlsx")
			Expect(err).To(HaveOccurred())
		})
	})
})
