package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/peterbourgon/ff/v4"
	"github.com/shopspring/decimal"

	"github.com/zombor/expense-tracker/internal/ledger"
	"github.com/zombor/expense-tracker/internal/receipt"
	"github.com/zombor/expense-tracker/internal/scanning"
)

type app struct {
	cfg          *config
	flags        *ff.FlagSet
	stdin        *bufio.Reader
	stdout       io.Writer
	newExtractor func(ctx context.Context) (scanning.TextExtractor, error)
}

func newApp(stdin io.Reader, stdout io.Writer) *app {
	rootFlags := ff.NewFlagSet("expense-tracker")
	a := &app{
		cfg:    newConfig(rootFlags),
		flags:  rootFlags,
		stdin:  bufio.NewReader(stdin),
		stdout: stdout,
	}
	rootFlags.BoolLong("version", "Show version information")
	a.newExtractor = a.cfg.newExtractor
	return a
}

func (a *app) command() *ff.Command {
	return &ff.Command{
		Name:      "expense-tracker",
		Usage:     "expense-tracker [FLAGS] <SUBCOMMAND> ...",
		ShortHelp: "record personal expenses by hand or from receipt images",
		Flags:     a.flags,
		Subcommands: []*ff.Command{
			a.addCommand(a.flags),
			a.listCommand(a.flags),
			a.totalCommand(a.flags),
			a.summaryCommand(a.flags),
			a.receiptCommand(a.flags),
		},
		Exec: func(ctx context.Context, args []string) error {
			return fmt.Errorf("%w: a subcommand is required", errUsage)
		},
	}
}

func (a *app) addCommand(parent *ff.FlagSet) *ff.Command {
	fs := ff.NewFlagSet("add").SetParent(parent)
	var (
		amount      = fs.StringLong("amount", "", "Amount, e.g. 12.50")
		category    = fs.StringLong("category", "", "Category name")
		vendor      = fs.StringLong("vendor", "", "Vendor name")
		description = fs.StringLong("description", "", "Free-form description")
		date        = fs.StringLong("date", "", "Date as YYYY-MM-DD (default: today)")
	)
	return &ff.Command{
		Name:      "add",
		Usage:     "expense-tracker add --amount AMOUNT --category CATEGORY --vendor VENDOR [FLAGS]",
		ShortHelp: "add an expense to the ledger",
		Flags:     fs,
		Exec: func(ctx context.Context, args []string) error {
			a.cfg.applyLogLevel()

			amt, err := decimal.NewFromString(strings.TrimSpace(*amount))
			if err != nil {
				return fmt.Errorf("%w: %q", ledger.ErrInvalidAmount, *amount)
			}
			l, err := a.cfg.openLedger()
			if err != nil {
				return err
			}
			e, err := l.AddExpense(ledger.NewExpense{
				Amount:      amt,
				Category:    ledger.Category(strings.TrimSpace(*category)),
				Vendor:      *vendor,
				Description: *description,
				Date:        *date,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Added %s %s %s (%s)\n", e.DateString(), e.Amount.StringFixed(2), e.Vendor, e.Category)
			return nil
		},
	}
}

// filterFlags registers the flags shared by list and total
func filterFlags(fs *ff.FlagSet) func() ledger.Filter {
	var (
		category = fs.StringLong("category", "", "Only this category")
		start    = fs.StringLong("start", "", "Earliest date, inclusive (YYYY-MM-DD)")
		end      = fs.StringLong("end", "", "Latest date, inclusive (YYYY-MM-DD)")
	)
	return func() ledger.Filter {
		return ledger.Filter{
			Category:  ledger.Category(strings.TrimSpace(*category)),
			StartDate: *start,
			EndDate:   *end,
		}
	}
}

func (a *app) listCommand(parent *ff.FlagSet) *ff.Command {
	fs := ff.NewFlagSet("list").SetParent(parent)
	filter := filterFlags(fs)
	asJSON := fs.BoolLong("json", "Print records as JSON")
	return &ff.Command{
		Name:      "list",
		Usage:     "expense-tracker list [FLAGS]",
		ShortHelp: "list expenses in insertion order",
		Flags:     fs,
		Exec: func(ctx context.Context, args []string) error {
			a.cfg.applyLogLevel()

			l, err := a.cfg.openLedger()
			if err != nil {
				return err
			}
			expenses, err := l.ViewExpenses(filter())
			if err != nil {
				return err
			}
			if *asJSON {
				return writeJSON(a.stdout, expenseViews(expenses))
			}
			return writeExpenses(a.stdout, expenses)
		},
	}
}

func (a *app) totalCommand(parent *ff.FlagSet) *ff.Command {
	fs := ff.NewFlagSet("total").SetParent(parent)
	filter := filterFlags(fs)
	return &ff.Command{
		Name:      "total",
		Usage:     "expense-tracker total [FLAGS]",
		ShortHelp: "print the sum of matching expenses",
		Flags:     fs,
		Exec: func(ctx context.Context, args []string) error {
			a.cfg.applyLogLevel()

			l, err := a.cfg.openLedger()
			if err != nil {
				return err
			}
			total, err := l.TotalExpenses(filter())
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, total.StringFixed(2))
			return nil
		},
	}
}

func (a *app) summaryCommand(parent *ff.FlagSet) *ff.Command {
	fs := ff.NewFlagSet("summary").SetParent(parent)
	asJSON := fs.BoolLong("json", "Print the summary as JSON")
	return &ff.Command{
		Name:      "summary",
		Usage:     "expense-tracker summary [FLAGS]",
		ShortHelp: "print totals per category and overall statistics",
		Flags:     fs,
		Exec: func(ctx context.Context, args []string) error {
			a.cfg.applyLogLevel()

			l, err := a.cfg.openLedger()
			if err != nil {
				return err
			}
			s := l.Summary()
			if *asJSON {
				return writeJSON(a.stdout, newSummaryView(s))
			}
			return writeSummary(a.stdout, s)
		},
	}
}

func (a *app) receiptCommand(parent *ff.FlagSet) *ff.Command {
	fs := ff.NewFlagSet("receipt").SetParent(parent)
	var (
		confirm = fs.BoolLong("confirm", "Ask for the category before saving")
		dryRun  = fs.BoolLong("dry-run", "Print the extracted fields without saving")
		asJSON  = fs.BoolLong("json", "Print results as JSON")
	)
	return &ff.Command{
		Name:      "receipt",
		Usage:     "expense-tracker receipt [FLAGS] IMAGE...",
		ShortHelp: "add expenses from receipt images",
		Flags:     fs,
		Exec: func(ctx context.Context, args []string) error {
			a.cfg.applyLogLevel()

			if len(args) == 0 {
				return fmt.Errorf("%w: at least one image path is required", errUsage)
			}
			timeout, err := a.cfg.timeout()
			if err != nil {
				return err
			}
			suggester, err := a.cfg.suggester()
			if err != nil {
				return err
			}
			l, err := a.cfg.openLedger()
			if err != nil {
				return err
			}
			extractor, err := a.newExtractor(ctx)
			if err != nil {
				return err
			}
			defer extractor.Close()

			svc := receipt.NewServiceWithDeps(extractor, receipt.NewParser(), suggester, l, ledger.SystemTime{}, timeout)

			var confirmFn receipt.ConfirmFunc
			if *confirm {
				confirmFn = promptCategory(a.stdin, a.stdout)
			}

			var (
				results []receiptView
				failed  int
			)
			for _, path := range args {
				var (
					res      *receipt.Result
					expense  ledger.Expense
					category ledger.Category
					err      error
				)
				if *dryRun {
					res, err = svc.ProcessReceipt(ctx, path)
				} else {
					res, expense, err = svc.AddExpenseFromReceipt(ctx, path, confirmFn)
				}
				if err != nil {
					failed++
					slog.Error("Failed to process receipt", "image_path", path, "error", err)
					continue
				}
				// a saved receipt reports the stored category, which --confirm may have changed
				category = res.SuggestedCategory
				if !*dryRun {
					category = expense.Category
				}
				results = append(results, newReceiptView(path, res, category))
				if !*asJSON {
					writeReceipt(a.stdout, path, res, category, *dryRun)
				}
			}
			if *asJSON {
				if err := writeJSON(a.stdout, results); err != nil {
					return err
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d receipts failed", failed, len(args))
			}
			return nil
		},
	}
}

// promptCategory asks on out for a category, accepting a list number or a
// name. An empty or unrecognized answer keeps the suggestion.
func promptCategory(in *bufio.Reader, out io.Writer) receipt.ConfirmFunc {
	return func(suggested ledger.Category) ledger.Category {
		for i, c := range ledger.AllCategories {
			fmt.Fprintf(out, "%2d. %s\n", i+1, c)
		}
		fmt.Fprintf(out, "Category [%s]: ", suggested)

		line, err := in.ReadString('\n')
		if err != nil && line == "" {
			return suggested
		}
		answer := strings.TrimSpace(line)
		if answer == "" {
			return suggested
		}
		if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(ledger.AllCategories) {
			return ledger.AllCategories[n-1]
		}
		for _, c := range ledger.AllCategories {
			if strings.EqualFold(string(c), answer) {
				return c
			}
		}
		fmt.Fprintf(out, "Unknown category %q, keeping %s\n", answer, suggested)
		return suggested
	}
}

func writeExpenses(w io.Writer, expenses []ledger.Expense) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tAMOUNT\tCATEGORY\tVENDOR\tDESCRIPTION")
	for _, e := range expenses {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.DateString(), e.Amount.StringFixed(2), e.Category, e.Vendor, e.Description)
	}
	return tw.Flush()
}

func writeSummary(w io.Writer, s ledger.Summary) error {
	if s.Count == 0 {
		fmt.Fprintln(w, "No expenses recorded")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Expenses:\t%d\n", s.Count)
	fmt.Fprintf(tw, "Total:\t%s\n", s.Total.StringFixed(2))
	fmt.Fprintf(tw, "Average:\t%s\n", s.Average.StringFixed(2))
	fmt.Fprintf(tw, "Smallest:\t%s\n", s.Min.StringFixed(2))
	fmt.Fprintf(tw, "Largest:\t%s\n", s.Max.StringFixed(2))
	fmt.Fprintf(tw, "Dates:\t%s to %s\n", s.Earliest.Format(ledger.DateLayout), s.Latest.Format(ledger.DateLayout))
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "CATEGORY\tCOUNT\tTOTAL")
	for _, c := range sortedCategories(s) {
		ct := s.Categories[c]
		fmt.Fprintf(tw, "%s\t%d\t%s\n", c, ct.Count, ct.Total.StringFixed(2))
	}
	return tw.Flush()
}

func writeReceipt(w io.Writer, path string, res *receipt.Result, category ledger.Category, dryRun bool) {
	verb := "Added"
	if dryRun {
		verb = "Parsed"
	}
	fmt.Fprintf(w, "%s %s: %s %s %s (%s)\n", verb, path,
		res.Date.Format(ledger.DateLayout), res.Amount.StringFixed(2), res.Vendor, category)
	if res.NeedsReview() {
		var inferred []string
		if res.Inferred.Date {
			inferred = append(inferred, "date")
		}
		if res.Inferred.Vendor {
			inferred = append(inferred, "vendor")
		}
		fmt.Fprintf(w, "  needs review: %s not found on receipt\n", strings.Join(inferred, " and "))
	}
}

// sortedCategories orders categories by total, largest first
func sortedCategories(s ledger.Summary) []ledger.Category {
	cats := make([]ledger.Category, 0, len(s.Categories))
	for c := range s.Categories {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool {
		ti, tj := s.Categories[cats[i]].Total, s.Categories[cats[j]].Total
		if !ti.Equal(tj) {
			return ti.GreaterThan(tj)
		}
		return cats[i] < cats[j]
	})
	return cats
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
