package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/peterbourgon/ff/v4"

	"github.com/zombor/expense-tracker/internal/ledger"
	"github.com/zombor/expense-tracker/internal/receipt"
	"github.com/zombor/expense-tracker/internal/scanning"
)

// errUsage marks errors caused by bad flags or arguments
var errUsage = errors.New("invalid usage")

// config holds the global options shared by every subcommand
type config struct {
	ledgerPath     *string
	format         *string
	scanner        *string
	geminiKey      *string
	geminiModel    *string
	ollamaURL      *string
	ollamaModel    *string
	extractTimeout *string
	cachePath      *string
	rulesPath      *string
	verbose        *bool
}

func newConfig(fs *ff.FlagSet) *config {
	return &config{
		ledgerPath:     fs.StringLong("ledger", "expenses.csv", "Ledger file path"),
		format:         fs.StringLong("format", "", "Ledger format: 'csv' or 'json' (default: from the file extension)"),
		scanner:        fs.StringLong("scanner", "gemini", "Scanner type: 'gemini' or 'ollama'"),
		geminiKey:      fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)"),
		geminiModel:    fs.StringLong("gemini-model", "gemini-2.5-flash", "Google Gemini model name"),
		ollamaURL:      fs.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL"),
		ollamaModel:    fs.StringLong("ollama-model", "llava", "Ollama model name (e.g., llava, llava-phi3, qwen2-vl)"),
		extractTimeout: fs.StringLong("extract-timeout", receipt.DefaultExtractTimeout.String(), "Maximum time for one text extraction"),
		cachePath:      fs.StringLong("cache", "", "Extracted text cache file path (optional)"),
		rulesPath:      fs.StringLong("rules", "", "YAML category rules file, checked before the built-in rules (optional)"),
		verbose:        fs.BoolLong("verbose", "Enable debug logging"),
	}
}

func (c *config) applyLogLevel() {
	if *c.verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}
}

// ledgerFormat resolves --format, falling back to the ledger file extension
func (c *config) ledgerFormat() (ledger.Format, error) {
	if strings.TrimSpace(*c.format) != "" {
		f, err := ledger.ParseFormat(*c.format)
		if err != nil {
			return "", fmt.Errorf("%w: %w", errUsage, err)
		}
		return f, nil
	}
	if strings.EqualFold(filepath.Ext(*c.ledgerPath), ".json") {
		return ledger.FormatJSON, nil
	}
	return ledger.FormatCSV, nil
}

func (c *config) openLedger() (*ledger.Ledger, error) {
	format, err := c.ledgerFormat()
	if err != nil {
		return nil, err
	}
	slog.Debug("Opening ledger", "path", *c.ledgerPath, "format", format)
	return ledger.Open(*c.ledgerPath, format)
}

func (c *config) timeout() (time.Duration, error) {
	d, err := time.ParseDuration(*c.extractTimeout)
	if err != nil {
		return 0, fmt.Errorf("%w: extract timeout: %w", errUsage, err)
	}
	return d, nil
}

func (c *config) suggester() (*receipt.Suggester, error) {
	if *c.rulesPath == "" {
		return receipt.DefaultSuggester(), nil
	}
	rules, err := receipt.LoadRules(*c.rulesPath)
	if err != nil {
		return nil, err
	}
	slog.Debug("Loaded category rules", "path", *c.rulesPath, "count", len(rules))
	return receipt.NewSuggester(append(rules, receipt.DefaultRules...))
}

// newExtractor builds the configured OCR collaborator, wrapped in the
// transcript cache when --cache is set
func (c *config) newExtractor(ctx context.Context) (scanning.TextExtractor, error) {
	var extractor scanning.TextExtractor
	switch *c.scanner {
	case "gemini":
		// Get Gemini API key from flag or environment
		apiKey := *c.geminiKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("%w: Gemini API key is required. Set --gemini-key flag or GEMINI_API_KEY environment variable", errUsage)
		}
		slog.Debug("Initializing Gemini scanner", "model", *c.geminiModel)
		g, err := scanning.NewGemini(ctx, apiKey, *c.geminiModel)
		if err != nil {
			return nil, fmt.Errorf("initializing Gemini: %w", err)
		}
		extractor = g
	case "ollama":
		slog.Debug("Initializing Ollama scanner", "url", *c.ollamaURL, "model", *c.ollamaModel)
		extractor = scanning.NewOllama(*c.ollamaURL, *c.ollamaModel)
	default:
		return nil, fmt.Errorf("%w: invalid scanner type %q, want gemini or ollama", errUsage, *c.scanner)
	}

	if *c.cachePath == "" {
		return extractor, nil
	}
	cache, err := scanning.NewBoltCache(*c.cachePath, extractor)
	if err != nil {
		extractor.Close()
		return nil, err
	}
	return cache, nil
}
