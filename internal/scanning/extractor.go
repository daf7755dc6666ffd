package scanning

import "context"

// TextExtractor turns a receipt image into raw text
type TextExtractor interface {
	// ExtractText reads the image at imagePath and returns its transcribed text.
	// It must honor ctx cancellation and deadlines.
	ExtractText(ctx context.Context, imagePath string) (string, error)
	// Close releases any resources held by the extractor
	Close() error
}
