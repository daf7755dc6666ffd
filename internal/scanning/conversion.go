package scanning

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	"image/png"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/gen2brain/heic"
)

const (
	mimePNG  = "image/png"
	mimePDF  = "application/pdf"
	mimeHEIC = "image/heic"
)

// loadReceiptImage reads a receipt file and returns it as PNG bytes, which is
// the only format handed to the OCR models
func loadReceiptImage(imagePath string) ([]byte, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	return toPNG(data, detectMimeType(imagePath, data))
}

// detectMimeType sniffs the content, falling back to the file extension for
// formats net/http does not recognize
func detectMimeType(imagePath string, data []byte) string {
	if isHEIC(data) {
		return mimeHEIC
	}
	sniffed := http.DetectContentType(data)
	if sniffed != "application/octet-stream" {
		return strings.SplitN(sniffed, ";", 2)[0]
	}
	switch strings.ToLower(filepath.Ext(imagePath)) {
	case ".pdf":
		return mimePDF
	case ".heic", ".heif":
		return mimeHEIC
	}
	return sniffed
}

// isHEIC looks for an ftyp box with a HEIC/HEIF brand at offset 4
func isHEIC(data []byte) bool {
	if len(data) < 12 || string(data[4:8]) != "ftyp" {
		return false
	}
	switch string(data[8:12]) {
	case "heic", "heix", "heif", "mif1", "msf1":
		return true
	}
	return false
}

// toPNG converts PDFs (first page), HEIC and other decodable images to PNG.
// PNG input is returned unchanged.
func toPNG(data []byte, mimeType string) ([]byte, error) {
	var (
		img image.Image
		err error
	)
	switch mimeType {
	case mimePNG:
		return data, nil
	case mimePDF:
		img, err = renderFirstPDFPage(data)
	case mimeHEIC:
		img, err = heic.Decode(bytes.NewReader(data))
		if err != nil {
			err = fmt.Errorf("decoding HEIC/HEIF image: %w", err)
		}
	default:
		img, _, err = image.Decode(bytes.NewReader(data))
		if err != nil {
			err = fmt.Errorf("unsupported image format %q (supported: JPEG, PNG, GIF, HEIC, PDF): %w", mimeType, err)
		}
	}
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// renderFirstPDFPage rasterizes page one; receipts are single page
func renderFirstPDFPage(data []byte) (image.Image, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	img, err := doc.Image(0)
	if err != nil {
		return nil, fmt.Errorf("rendering PDF page: %w", err)
	}
	return img, nil
}
