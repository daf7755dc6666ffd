package scanning

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.etcd.io/bbolt"
)

const transcriptBucket = "transcripts"

// BoltCache wraps a TextExtractor and remembers transcripts by image content,
// so re-processing the same receipt never calls the OCR engine twice
type BoltCache struct {
	db   *bbolt.DB
	next TextExtractor
}

// NewBoltCache opens (or creates) the cache database at path
func NewBoltCache(path string, next TextExtractor) (*BoltCache, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(transcriptBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	return &BoltCache{db: db, next: next}, nil
}

// ExtractText returns the cached transcript for the image content, or asks
// the wrapped extractor and stores its answer
func (c *BoltCache) ExtractText(ctx context.Context, imagePath string) (string, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("reading image: %w", err)
	}
	sum := sha256.Sum256(data)
	key := []byte(hex.EncodeToString(sum[:]))

	var (
		text string
		hit  bool
	)
	err = c.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket([]byte(transcriptBucket)).Get(key); v != nil {
			text, hit = string(v), true
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("reading cache: %w", err)
	}
	if hit {
		slog.Debug("Transcript cache hit", "image_path", imagePath)
		return text, nil
	}

	text, err = c.next.ExtractText(ctx, imagePath)
	if err != nil {
		return "", err
	}

	err = c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(transcriptBucket)).Put(key, []byte(text))
	})
	if err != nil {
		// the transcript is still good; only the next run pays for it again
		slog.Warn("Failed to cache transcript", "image_path", imagePath, "error", err)
	}
	return text, nil
}

// Close closes the cache database and the wrapped extractor
func (c *BoltCache) Close() error {
	dbErr := c.db.Close()
	if err := c.next.Close(); err != nil {
		return err
	}
	return dbErr
}
