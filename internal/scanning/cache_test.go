package scanning

import (
	"context"
	"errors"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("BoltCache", func() {
	var (
		tmpDir string
		next   *mockExtractor
		cache  *BoltCache
		image  string
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		next = &mockExtractor{text: "SHELL\nTotal 40.00"}
		var err error
		cache, err = NewBoltCache(filepath.Join(tmpDir, "cache.db"), next)
		Expect(err).NotTo(HaveOccurred())
		image = writeTempFile(tmpDir, "r.png", pngBytes())
	})

	AfterEach(func() {
		cache.Close()
	})

	It("calls the wrapped extractor once per image content", func() {
		for i := 0; i < 3; i++ {
			text, err := cache.ExtractText(context.Background(), image)
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(Equal("SHELL\nTotal 40.00"))
		}
		Expect(next.calls).To(Equal(1))
	})

	It("keys by content, not path", func() {
		copyPath := writeTempFile(tmpDir, "copy.png", pngBytes())
		_, err := cache.ExtractText(context.Background(), image)
		Expect(err).NotTo(HaveOccurred())
		_, err = cache.ExtractText(context.Background(), copyPath)
		Expect(err).NotTo(HaveOccurred())
		Expect(next.calls).To(Equal(1))
	})

	When("the wrapped extractor fails", func() {
		BeforeEach(func() {
			next.err = errors.New("ocr down")
		})

		It("returns the error and caches nothing", func() {
			_, err := cache.ExtractText(context.Background(), image)
			Expect(err).To(MatchError(next.err))

			next.err = nil
			_, err = cache.ExtractText(context.Background(), image)
			Expect(err).NotTo(HaveOccurred())
			Expect(next.calls).To(Equal(2))
		})
	})

	It("closes the wrapped extractor", func() {
		Expect(cache.Close()).To(Succeed())
		Expect(next.closed).To(BeTrue())
		// reopen so AfterEach has something to close
		var err error
		cache, err = NewBoltCache(filepath.Join(tmpDir, "cache.db"), &mockExtractor{})
		Expect(err).NotTo(HaveOccurred())
	})
})
