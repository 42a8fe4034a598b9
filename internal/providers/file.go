package providers

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/andybalholm/brotli"

	"pathways-sync/internal/domain"
)

// File reads an export saved on disk. Paths ending in ".br" are brotli-compressed.
type File struct {
	Path string
}

func (f File) Name() string { return f.Path }

func (f File) Pathways(ctx context.Context) (domain.PathwayDocument, error) {
	fh, err := os.Open(f.Path)
	if err != nil {
		return domain.PathwayDocument{}, fmt.Errorf("providers: open %s: %w", f.Path, err)
	}
	defer fh.Close()

	var r io.Reader = fh
	if strings.HasSuffix(strings.ToLower(f.Path), ".br") {
		r = brotli.NewReader(fh)
	}

	doc, err := domain.DecodePathways(r)
	if err != nil {
		return domain.PathwayDocument{}, fmt.Errorf("providers: %s: %w", f.Path, err)
	}
	return doc, nil
}
