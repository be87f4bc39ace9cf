// Package assemble builds the final PDF document from an ordered set of
// captured page images.
package assemble

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"go.uber.org/zap"

	"github.com/issuecap/issuecap/internal/capture"
)

// PDFAssembler implements capture.Assembler with pdfcpu. Each page is
// embedded on a PDF page sized to the image's pixel dimensions (one pixel
// per point), so native resolution and color mode survive untouched.
type PDFAssembler struct {
	logger *zap.Logger
}

// NewPDFAssembler creates an assembler.
func NewPDFAssembler(logger *zap.Logger) *PDFAssembler {
	return &PDFAssembler{logger: logger}
}

// Assemble writes one document at dest containing pages in ascending
// sequence order. The write is atomic from the caller's perspective: the
// document is staged next to dest and renamed into place only when
// complete, so a partial file is never mistaken for a finished output.
func (a *PDFAssembler) Assemble(ctx context.Context, pages []capture.CapturedPage, dest string) error {
	if len(pages) == 0 {
		return fmt.Errorf("assemble: %w", capture.ErrNoPages)
	}
	if err := checkOrdered(pages); err != nil {
		return fmt.Errorf("assemble: %w", err)
	}

	conf := model.NewDefaultConfiguration()
	var doc []byte

	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("assemble canceled: %w", err)
		}

		imp, err := api.Import(fmt.Sprintf("dim:%d %d, pos:full", page.Width, page.Height), types.POINTS)
		if err != nil {
			return fmt.Errorf("page %d import config: %w", page.SequenceIndex, err)
		}

		var rs io.ReadSeeker
		if doc != nil {
			rs = bytes.NewReader(doc)
		}
		var out bytes.Buffer
		if err := api.ImportImages(rs, &out, []io.Reader{bytes.NewReader(page.ImageBytes)}, imp, conf); err != nil {
			return fmt.Errorf("embed page %d: %w", page.SequenceIndex, err)
		}
		doc = out.Bytes()
	}

	if err := writeAtomic(dest, doc); err != nil {
		return fmt.Errorf("write document: %w", err)
	}

	a.logger.Info("document assembled",
		zap.String("path", dest),
		zap.Int("pages", len(pages)),
		zap.Int("bytes", len(doc)))
	return nil
}

// checkOrdered verifies sequence indices are contiguous from 1. The
// session guarantees this; a violation means a caller handed us pages it
// reordered or filtered.
func checkOrdered(pages []capture.CapturedPage) error {
	for i, p := range pages {
		if p.SequenceIndex != i+1 {
			return fmt.Errorf("page at offset %d has sequence index %d, want %d", i, p.SequenceIndex, i+1)
		}
	}
	return nil
}

func writeAtomic(dest string, data []byte) error {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create output dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(dest)+".*.partial")
	if err != nil {
		return fmt.Errorf("stage temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("finalize %s: %w", dest, err)
	}
	return nil
}
