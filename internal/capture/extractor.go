package capture

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"net/http"
	"strings"
	"time"

	// Raster formats the viewer is known to emit.
	_ "image/jpeg"
	_ "image/png"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// NewAuthenticatedClient builds a resty client that inherits the browsing
// context's identity: its cookies and user agent. The core never
// re-derives credentials; it only reuses the session it was given.
func NewAuthenticatedClient(userAgent string, timeout time.Duration, cookies []*http.Cookie) *resty.Client {
	client := resty.New()
	if userAgent != "" {
		client.SetHeader("User-Agent", userAgent)
	}
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	if len(cookies) > 0 {
		client.SetCookies(cookies)
	}
	return client
}

// ImageExtractor obtains pixel content for page-eligible candidates:
// inline data URLs are decoded locally, remote locators are fetched with
// the authenticated client.
type ImageExtractor struct {
	client  *resty.Client
	limiter *rate.Limiter
	hasher  Hasher
	logger  *zap.Logger
}

// NewImageExtractor creates an extractor. qps bounds the rate of remote
// fetches against the portal; zero disables the limiter.
func NewImageExtractor(client *resty.Client, qps float64, hasher Hasher, logger *zap.Logger) *ImageExtractor {
	var limiter *rate.Limiter
	if qps > 0 {
		limiter = rate.NewLimiter(rate.Limit(qps), 1)
	}
	return &ImageExtractor{
		client:  client,
		limiter: limiter,
		hasher:  hasher,
		logger:  logger,
	}
}

// Extract returns the candidate's decoded bytes, dimensions, format, and
// content fingerprint. Decode and fetch failures are both extraction
// failures; "not yet rendered" is handled upstream by classification.
func (e *ImageExtractor) Extract(ctx context.Context, cand PageCandidate) (ExtractedPage, error) {
	var (
		raw    []byte
		format string
		err    error
	)
	if strings.HasPrefix(cand.SourceRef, "data:") {
		raw, format, err = decodeDataURL(cand.SourceRef)
		if err != nil {
			return ExtractedPage{}, fmt.Errorf("decode inline payload: %w", err)
		}
	} else {
		raw, format, err = e.fetch(ctx, cand.SourceRef)
		if err != nil {
			return ExtractedPage{}, fmt.Errorf("fetch page resource: %w", err)
		}
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return ExtractedPage{}, fmt.Errorf("decode image: %w", err)
	}

	fingerprint, err := e.hasher.Hash(raw)
	if err != nil {
		return ExtractedPage{}, fmt.Errorf("fingerprint page: %w", err)
	}

	return ExtractedPage{
		Fingerprint: fingerprint,
		ImageBytes:  raw,
		Format:      format,
		Width:       cfg.Width,
		Height:      cfg.Height,
	}, nil
}

func (e *ImageExtractor) fetch(ctx context.Context, rawURL string) ([]byte, string, error) {
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, "", fmt.Errorf("wait fetch budget: %w", err)
		}
	}

	RemoteFetches.Inc()
	resp, err := e.client.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		RemoteFetchErrors.Inc()
		return nil, "", fmt.Errorf("get %s: %w", rawURL, err)
	}
	if resp.IsError() {
		RemoteFetchErrors.Inc()
		return nil, "", fmt.Errorf("get %s: status %d", rawURL, resp.StatusCode())
	}
	body := resp.Body()
	if len(body) == 0 {
		RemoteFetchErrors.Inc()
		return nil, "", fmt.Errorf("get %s: empty body", rawURL)
	}
	return body, formatTag(body, resp.Header().Get("Content-Type")), nil
}

// decodeDataURL decodes a base64 image data URL into raw bytes.
func decodeDataURL(ref string) ([]byte, string, error) {
	header, payload, ok := strings.Cut(ref, ",")
	if !ok {
		return nil, "", fmt.Errorf("malformed data URL")
	}
	if !strings.HasPrefix(header, "data:image/") {
		return nil, "", fmt.Errorf("not an image data URL: %s", header)
	}
	if !strings.Contains(header, ";base64") {
		return nil, "", fmt.Errorf("unsupported data URL encoding: %s", header)
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("decode base64 payload: %w", err)
	}
	if len(raw) == 0 {
		return nil, "", fmt.Errorf("empty data URL payload")
	}
	return raw, formatTag(raw, header), nil
}

// formatTag derives the raster format tag used for artifact filenames.
// hint may be a MIME type or a data URL header; the sniffed content type
// wins when the hint is ambiguous.
func formatTag(raw []byte, hint string) string {
	for _, s := range []string{hint, http.DetectContentType(raw)} {
		switch {
		case strings.Contains(s, "image/png"):
			return "png"
		case strings.Contains(s, "image/jpeg"), strings.Contains(s, "image/jpg"):
			return "jpg"
		}
	}
	return "png"
}
