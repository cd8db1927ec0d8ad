package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/rcliao/semplan/internal/model"
)

// DefaultURL is the published undergraduate course catalog.
const DefaultURL = "https://daa.uit.edu.vn/danh-muc-mon-hoc-dai-hoc"

const maxPageBytes = 20 << 20

// Fetcher downloads and parses the catalog page.
type Fetcher struct {
	url       string
	proxy     string
	userAgent string
	client    *http.Client
	logger    *zap.Logger
}

// NewFetcher creates a fetcher for pageURL (DefaultURL when empty). When
// proxy is set the page is requested as proxy+escaped(pageURL), the form
// used by raw pass-through proxies such as allorigins.
func NewFetcher(pageURL, proxy string, logger *zap.Logger) *Fetcher {
	if pageURL == "" {
		pageURL = DefaultURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		url:       pageURL,
		proxy:     proxy,
		userAgent: "semplan/1.0",
		client:    &http.Client{Timeout: 60 * time.Second},
		logger:    logger,
	}
}

// Target is the URL actually requested.
func (f *Fetcher) Target() string {
	if f.proxy == "" {
		return f.url
	}
	return f.proxy + url.QueryEscape(f.url)
}

// Courses fetches the catalog page and parses its course table.
func (f *Fetcher) Courses(ctx context.Context) ([]model.Course, error) {
	target := f.Target()
	start := time.Now()
	f.logger.Debug("fetching catalog", zap.String("url", target))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("catalog error %d: %s", resp.StatusCode, string(b))
	}

	courses, err := ParseHTML(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, err
	}

	f.logger.Info("catalog fetched",
		zap.String("url", target),
		zap.Int("courses", len(courses)),
		zap.Duration("took", time.Since(start)))
	return courses, nil
}
