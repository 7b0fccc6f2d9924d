package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// ErrFetch marks failures retrieving or converting a remote page.
var ErrFetch = errors.New("fetch failed")

const (
	fetchTimeout = 30 * time.Second
	maxBodyBytes = 10 * 1024 * 1024
	userAgent    = "flashcard-generator/1.0"
)

// Fetcher retrieves web pages and converts them to markdown.
type Fetcher struct {
	client    *http.Client
	policy    *bluemonday.Policy
	converter *converter.Converter
	logger    *slog.Logger
}

// NewFetcher creates a Fetcher with default timeout and size limits.
func NewFetcher(logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		client: &http.Client{Timeout: fetchTimeout},
		policy: bluemonday.UGCPolicy(),
		converter: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
			),
		),
		logger: logger,
	}
}

// Page fetches url and returns its title and markdown body. One attempt,
// no retries; a failure here is reported per URL so siblings continue.
func (f *Fetcher) Page(ctx context.Context, url string) (title, markdown string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", "", fmt.Errorf("%w: new request %s: %v", ErrFetch, url, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("%w: get %s: %v", ErrFetch, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", "", fmt.Errorf("%w: get %s: http %d", ErrFetch, url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", "", fmt.Errorf("%w: read %s: %v", ErrFetch, url, err)
	}

	raw := string(body)
	title = pageTitle(raw)

	clean := f.policy.Sanitize(raw)
	markdown, err = f.converter.ConvertString(clean, converter.WithDomain(url))
	if err != nil {
		return "", "", fmt.Errorf("%w: convert %s: %v", ErrFetch, url, err)
	}
	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return "", "", fmt.Errorf("%w: %s: page has no extractable content", ErrFetch, url)
	}

	f.logger.Debug("fetched page", "url", url, "title", title, "bytes", len(body))
	return title, markdown, nil
}

// pageTitle extracts the <title> text from an HTML document, or "".
func pageTitle(rawHTML string) string {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}
	var title string
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if title != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "title" {
			if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
				title = strings.TrimSpace(n.FirstChild.Data)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(doc)
	return title
}
