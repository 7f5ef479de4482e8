// Package registry fetches package metadata from the remote index (PyPI).
// Version lookups retry with a fixed backoff and degrade to the Unknown
// sentinel; searches fall through three lookup paths and degrade to an empty
// list. Nothing in this package raises past its API boundary.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/glorpus-work/pyscope/pkg/errors"
	"github.com/glorpus-work/pyscope/pkg/model"
)

// HTTPClient is the production Client backed by net/http.
type HTTPClient struct {
	client    *http.Client
	baseURL   string
	userAgent string
	log       *slog.Logger
	maxBody   int64

	// sleep is swapped out in tests to avoid real backoff waits.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewHTTPClient creates a registry client. An empty baseURL selects the
// production index.
func NewHTTPClient(baseURL string, timeout time.Duration, log *slog.Logger) *HTTPClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = slog.Default()
	}
	return &HTTPClient{
		client:    &http.Client{Timeout: timeout},
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: "pyscope/1.0",
		log:       log,
		maxBody:   MaxResponseSize,
		sleep:     sleepCtx,
	}
}

type packageDocument struct {
	Info struct {
		Name    string `json:"name"`
		Version string `json:"version"`
		Summary string `json:"summary"`
	} `json:"info"`
}

type searchDocument struct {
	Projects []struct {
		Name        string `json:"name"`
		Version     string `json:"version"`
		Description string `json:"description"`
	} `json:"projects"`
}

// FetchLatestVersion returns the newest version of name, or Unknown.
func (hc *HTTPClient) FetchLatestVersion(ctx context.Context, name string) string {
	for attempt := 0; attempt < maxFetchAttempts; attempt++ {
		if ctx.Err() != nil {
			return model.VersionUnknown
		}
		doc, status, err := hc.fetchPackageDocument(ctx, name)
		if err == nil {
			if doc.Info.Version == "" {
				return model.VersionUnknown
			}
			return doc.Info.Version
		}
		if status == http.StatusNotFound {
			return model.VersionUnknown
		}
		if attempt < maxFetchAttempts-1 {
			if hc.sleep(ctx, retryBackoff) != nil {
				return model.VersionUnknown
			}
			continue
		}
		hc.log.Warn("failed to fetch package info", "package", name, "error", err)
	}
	return model.VersionUnknown
}

// Search tries a direct name lookup, then the search listing endpoint, then a
// page scrape. All paths are best effort.
func (hc *HTTPClient) Search(ctx context.Context, term string) []model.SearchResult {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}

	results, notFound := hc.searchDirect(ctx, term)
	if len(results) > 0 {
		return dedupe(results)
	}
	if notFound {
		if results = hc.searchListing(ctx, term); len(results) > 0 {
			return dedupe(results)
		}
	}
	return dedupe(hc.searchScrape(ctx, term))
}

func (hc *HTTPClient) fetchPackageDocument(ctx context.Context, name string) (*packageDocument, int, error) {
	endpoint := fmt.Sprintf("%s/pypi/%s/json", hc.baseURL, url.PathEscape(strings.ToLower(name)))
	body, status, err := hc.get(ctx, endpoint, "application/json")
	if err != nil {
		return nil, status, err
	}
	var doc packageDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, status, errors.Wrap(err, "failed to decode package document")
	}
	return &doc, status, nil
}

// searchDirect resolves the term as an exact package name. The notFound flag
// tells the caller to try the listing endpoint next.
func (hc *HTTPClient) searchDirect(ctx context.Context, term string) (results []model.SearchResult, notFound bool) {
	doc, status, err := hc.fetchPackageDocument(ctx, term)
	if err != nil {
		return nil, status == http.StatusNotFound
	}
	name := strings.TrimSpace(doc.Info.Name)
	if name == "" || doc.Info.Version == "" {
		return nil, false
	}
	summary := doc.Info.Summary
	if summary == "" {
		summary = "No description"
	}
	return []model.SearchResult{{Name: name, Version: doc.Info.Version, Summary: summary}}, false
}

func (hc *HTTPClient) searchListing(ctx context.Context, term string) []model.SearchResult {
	endpoint := fmt.Sprintf("%s/search/?q=%s&format=json", hc.baseURL, url.QueryEscape(term))
	body, _, err := hc.get(ctx, endpoint, "application/json")
	if err != nil {
		return nil
	}
	var doc searchDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil
	}
	results := make([]model.SearchResult, 0, len(doc.Projects))
	for _, p := range doc.Projects {
		if len(results) >= maxSearchAPIResults {
			break
		}
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}
		ver := p.Version
		if ver == "" {
			ver = model.VersionUnknown
		}
		results = append(results, model.SearchResult{Name: name, Version: ver, Summary: p.Description})
	}
	return results
}

func (hc *HTTPClient) searchScrape(ctx context.Context, term string) []model.SearchResult {
	endpoint := fmt.Sprintf("%s/search/?q=%s", hc.baseURL, url.QueryEscape(term))
	body, _, err := hc.get(ctx, endpoint, "text/html")
	if err != nil {
		return nil
	}
	results := scrapeSearchPage(string(body))
	if len(results) > maxSearchScrapeResults {
		results = results[:maxSearchScrapeResults]
	}
	return results
}

// get performs one capped GET. The body is read through a limited reader so an
// oversize response fails instead of buffering unbounded.
func (hc *HTTPClient) get(ctx context.Context, endpoint, accept string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("User-Agent", hc.userAgent)
	req.Header.Set("Accept", accept)

	resp, err := hc.client.Do(req)
	if err != nil {
		return nil, 0, errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, fmt.Errorf("%w: HTTP %d", errors.ErrRegistryStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, hc.maxBody+1))
	if err != nil {
		return nil, resp.StatusCode, errors.Wrap(err, "failed to read response body")
	}
	if int64(len(body)) > hc.maxBody {
		return nil, resp.StatusCode, errors.ErrResponseTooLarge
	}
	return body, resp.StatusCode, nil
}

func dedupe(results []model.SearchResult) []model.SearchResult {
	if len(results) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(results))
	out := results[:0]
	for _, r := range results {
		key := strings.ToLower(r.Name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
