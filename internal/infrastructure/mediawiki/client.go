// Package mediawiki adapts the MediaWiki action API to the discovery ports:
// geosearch, full-text search with coordinate resolution, batched extracts
// and batched language-link counts.
package mediawiki

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"histomap/internal/domain"
	"histomap/internal/ports"
)

const (
	defaultBaseURL   = "https://fr.wikipedia.org/w/api.php"
	defaultUserAgent = "histomap/1.0"

	keywordHitCap   = 5
	minRadiusMeters = 10
	maxRadiusMeters = 10000
	maxGeoLimit     = 500

	// Hard stop for query continuation, in case the API keeps returning a
	// continue block.
	maxBatchContinues = 20
)

// Client talks to one MediaWiki installation.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

var _ ports.GeoSearcher = (*Client)(nil)
var _ ports.KeywordSearcher = (*Client)(nil)
var _ ports.ExtractFetcher = (*Client)(nil)
var _ ports.LangLinkFetcher = (*Client)(nil)

// NewClient wires an HTTP client; empty arguments fall back to fr.wikipedia
// defaults.
func NewClient(baseURL, userAgent string, client *http.Client) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: baseURL, userAgent: userAgent, http: client}
}

type geoSearchResponse struct {
	Query struct {
		Geosearch []struct {
			PageID int     `json:"pageid"`
			Title  string  `json:"title"`
			Lat    float64 `json:"lat"`
			Lon    float64 `json:"lon"`
		} `json:"geosearch"`
	} `json:"query"`
}

// GeoSearch lists articles with coordinates around a point. Radius and limit
// are clamped to the API bounds.
func (c *Client) GeoSearch(ctx context.Context, lat, lon float64, radiusMeters, limit int) ([]domain.CandidateArticle, error) {
	if limit > maxGeoLimit {
		limit = maxGeoLimit
	}

	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "geosearch")
	params.Set("gscoord", fmt.Sprintf("%f|%f", lat, lon))
	params.Set("gsradius", strconv.Itoa(clamp(radiusMeters, minRadiusMeters, maxRadiusMeters)))
	params.Set("gslimit", strconv.Itoa(limit))

	var resp geoSearchResponse
	if err := c.get(ctx, params, &resp); err != nil {
		return nil, fmt.Errorf("geosearch: %w", err)
	}

	articles := make([]domain.CandidateArticle, 0, len(resp.Query.Geosearch))
	for _, hit := range resp.Query.Geosearch {
		if hit.PageID == 0 || hit.Title == "" {
			continue
		}
		articles = append(articles, domain.CandidateArticle{
			ID:        hit.PageID,
			Title:     hit.Title,
			Latitude:  hit.Lat,
			Longitude: hit.Lon,
		})
	}
	return articles, nil
}

type searchResponse struct {
	Query struct {
		Search []struct {
			PageID int    `json:"pageid"`
			Title  string `json:"title"`
		} `json:"search"`
	} `json:"query"`
}

// KeywordSearch runs a capped full-text search and resolves coordinates for
// the hits with a secondary batch call; hits without coordinates are dropped.
func (c *Client) KeywordSearch(ctx context.Context, query string) ([]domain.CandidateArticle, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("srsearch", query)
	params.Set("srlimit", strconv.Itoa(keywordHitCap))

	var resp searchResponse
	if err := c.get(ctx, params, &resp); err != nil {
		return nil, fmt.Errorf("keyword search %q: %w", query, err)
	}
	if len(resp.Query.Search) == 0 {
		return nil, nil
	}

	ids := make([]int, 0, len(resp.Query.Search))
	for _, hit := range resp.Query.Search {
		if hit.PageID != 0 {
			ids = append(ids, hit.PageID)
		}
	}
	coords, err := c.resolveCoordinates(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("keyword search %q: %w", query, err)
	}

	articles := make([]domain.CandidateArticle, 0, len(ids))
	for _, hit := range resp.Query.Search {
		point, ok := coords[hit.PageID]
		if !ok {
			continue
		}
		articles = append(articles, domain.CandidateArticle{
			ID:        hit.PageID,
			Title:     hit.Title,
			Latitude:  point[0],
			Longitude: point[1],
		})
	}
	return articles, nil
}

type coordinatesResponse struct {
	Query struct {
		Pages []struct {
			PageID      int `json:"pageid"`
			Coordinates []struct {
				Lat float64 `json:"lat"`
				Lon float64 `json:"lon"`
			} `json:"coordinates"`
		} `json:"pages"`
	} `json:"query"`
}

func (c *Client) resolveCoordinates(ctx context.Context, ids []int) (map[int][2]float64, error) {
	if len(ids) == 0 {
		return map[int][2]float64{}, nil
	}

	params := url.Values{}
	params.Set("action", "query")
	params.Set("prop", "coordinates")
	params.Set("colimit", "max")
	params.Set("pageids", joinIDs(ids))

	var resp coordinatesResponse
	if err := c.get(ctx, params, &resp); err != nil {
		return nil, fmt.Errorf("resolve coordinates: %w", err)
	}

	coords := make(map[int][2]float64, len(resp.Query.Pages))
	for _, page := range resp.Query.Pages {
		if page.PageID == 0 || len(page.Coordinates) == 0 {
			continue
		}
		coords[page.PageID] = [2]float64{page.Coordinates[0].Lat, page.Coordinates[0].Lon}
	}
	return coords, nil
}

type extractsResponse struct {
	Continue map[string]any `json:"continue"`
	Query    struct {
		Pages []struct {
			PageID  int    `json:"pageid"`
			Extract string `json:"extract"`
		} `json:"pages"`
	} `json:"query"`
}

// FetchExtracts returns plaintext intros for a batch of ids. The extracts
// module serves at most 20 pages per response, so the query continuation is
// followed until every requested page was seen. Pages without an extract are
// simply absent from the result.
func (c *Client) FetchExtracts(ctx context.Context, ids []int) (map[int]string, error) {
	if len(ids) == 0 {
		return map[int]string{}, nil
	}

	extracts := make(map[int]string, len(ids))
	cont := map[string]any{}
	for round := 0; round < maxBatchContinues; round++ {
		params := url.Values{}
		params.Set("action", "query")
		params.Set("prop", "extracts")
		params.Set("exintro", "1")
		params.Set("explaintext", "1")
		params.Set("exlimit", "max")
		params.Set("pageids", joinIDs(ids))
		applyContinue(params, cont)

		var resp extractsResponse
		if err := c.get(ctx, params, &resp); err != nil {
			return nil, fmt.Errorf("fetch extracts: %w", err)
		}
		for _, page := range resp.Query.Pages {
			if page.PageID == 0 || strings.TrimSpace(page.Extract) == "" {
				continue
			}
			if _, ok := extracts[page.PageID]; !ok {
				extracts[page.PageID] = page.Extract
			}
		}
		if len(resp.Continue) == 0 {
			break
		}
		cont = resp.Continue
	}
	return extracts, nil
}

type langLinksResponse struct {
	Continue map[string]any `json:"continue"`
	Query    struct {
		Pages []struct {
			PageID    int `json:"pageid"`
			LangLinks []struct {
				Lang string `json:"lang"`
			} `json:"langlinks"`
		} `json:"pages"`
	} `json:"query"`
}

// FetchLangLinkCounts returns the number of cross-language editions per id.
// lllimit is a per-request total shared by every page in the batch, so counts
// accumulate across continuation rounds until the API stops continuing.
func (c *Client) FetchLangLinkCounts(ctx context.Context, ids []int) (map[int]int, error) {
	if len(ids) == 0 {
		return map[int]int{}, nil
	}

	counts := make(map[int]int, len(ids))
	cont := map[string]any{}
	for round := 0; round < maxBatchContinues; round++ {
		params := url.Values{}
		params.Set("action", "query")
		params.Set("prop", "langlinks")
		params.Set("lllimit", "max")
		params.Set("pageids", joinIDs(ids))
		applyContinue(params, cont)

		var resp langLinksResponse
		if err := c.get(ctx, params, &resp); err != nil {
			return nil, fmt.Errorf("fetch language links: %w", err)
		}
		for _, page := range resp.Query.Pages {
			if page.PageID == 0 {
				continue
			}
			counts[page.PageID] += len(page.LangLinks)
		}
		if len(resp.Continue) == 0 {
			break
		}
		cont = resp.Continue
	}
	return counts, nil
}

// applyContinue copies a response's continue block into the next request.
// Continue values arrive as strings or numbers depending on the module.
func applyContinue(params url.Values, cont map[string]any) {
	for key, value := range cont {
		switch v := value.(type) {
		case string:
			params.Set(key, v)
		case float64:
			params.Set(key, strconv.FormatFloat(v, 'f', -1, 64))
		default:
			params.Set(key, fmt.Sprint(v))
		}
	}
}

func (c *Client) get(ctx context.Context, params url.Values, v any) error {
	params.Set("format", "json")
	params.Set("formatversion", "2")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("mediawiki returned %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, "|")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
