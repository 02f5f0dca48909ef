// Package wikifeed reads the MediaWiki "on this day" featured feed.
package wikifeed

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"histomap/internal/domain"
	"histomap/internal/ports"
	"histomap/internal/temporal"
)

const defaultFeedURL = "https://fr.wikipedia.org/w/api.php?action=featuredfeed&feed=onthisday&feedformat=rss"

// Client fetches and parses the featured feed.
type Client struct {
	feedURL string
	http    *http.Client
	parser  *gofeed.Parser
}

var _ ports.AnniversaryFeed = (*Client)(nil)

// NewClient wires an HTTP client; an empty URL falls back to fr.wikipedia.
func NewClient(feedURL string, client *http.Client) *Client {
	if feedURL == "" {
		feedURL = defaultFeedURL
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{feedURL: feedURL, http: client, parser: gofeed.NewParser()}
}

// OnThisDay returns the anniversary entries of the feed's most recent day.
// Item bodies are HTML lists; each list entry becomes one anniversary.
func (c *Client) OnThisDay(ctx context.Context) ([]domain.Anniversary, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned %s", resp.Status)
	}

	feed, err := c.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	if len(feed.Items) == 0 {
		return nil, nil
	}

	// The feed lists past days oldest first; the last item is today.
	item := feed.Items[len(feed.Items)-1]
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(item.Description))
	if err != nil {
		return nil, fmt.Errorf("parse item body: %w", err)
	}

	var entries []domain.Anniversary
	doc.Find("li").Each(func(_ int, li *goquery.Selection) {
		text := strings.Join(strings.Fields(li.Text()), " ")
		if text == "" {
			return
		}
		entry := domain.Anniversary{Date: strings.TrimSpace(item.Title), Text: text}
		if year, ok := temporal.ExtractYear(text); ok {
			entry.Year = year
		}
		entries = append(entries, entry)
	})
	return entries, nil
}
