package wikifeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const feedFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Wikipédia éphéméride</title>
    <item>
      <title>24 août</title>
      <description><![CDATA[<ul><li>En 79, éruption du Vésuve.</li></ul>]]></description>
    </item>
    <item>
      <title>25 août</title>
      <description><![CDATA[<ul>
        <li>En 1944, libération de Paris.</li>
        <li>Fondation d'une abbaye, date incertaine.</li>
        <li></li>
      </ul>]]></description>
    </item>
  </channel>
</rss>`

func TestOnThisDayParsesLatestItem(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(feedFixture))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.Client())
	entries, err := client.OnThisDay(context.Background())
	if err != nil {
		t.Fatalf("OnThisDay error: %v", err)
	}

	// Only the last (most recent) day is read; empty list entries are skipped.
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	for _, entry := range entries {
		if entry.Date != "25 août" {
			t.Fatalf("entry must carry the item date, got %q", entry.Date)
		}
	}
	if entries[0].Year != 1944 {
		t.Fatalf("expected extracted year 1944, got %d", entries[0].Year)
	}
	if entries[0].Text != "En 1944, libération de Paris." {
		t.Fatalf("unexpected entry text: %q", entries[0].Text)
	}
	if entries[1].Year != 0 {
		t.Fatalf("entry without a year must stay 0, got %d", entries[1].Year)
	}
}

func TestOnThisDayFeedError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.Client())
	if _, err := client.OnThisDay(context.Background()); err == nil {
		t.Fatalf("expected an error on HTTP 410")
	}
}
