package mediawiki

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// newTestServer answers the four query shapes the client issues, keyed on the
// list/prop parameters.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("format") != "json" || q.Get("formatversion") != "2" {
			t.Errorf("missing format parameters in %s", r.URL.RawQuery)
		}

		w.Header().Set("Content-Type", "application/json")
		switch {
		case q.Get("list") == "geosearch":
			w.Write([]byte(`{"query":{"geosearch":[
				{"pageid":101,"title":"Massacre de Wassy","lat":48.49,"lon":4.95},
				{"pageid":0,"title":"Broken entry","lat":0,"lon":0},
				{"pageid":102,"title":"Château de Montsoreau","lat":47.21,"lon":0.06}
			]}}`))
		case q.Get("list") == "search":
			w.Write([]byte(`{"query":{"search":[
				{"pageid":201,"title":"Oradour-sur-Glane"},
				{"pageid":202,"title":"Article sans coordonnées"}
			]}}`))
		case q.Get("prop") == "coordinates":
			w.Write([]byte(`{"query":{"pages":[
				{"pageid":201,"coordinates":[{"lat":45.93,"lon":1.03}]},
				{"pageid":202}
			]}}`))
		case q.Get("prop") == "extracts":
			// The extracts module caps pages per response; the remainder
			// arrives behind a continue token.
			if q.Get("excontinue") == "" {
				w.Write([]byte(`{"continue":{"excontinue":2,"continue":"||"},"query":{"pages":[
					{"pageid":101,"extract":"En 1562, un massacre eut lieu."},
					{"pageid":102,"extract":"   "}
				]}}`))
			} else {
				w.Write([]byte(`{"query":{"pages":[
					{"pageid":103,"extract":"Une abbaye fondée en 1120."},
					{"pageid":104}
				]}}`))
			}
		case q.Get("prop") == "langlinks":
			// lllimit is a shared per-request total: one page's links can be
			// split across continuation rounds.
			if q.Get("llcontinue") == "" {
				w.Write([]byte(`{"continue":{"llcontinue":"101|es","continue":"||"},"query":{"pages":[
					{"pageid":101,"langlinks":[{"lang":"en"},{"lang":"de"}]},
					{"pageid":102}
				]}}`))
			} else {
				w.Write([]byte(`{"query":{"pages":[
					{"pageid":101,"langlinks":[{"lang":"es"}]},
					{"pageid":102}
				]}}`))
			}
		default:
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
			http.NotFound(w, r)
		}
	}))
}

func TestGeoSearch(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	defer srv.Close()
	client := NewClient(srv.URL, "", srv.Client())

	articles, err := client.GeoSearch(context.Background(), 48.0, 2.0, 5000, 150)
	if err != nil {
		t.Fatalf("GeoSearch error: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles after dropping the zero pageid, got %d", len(articles))
	}
	if articles[0].ID != 101 || articles[0].Title != "Massacre de Wassy" {
		t.Fatalf("unexpected first article: %+v", articles[0])
	}
	if articles[0].Latitude != 48.49 || articles[0].Longitude != 4.95 {
		t.Fatalf("coordinates not carried over: %+v", articles[0])
	}
}

func TestKeywordSearchResolvesCoordinates(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	defer srv.Close()
	client := NewClient(srv.URL, "", srv.Client())

	articles, err := client.KeywordSearch(context.Background(), "massacre France")
	if err != nil {
		t.Fatalf("KeywordSearch error: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("hits without coordinates must be dropped, got %d articles", len(articles))
	}
	if articles[0].ID != 201 || articles[0].Latitude != 45.93 {
		t.Fatalf("unexpected article: %+v", articles[0])
	}
}

func TestFetchExtracts(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	defer srv.Close()
	client := NewClient(srv.URL, "", srv.Client())

	extracts, err := client.FetchExtracts(context.Background(), []int{101, 102, 103, 104})
	if err != nil {
		t.Fatalf("FetchExtracts error: %v", err)
	}
	if len(extracts) != 2 {
		t.Fatalf("blank and missing extracts must be absent, got %d entries", len(extracts))
	}
	if !strings.Contains(extracts[101], "1562") {
		t.Fatalf("unexpected extract: %q", extracts[101])
	}
	// 103 only exists behind the continue token.
	if !strings.Contains(extracts[103], "1120") {
		t.Fatalf("continued extract lost: %q", extracts[103])
	}
}

func TestFetchLangLinkCounts(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	defer srv.Close()
	client := NewClient(srv.URL, "", srv.Client())

	counts, err := client.FetchLangLinkCounts(context.Background(), []int{101, 102})
	if err != nil {
		t.Fatalf("FetchLangLinkCounts error: %v", err)
	}
	// Two links in the first response, the third behind the continue token.
	if counts[101] != 3 {
		t.Fatalf("expected 3 editions for 101, got %d", counts[101])
	}
	if counts[102] != 0 {
		t.Fatalf("page without langlinks must count 0, got %d", counts[102])
	}
}

func TestServerErrorPropagates(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	client := NewClient(srv.URL, "", srv.Client())

	if _, err := client.GeoSearch(context.Background(), 48.0, 2.0, 5000, 150); err == nil {
		t.Fatalf("expected an error on HTTP 503")
	}
	if _, err := client.FetchExtracts(context.Background(), []int{1}); err == nil {
		t.Fatalf("expected an error on HTTP 503")
	}
}

func TestEmptyBatchesShortCircuit(t *testing.T) {
	t.Parallel()

	// No server: an empty id list must not issue a request at all.
	client := NewClient("http://127.0.0.1:0", "", nil)

	extracts, err := client.FetchExtracts(context.Background(), nil)
	if err != nil || len(extracts) != 0 {
		t.Fatalf("empty batch must return an empty map, got %v / %v", extracts, err)
	}
	counts, err := client.FetchLangLinkCounts(context.Background(), nil)
	if err != nil || len(counts) != 0 {
		t.Fatalf("empty batch must return an empty map, got %v / %v", counts, err)
	}
}
