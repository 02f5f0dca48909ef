// Package discovery fans out to the geosearch grid and the keyword searches,
// classifies the merged candidates and returns a ranked event list.
package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"histomap/internal/classify"
	"histomap/internal/domain"
	"histomap/internal/ports"
	"histomap/internal/taxonomy"
	"histomap/internal/temporal"
)

const (
	defaultGridStep   = 0.18 // ~20km between grid points
	defaultGeoLimit   = 150
	defaultTopN       = 30
	batchChunkSize    = 50
	minRadiusMeters   = 10
	maxRadiusMeters   = 10000
	maxDescriptionLen = 300
)

// Deps wires the driven adapters into the orchestrator.
type Deps struct {
	Geo       ports.GeoSearcher
	Keyword   ports.KeywordSearcher
	Extracts  ports.ExtractFetcher
	LangLinks ports.LangLinkFetcher
	Store     ports.EventStore // optional; write-through is best-effort
	Cache     *Cache
	Logger    *slog.Logger
}

// Options tune a discovery pass; zero values fall back to defaults.
type Options struct {
	GridStep     float64
	GeoLimit     int
	TopN         int
	Queries      []string
	LocationHint string
}

// Result carries the ranked events of one pass. Degraded reports that at
// least one upstream call failed and the pass ran on partial data.
type Result struct {
	Events   []domain.ClassifiedEvent `json:"events"`
	Degraded bool                     `json:"degraded"`
}

// Orchestrator implements the discovery pipeline over the injected adapters.
type Orchestrator struct {
	geo       ports.GeoSearcher
	keyword   ports.KeywordSearcher
	extracts  ports.ExtractFetcher
	langLinks ports.LangLinkFetcher
	store     ports.EventStore
	cache     *Cache
	logger    *slog.Logger

	gridStep     float64
	geoLimit     int
	topN         int
	queries      []string
	locationHint string
}

// NewOrchestrator constructs the orchestration component.
func NewOrchestrator(deps Deps, opts Options) *Orchestrator {
	o := &Orchestrator{
		geo:          deps.Geo,
		keyword:      deps.Keyword,
		extracts:     deps.Extracts,
		langLinks:    deps.LangLinks,
		store:        deps.Store,
		cache:        deps.Cache,
		logger:       deps.Logger,
		gridStep:     opts.GridStep,
		geoLimit:     opts.GeoLimit,
		topN:         opts.TopN,
		queries:      opts.Queries,
		locationHint: opts.LocationHint,
	}
	if o.cache == nil {
		o.cache = NewCache()
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.gridStep == 0 {
		o.gridStep = defaultGridStep
	}
	if o.geoLimit == 0 {
		o.geoLimit = defaultGeoLimit
	}
	if o.topN == 0 {
		o.topN = defaultTopN
	}
	if len(o.queries) == 0 {
		o.queries = taxonomy.KeywordQueries
	}
	return o
}

// Cache exposes the injected cache, mainly for pre-warming from a store.
func (o *Orchestrator) Cache() *Cache {
	return o.cache
}

type candidate struct {
	domain.CandidateArticle
	incontournable bool
}

// FetchEvents runs one discovery pass around a point and returns up to the
// configured top-N events ranked by score descending. Upstream failures
// degrade the pass instead of failing it.
func (o *Orchestrator) FetchEvents(ctx context.Context, lat, lon float64, radiusMeters int) (Result, error) {
	radius := clamp(radiusMeters, minRadiusMeters, maxRadiusMeters)

	grid := [][2]float64{
		{lat, lon},
		{lat + o.gridStep, lon},
		{lat - o.gridStep, lon},
		{lat, lon + o.gridStep},
		{lat, lon - o.gridStep},
	}
	points := make([][2]float64, 0, len(grid))
	for _, p := range grid {
		// Cells are claimed before the fetch, so a failing region is not
		// hammered again within the session.
		if o.cache.ClaimCell(p[0], p[1]) {
			points = append(points, p)
		}
	}
	if len(points) == 0 {
		o.logger.Debug("grid exhausted, nothing new to report", "lat", lat, "lon", lon)
		return Result{}, nil
	}

	var (
		mu       sync.Mutex
		merged   = map[int]candidate{}
		degraded bool
	)

	add := func(articles []domain.CandidateArticle, incontournable bool) {
		mu.Lock()
		defer mu.Unlock()
		for _, article := range articles {
			if article.ID == 0 || o.cache.Contains(article.ID) {
				continue
			}
			if existing, ok := merged[article.ID]; ok {
				if incontournable && !existing.incontournable {
					existing.incontournable = true
					merged[article.ID] = existing
				}
				continue
			}
			merged[article.ID] = candidate{CandidateArticle: article, incontournable: incontournable}
		}
	}
	fail := func(source string, err error) {
		mu.Lock()
		degraded = true
		mu.Unlock()
		o.logger.Warn("discovery source failed", "source", source, "error", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, p := range points {
		p := p
		g.Go(func() error {
			articles, err := o.geo.GeoSearch(gctx, p[0], p[1], radius, o.geoLimit)
			if err != nil {
				fail("geosearch", err)
				return nil
			}
			add(articles, false)
			return nil
		})
	}
	for _, q := range o.queries {
		query := q
		if o.locationHint != "" {
			query += " " + o.locationHint
		}
		g.Go(func() error {
			articles, err := o.keyword.KeywordSearch(gctx, query)
			if err != nil {
				fail("keyword search", err)
				return nil
			}
			add(articles, true)
			return nil
		})
	}
	_ = g.Wait()

	ids := make([]int, 0, len(merged))
	for id := range merged {
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return Result{Degraded: degraded}, nil
	}

	extracts := map[int]string{}
	langCounts := map[int]int{}
	fg, fctx := errgroup.WithContext(ctx)
	for _, chunk := range chunkIDs(ids, batchChunkSize) {
		chunk := chunk
		fg.Go(func() error {
			got, err := o.extracts.FetchExtracts(fctx, chunk)
			if err != nil {
				fail("extracts", err)
				return nil
			}
			mu.Lock()
			for id, text := range got {
				extracts[id] = text
			}
			mu.Unlock()
			return nil
		})
		fg.Go(func() error {
			got, err := o.langLinks.FetchLangLinkCounts(fctx, chunk)
			if err != nil {
				fail("language links", err)
				return nil
			}
			mu.Lock()
			for id, count := range got {
				langCounts[id] = count
			}
			mu.Unlock()
			return nil
		})
	}
	_ = fg.Wait()

	events := make([]domain.ClassifiedEvent, 0, len(ids))
	for _, id := range ids {
		cand := merged[id]
		extract := strings.TrimSpace(extracts[id])
		if extract == "" {
			// Absent upstream payload: drop silently, no tombstone, the
			// article may resolve on a later pass over another cell.
			continue
		}
		langCount := langCounts[id]

		verdict := classify.Score(cand.Title, extract, langCount)
		if verdict.Rejected {
			o.reject(ctx, id, verdict.Reason)
			continue
		}
		if !classify.KeepOrigins(verdict.Category, langCount, cand.incontournable) {
			o.reject(ctx, id, "minor origins article")
			continue
		}

		text := cand.Title + " " + extract
		event := domain.ClassifiedEvent{
			ID:               id,
			Title:            displayTitle(cand.Title, text),
			Description:      trimDescription(extract),
			Latitude:         cand.Latitude,
			Longitude:        cand.Longitude,
			Category:         verdict.Category,
			Score:            classify.FinalScore(verdict.Score, langCount),
			NotorietyScore:   langCount,
			IsIncontournable: cand.incontournable,
		}
		if year, ok := temporal.ExtractYear(text); ok {
			event.Year = &year
		}

		o.cache.StoreEvent(event)
		if o.store != nil {
			if err := o.store.SaveEvent(ctx, event); err != nil {
				o.logger.Warn("persist event", "id", id, "error", err)
			}
		}
		events = append(events, event)
	}

	// Stable sort: classification order is the defined tie-break.
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Score > events[j].Score
	})
	if len(events) > o.topN {
		events = events[:o.topN]
	}

	return Result{Events: events, Degraded: degraded}, nil
}

func (o *Orchestrator) reject(ctx context.Context, id int, reason string) {
	o.logger.Debug("candidate rejected", "id", id, "reason", reason)
	o.cache.StoreTombstone(id)
	if o.store != nil {
		if err := o.store.SaveRejection(ctx, id, reason); err != nil {
			o.logger.Warn("persist rejection", "id", id, "error", err)
		}
	}
}

// displayTitle prefixes the title with a century label when the text has no
// explicit year, or with the extracted year otherwise.
func displayTitle(title, text string) string {
	if label := temporal.CenturyLabel(text); label != "" {
		return label + domain.TitleSeparator + title
	}
	if year, ok := temporal.ExtractYear(text); ok {
		return formatYear(year) + domain.TitleSeparator + title
	}
	return title
}

func formatYear(year int) string {
	if year < 0 {
		return fmt.Sprintf("%d av. J.-C.", -year)
	}
	return strconv.Itoa(year)
}

func trimDescription(text string) string {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) <= maxDescriptionLen {
		return text
	}
	runes := []rune(text)
	cut := string(runes[:maxDescriptionLen])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return cut + "…"
}

func chunkIDs(ids []int, size int) [][]int {
	var chunks [][]int
	for len(ids) > size {
		chunks = append(chunks, ids[:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		chunks = append(chunks, ids)
	}
	return chunks
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
