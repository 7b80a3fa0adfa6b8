package scraper

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"

	"tftnerd/internal/config"
	"tftnerd/internal/gamedata"
	"tftnerd/internal/logging"
)

// Scraper fetches reference data and writes it through the store.
type Scraper struct {
	fetcher     *Fetcher
	store       *gamedata.Store
	baseURL     string
	delay       time.Duration
	concurrency int
	saveHTML    bool
	htmlDir     string
}

// New creates a scraper from configuration.
func New(cfg config.ScrapeConfig, store *gamedata.Store) *Scraper {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Scraper{
		fetcher: NewFetcher(
			config.Duration(cfg.Timeout, 30*time.Second),
			cfg.UserAgent,
			cfg.UseBrowser,
		),
		store:       store,
		baseURL:     cfg.BaseURL,
		delay:       config.Duration(cfg.Delay, 300*time.Millisecond),
		concurrency: concurrency,
		saveHTML:    cfg.SaveHTML,
		htmlDir:     cfg.HTMLDir,
	}
}

// Close releases the fetcher's browser, if any.
func (s *Scraper) Close() { s.fetcher.Close() }

// ScrapeAll refreshes champions, traits, and comps.
func (s *Scraper) ScrapeAll(ctx context.Context) error {
	if err := s.ScrapeChampions(ctx); err != nil {
		return err
	}
	return s.ScrapeComps(ctx)
}

// ScrapeChampions fetches the champions index and saves champion and trait
// data. Champions and traits share a page, so one fetch covers both.
func (s *Scraper) ScrapeChampions(ctx context.Context) error {
	url := s.baseURL + "/teamfight-tactics/champions"
	logging.Scraper("fetching %s", url)
	timer := logging.StartTimer(logging.CategoryScraper, "champions page")
	doc, err := s.fetcher.Fetch(ctx, url)
	timer.Stop()
	if err != nil {
		return err
	}

	champions, traits := parseChampionsPage(doc)
	if len(champions) == 0 {
		return fmt.Errorf("no champions found at %s, page layout may have changed", url)
	}
	logging.Scraper("parsed %d champions, %d traits", len(champions), len(traits))

	if err := s.store.SaveChampions(champions); err != nil {
		return err
	}
	return s.store.SaveTraits(traits)
}

// ScrapeComps fetches the team-comps index and every linked detail page.
// Detail pages are fetched concurrently with a polite delay between launches;
// individual page failures are logged and skipped.
func (s *Scraper) ScrapeComps(ctx context.Context) error {
	indexURL := s.baseURL + "/teamfight-tactics/team-comps"
	logging.Scraper("fetching %s", indexURL)
	doc, err := s.fetcher.Fetch(ctx, indexURL)
	if err != nil {
		return err
	}

	links := parseCompLinks(doc, s.baseURL)
	if len(links) == 0 {
		return fmt.Errorf("no comp links found at %s, page layout may have changed", indexURL)
	}
	logging.Scraper("found %d comp links", len(links))

	results := make([]gamedata.Comp, len(links))
	var mu sync.Mutex
	failed := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, link := range links {
		g.Go(func() error {
			page, err := s.fetcher.Fetch(gctx, link)
			if err != nil {
				logging.ScraperWarn("skipping %s: %v", link, err)
				mu.Lock()
				failed++
				mu.Unlock()
				return nil
			}
			if s.saveHTML {
				s.dumpHTML(page, i+1)
			}
			results[i] = parseCompPage(page)
			return nil
		})

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.delay):
		}
	}
	if err := g.Wait(); err != nil {
		return err
	}

	comps := make([]gamedata.Comp, 0, len(results))
	for _, comp := range results {
		if comp.Name != "" && len(comp.Champions) > 0 {
			comps = append(comps, comp)
		}
	}
	logging.Scraper("scraped %d comps (%d pages failed)", len(comps), failed)
	if len(comps) == 0 {
		return fmt.Errorf("no comps extracted from %d pages", len(links))
	}
	return s.store.SaveComps(comps)
}

// dumpHTML writes a fetched page to the html dir for offline selector work.
func (s *Scraper) dumpHTML(doc *html.Node, index int) {
	if err := os.MkdirAll(s.htmlDir, 0o755); err != nil {
		logging.ScraperWarn("create html dir: %v", err)
		return
	}
	path := filepath.Join(s.htmlDir, fmt.Sprintf("comp_%03d.html", index))
	f, err := os.Create(path)
	if err != nil {
		logging.ScraperWarn("save html: %v", err)
		return
	}
	defer f.Close()
	if err := html.Render(f, doc); err != nil {
		logging.ScraperWarn("render html: %v", err)
	}
}
