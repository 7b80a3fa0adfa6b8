// Package main implements the tftNERD CLI commands.
// This file contains the reference data scraping command.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tftnerd/internal/gamedata"
	"tftnerd/internal/scraper"
)

var (
	scrapeChampionsOnly bool
	scrapeCompsOnly     bool
	scrapeSaveHTML      bool
	scrapeBrowser       bool
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Fetch champion, trait, and team-comp data from mobafire",
	Long: `Scrapes the current set's champions, traits, and popular team comps
and writes them as JSON into the data directory. Run this once per patch;
everything else reads from the generated files.`,
	RunE: runScrape,
}

func init() {
	scrapeCmd.Flags().BoolVar(&scrapeChampionsOnly, "champions-only", false, "Only refresh champions and traits")
	scrapeCmd.Flags().BoolVar(&scrapeCompsOnly, "comps-only", false, "Only refresh team comps")
	scrapeCmd.Flags().BoolVar(&scrapeSaveHTML, "save-html", false, "Save fetched comp pages for selector debugging")
	scrapeCmd.Flags().BoolVar(&scrapeBrowser, "browser", false, "Render pages in a headless browser")
}

func runScrape(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	scfg := cfg.Scrape
	if scrapeSaveHTML {
		scfg.SaveHTML = true
	}
	if scrapeBrowser {
		scfg.UseBrowser = true
	}

	store := gamedata.NewStore(cfg.Data.Dir,
		gamedata.WithFiles(cfg.Data.ChampionsFile, cfg.Data.TraitsFile, cfg.Data.CompsFile))
	s := scraper.New(scfg, store)
	defer s.Close()

	logger.Info("Scraping reference data", zap.String("base_url", scfg.BaseURL))

	switch {
	case scrapeChampionsOnly:
		if err := s.ScrapeChampions(ctx); err != nil {
			return err
		}
	case scrapeCompsOnly:
		if err := s.ScrapeComps(ctx); err != nil {
			return err
		}
	default:
		if err := s.ScrapeAll(ctx); err != nil {
			return err
		}
	}

	// Partial scrapes may leave the other files missing; the summary is
	// best effort.
	if err := store.Load(); err != nil {
		logger.Info("Scrape complete", zap.String("data_dir", store.Dir()))
		return nil
	}
	logger.Info("Scrape complete",
		zap.Int("champions", len(store.Champions())),
		zap.Int("traits", len(store.Traits())),
		zap.Int("comps", len(store.Comps())),
		zap.String("data_dir", store.Dir()))
	return nil
}
