// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package directory builds the station listing served by /api/channels.
package directory

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ManuGH/radionara/internal/log"
	"github.com/ManuGH/radionara/internal/metrics"
	"github.com/ManuGH/radionara/internal/scrape"
	"github.com/ManuGH/radionara/internal/stations"
	"github.com/ManuGH/radionara/internal/upstream"
)

// SearchPlaceholder is replaced by the escaped search term in Config.SearchURL.
const SearchPlaceholder = "{query}"

// updatedAtLayout matches JavaScript's Date.prototype.toISOString.
const updatedAtLayout = "2006-01-02T15:04:05.000Z"

// Fetcher retrieves listing pages. *upstream.Client satisfies it.
type Fetcher interface {
	GetText(ctx context.Context, op, rawURL string) (string, error)
}

// Config describes where the listing comes from.
type Config struct {
	SiteURL        string
	ProvinceName   string
	ProvinceURL    string
	SearchURL      string
	SearchTerms    []string
	IncludeCurated bool
}

// Listing is the JSON payload of /api/channels.
type Listing struct {
	Province  string             `json:"province"`
	SourceURL string             `json:"sourceUrl"`
	UpdatedAt string             `json:"updatedAt"`
	Count     int                `json:"count"`
	Stations  []stations.Station `json:"stations"`
}

// Service assembles listings on demand. It keeps no listing state between
// calls; only the exclusion rules and the curated catalog are shared and they
// are replaced atomically.
type Service struct {
	cfg        Config
	fetch      Fetcher
	exclusions atomic.Pointer[exclusionSet]
	catalog    atomic.Pointer[stations.Catalog]
	now        func() time.Time
}

// New returns a Service. catalog may be nil.
func New(cfg Config, fetch Fetcher, ex Exclusions, catalog *stations.Catalog) *Service {
	if cfg.SiteURL == "" {
		cfg.SiteURL = stations.DefaultSiteURL
	}
	s := &Service{cfg: cfg, fetch: fetch, now: time.Now}
	s.SetExclusions(ex)
	s.SetCatalog(catalog)
	return s
}

// SetExclusions replaces the exclusion rules for subsequent listings.
func (s *Service) SetExclusions(ex Exclusions) {
	s.exclusions.Store(compileExclusions(ex))
}

// SetCatalog replaces the curated catalog merged into listings.
func (s *Service) SetCatalog(c *stations.Catalog) {
	s.catalog.Store(c)
}

// List fetches the province page and all supplemental searches concurrently
// and returns the merged, filtered, deduplicated listing. A province failure
// fails the listing; a search failure only drops that search's entries.
func (s *Service) List(ctx context.Context) (Listing, error) {
	logger := log.WithComponentFromContext(ctx, "directory")

	var province []stations.Station
	searches := make([][]stations.Station, len(s.cfg.SearchTerms))

	var g errgroup.Group
	g.Go(func() error {
		st, err := s.page(ctx, s.cfg.ProvinceURL)
		if err != nil {
			return fmt.Errorf("province page: %w", err)
		}
		province = st
		return nil
	})
	for i, term := range s.cfg.SearchTerms {
		g.Go(func() error {
			st, err := s.page(ctx, s.searchURL(term))
			if err != nil {
				metrics.IncDirectorySearchFailure()
				logger.Warn().Err(err).
					Str(log.FieldEvent, "directory.search_failed").
					Str("term", term).
					Msg("supplemental search failed, continuing without it")
				return nil
			}
			searches[i] = st
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Listing{}, err
	}

	merged := append([]stations.Station(nil), province...)
	for _, st := range searches {
		merged = append(merged, st...)
	}
	if s.cfg.IncludeCurated {
		merged = append(merged, s.catalog.Load().Stations()...)
	}

	kept, excluded := s.filter(merged, logger)
	served := Dedup(kept)
	metrics.RecordDirectoryStages(len(merged), excluded, len(served))

	logger.Debug().
		Str(log.FieldEvent, "directory.listed").
		Int("scraped", len(merged)).
		Int("excluded", excluded).
		Int("served", len(served)).
		Msg("station listing built")

	return Listing{
		Province:  s.cfg.ProvinceName,
		SourceURL: s.cfg.ProvinceURL,
		UpdatedAt: s.now().UTC().Format(updatedAtLayout),
		Count:     len(served),
		Stations:  served,
	}, nil
}

func (s *Service) page(ctx context.Context, rawURL string) ([]stations.Station, error) {
	body, err := s.fetch.GetText(ctx, upstream.OpDirectory, rawURL)
	if err != nil {
		return nil, err
	}
	return scrape.ParseStations(strings.NewReader(body), s.cfg.SiteURL)
}

func (s *Service) searchURL(term string) string {
	return strings.ReplaceAll(s.cfg.SearchURL, SearchPlaceholder, url.QueryEscape(term))
}

// filter applies the exclusion rules. Callers run it before Dedup.
func (s *Service) filter(in []stations.Station, logger zerolog.Logger) ([]stations.Station, int) {
	set := s.exclusions.Load()
	out := make([]stations.Station, 0, len(in))
	excluded := 0
	for _, st := range in {
		if rule, ok := set.excludes(st); ok {
			excluded++
			logger.Trace().Str(log.FieldStationID, st.ID).Str("rule", rule).Msg("station excluded")
			continue
		}
		out = append(out, st)
	}
	return out, excluded
}

// Dedup keeps the first station per id, preserving order.
func Dedup(in []stations.Station) []stations.Station {
	seen := make(map[string]struct{}, len(in))
	out := make([]stations.Station, 0, len(in))
	for _, st := range in {
		if _, dup := seen[st.ID]; dup {
			continue
		}
		seen[st.ID] = struct{}{}
		out = append(out, st)
	}
	return out
}
