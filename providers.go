package pulseboard

import (
	"context"
	"fmt"

	"github.com/pulseboard/pulseboard/internal/config"
	"github.com/pulseboard/pulseboard/internal/news"
	"github.com/pulseboard/pulseboard/internal/stats"
)

// statsProvider adapts the statistics API client to the StatsSource
// interface, fetching the national and local series back to back.
type statsProvider struct {
	client *stats.Client
	cfg    *config.Config
}

func newStatsProvider(cfg *config.Config) *statsProvider {
	return &statsProvider{client: stats.NewClient(), cfg: cfg}
}

func (p *statsProvider) Latest(ctx context.Context) (RegionStats, RegionStats, error) {
	nationRecords, err := p.client.Latest(ctx, p.cfg.Stats.Nation, "nation")
	if err != nil {
		return RegionStats{}, RegionStats{}, fmt.Errorf("national figures: %w", err)
	}
	localRecords, err := p.client.Latest(ctx, p.cfg.Stats.AreaName, p.cfg.Stats.AreaType)
	if err != nil {
		return RegionStats{}, RegionStats{}, fmt.Errorf("local figures: %w", err)
	}
	return regionFromSummary(stats.Summarize(nationRecords)),
		regionFromSummary(stats.Summarize(localRecords)), nil
}

// newsProvider adapts the news search client to the NewsSource
// interface.
type newsProvider struct {
	client *news.Client
	cfg    *config.Config
}

func newNewsProvider(cfg *config.Config) *newsProvider {
	return &newsProvider{
		client: news.NewClient(cfg.News.APIKey, cfg.News.DisplayedContent),
		cfg:    cfg,
	}
}

func (p *newsProvider) Articles(ctx context.Context) ([]Article, error) {
	found, err := p.client.Search(ctx, p.cfg.News.Queries, p.cfg.News.Language, p.cfg.News.SortBy)
	if err != nil {
		return nil, err
	}
	return articlesFromInternal(found), nil
}

func regionFromSummary(s stats.Summary) RegionStats {
	return RegionStats{
		AreaName:      s.AreaName,
		SevenDayCases: s.SevenDayCases,
		HospitalCases: s.HospitalCases,
		TotalDeaths:   s.TotalDeaths,
	}
}
