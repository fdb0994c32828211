package pulseboard

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/pulseboard/pulseboard/internal/clock"
	"github.com/pulseboard/pulseboard/internal/config"
	"github.com/pulseboard/pulseboard/internal/news"
	"github.com/pulseboard/pulseboard/internal/registry"
	"github.com/pulseboard/pulseboard/internal/schedule"
)

// Dashboard is the public API for the epidemic dashboard. It owns the
// cached figures and headlines, the scheduled-update ledger, and the
// delayed-refresh queues behind it. All methods are safe for
// concurrent use.
type Dashboard struct {
	cfg   *config.Config
	stats StatsSource
	news  NewsSource
	now   func() time.Time

	mu        sync.Mutex
	statsQ    *schedule.Queue
	newsQ     *schedule.Queue
	reg       *registry.Registry
	national  RegionStats
	local     RegionStats
	articles  []Article
	dismissed map[string]struct{}
}

// New creates a dashboard over the given sources. Nothing is fetched
// until Load or a scheduled refresh runs.
func New(cfg *config.Config, statsSrc StatsSource, newsSrc NewsSource) *Dashboard {
	d := &Dashboard{
		cfg:       cfg,
		stats:     statsSrc,
		news:      newsSrc,
		now:       time.Now,
		dismissed: make(map[string]struct{}),
	}
	d.statsQ = schedule.NewQueue(func() time.Time { return d.now() })
	d.newsQ = schedule.NewQueue(func() time.Time { return d.now() })
	d.reg = registry.New(func() time.Time { return d.now() },
		d.statsQ, d.newsQ, d.refreshStats, d.refreshNews)
	return d
}

// NewDashboard creates a dashboard wired to the production stats and
// news providers.
func NewDashboard(cfg *config.Config) *Dashboard {
	return New(cfg, newStatsProvider(cfg), newNewsProvider(cfg))
}

// Load performs the initial fetch of both sources. Unlike scheduled
// refreshes, a failure here is returned so the caller can abort
// startup rather than serve an empty page.
func (d *Dashboard) Load(ctx context.Context) error {
	national, local, err := d.stats.Latest(ctx)
	if err != nil {
		return fmt.Errorf("load stats: %w", err)
	}
	articles, err := d.news.Articles(ctx)
	if err != nil {
		return fmt.Errorf("load news: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.national = national
	d.local = local
	d.articles = articles
	return nil
}

// refreshStats replaces the cached figures. Scheduled refresh failures
// are logged and the previous figures stay up.
func (d *Dashboard) refreshStats(ctx context.Context) {
	national, local, err := d.stats.Latest(ctx)
	if err != nil {
		log.Printf("pulseboard: stats refresh failed: %v", err)
		return
	}
	d.national = national
	d.local = local
}

// refreshNews replaces the cached result set. Dismissals are not
// cleared: a dismissed title stays hidden even when the provider
// returns it again.
func (d *Dashboard) refreshNews(ctx context.Context) {
	articles, err := d.news.Articles(ctx)
	if err != nil {
		log.Printf("pulseboard: news refresh failed: %v", err)
		return
	}
	d.articles = articles
}

// ScheduleUpdate adds a refresh to the ledger and arms its queue
// entries. An empty At falls back to the configured base update
// interval from now. A request reusing a pending title is silently
// ignored; the existing record stays as it is.
func (d *Dashboard) ScheduleUpdate(req ScheduleRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return errors.New("update title is required")
	}
	if !req.Stats && !req.News {
		return errors.New("update must refresh at least one source")
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.now()

	var firesAt time.Time
	target := req.At
	if target == "" {
		interval, err := clock.Interval(d.cfg.Dashboard.BaseUpdateInterval)
		if err != nil {
			return fmt.Errorf("base update interval: %w", err)
		}
		firesAt = now.Add(interval)
		target = firesAt.Format("15:04")
	} else {
		delay, err := clock.Delay(target, now)
		if err != nil {
			return err
		}
		firesAt = now.Add(delay)
	}

	if !d.reg.Add(registry.Update{
		Title:      req.Title,
		TargetTime: target,
		Repeat:     req.Repeat,
		Stats:      req.Stats,
		News:       req.News,
		Content:    updateContent(target, req.Stats, req.News),
	}, firesAt) {
		log.Printf("pulseboard: duplicate update %q ignored", req.Title)
	}
	return nil
}

// CancelUpdate removes a pending update and its queue entries. Returns
// false when no update carries that title.
func (d *Dashboard) CancelUpdate(title string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.reg.Remove(title, false)
}

// DismissArticle hides the article with the given title for the rest
// of the process lifetime. Dismissing an unknown or already dismissed
// title is a no-op.
func (d *Dashboard) DismissArticle(title string) {
	if title == "" {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dismissed[title] = struct{}{}
}

// Tick advances the dashboard: due queue entries fire their refreshes,
// expired ledger records are retired, and in the last minute of the
// day repeating updates are re-armed for tomorrow. The web layer calls
// this on every page render.
func (d *Dashboard) Tick(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.statsQ.RunDue(ctx)
	d.newsQ.RunDue(ctx)

	now := d.now()
	for _, u := range d.reg.List() {
		if now.Before(u.FiresAt) {
			continue
		}
		d.reg.Remove(u.Title, true)
		if u.Repeat {
			next := u.FiresAt.Add(24 * time.Hour)
			for !next.After(now) {
				next = next.Add(24 * time.Hour)
			}
			d.reg.Add(registry.Update{
				Title:      u.Title,
				TargetTime: u.TargetTime,
				Repeat:     true,
				Stats:      u.Stats,
				News:       u.News,
				Content:    u.Content,
			}, next)
		}
	}

	if now.Hour() == 23 && now.Minute() == 59 {
		for _, u := range d.reg.List() {
			d.reg.ReArm(u.Title)
		}
	}
}

// Snapshot captures everything one page render needs. The visible news
// window is recomputed on every call so dismissals backfill from the
// full result set.
func (d *Dashboard) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	visible := news.Visible(articlesToInternal(d.articles), d.dismissed,
		d.cfg.News.MaxArticles, d.cfg.News.NoArticlesMessage)

	updates := make([]ScheduledUpdate, 0, d.reg.Len())
	for _, u := range d.reg.List() {
		updates = append(updates, ScheduledUpdate{
			Title:      u.Title,
			TargetTime: u.TargetTime,
			Repeat:     u.Repeat,
			Stats:      u.Stats,
			News:       u.News,
			Content:    u.Content,
			FiresAt:    u.FiresAt,
		})
	}

	return Snapshot{
		Title:    d.cfg.Dashboard.Title,
		Image:    d.cfg.Dashboard.Image,
		Location: d.cfg.Dashboard.Location,
		National: d.national,
		Local:    d.local,
		Articles: articlesFromInternal(visible),
		Updates:  updates,
	}
}

// updateContent builds the display line describing what an update will
// refresh and when.
func updateContent(target string, stats, news bool) string {
	var parts []string
	if stats {
		parts = append(parts, "epidemic statistics")
	}
	if news {
		parts = append(parts, "news headlines")
	}
	return fmt.Sprintf("%s - %s", target, strings.Join(parts, " and "))
}

// --- internal type conversion helpers ---

func articlesToInternal(articles []Article) []news.Article {
	out := make([]news.Article, len(articles))
	for i, a := range articles {
		out[i] = news.Article{Title: a.Title, Body: a.Body}
	}
	return out
}

func articlesFromInternal(articles []news.Article) []Article {
	out := make([]Article, len(articles))
	for i, a := range articles {
		out[i] = Article{Title: a.Title, Body: a.Body}
	}
	return out
}
