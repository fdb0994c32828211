// Package registry keeps the ledger of user-visible scheduled updates.
// It sits between the delayed-callback queues below it and the page
// rendering above it: every record here corresponds to at most one live
// queue entry per refreshed data source, all keyed by the update title.
package registry

import (
	"log"
	"time"

	"github.com/pulseboard/pulseboard/internal/clock"
	"github.com/pulseboard/pulseboard/internal/schedule"
)

// Update is one scheduled refresh as shown on the dashboard. Title is
// the identity key: the registry never holds two records with the same
// title.
type Update struct {
	Title      string
	TargetTime string // "HH:MM" wall-clock target
	Repeat     bool
	Stats      bool
	News       bool
	Content    string // display summary
	FiresAt    time.Time

	statsHandle schedule.Handle
	newsHandle  schedule.Handle
}

// Registry stores updates in insertion order and arms the per-source
// queues when they are added. Not safe for concurrent use; the owner
// serializes access.
type Registry struct {
	now          func() time.Time
	stats        *schedule.Queue
	news         *schedule.Queue
	refreshStats schedule.Callback
	refreshNews  schedule.Callback

	order   []string
	byTitle map[string]*Update
}

// New creates a registry wired to the two source queues. refreshStats
// and refreshNews are the callbacks armed for updates that refresh the
// respective source.
func New(now func() time.Time, stats, news *schedule.Queue, refreshStats, refreshNews schedule.Callback) *Registry {
	if now == nil {
		now = time.Now
	}
	return &Registry{
		now:          now,
		stats:        stats,
		news:         news,
		refreshStats: refreshStats,
		refreshNews:  refreshNews,
		byTitle:      make(map[string]*Update),
	}
}

// Add stores u and arms one queue entry per refreshed source, both
// tagged with the update title. A title already present makes the whole
// call a no-op and returns false.
func (r *Registry) Add(u Update, firesAt time.Time) bool {
	if _, ok := r.byTitle[u.Title]; ok {
		return false
	}
	u.FiresAt = firesAt
	delay := firesAt.Sub(r.now())
	if delay < 0 {
		delay = 0
	}
	if u.Stats {
		u.statsHandle = r.stats.Schedule(delay, u.Title, r.refreshStats)
	}
	if u.News {
		u.newsHandle = r.news.Schedule(delay, u.Title, r.refreshNews)
	}
	r.byTitle[u.Title] = &u
	r.order = append(r.order, u.Title)
	return true
}

// Remove retires the update with the given title. When expired is false
// this is a user cancellation and the matching queue entries are
// cancelled too; a handle that already fired is tolerated silently.
// When expired is true the queue entries were consumed by firing and
// only the ledger changes. Returns false if the title is unknown.
func (r *Registry) Remove(title string, expired bool) bool {
	u, ok := r.byTitle[title]
	if !ok {
		return false
	}
	delete(r.byTitle, title)
	for i, t := range r.order {
		if t == title {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	if !expired {
		if u.Stats && !r.stats.Cancel(u.statsHandle) {
			log.Printf("pulseboard: stats entry for %q already consumed", title)
		}
		if u.News && !r.news.Cancel(u.newsHandle) {
			log.Printf("pulseboard: news entry for %q already consumed", title)
		}
	}
	return true
}

// ReArm re-enqueues the queue callbacks for a repeat update with a
// freshly computed next-day delay, bypassing Add's duplicate-title
// rejection. The queues' per-tag de-duplication makes a redundant call
// harmless.
func (r *Registry) ReArm(title string) {
	u, ok := r.byTitle[title]
	if !ok || !u.Repeat {
		return
	}
	delay, err := clock.Delay(u.TargetTime, r.now())
	if err != nil {
		log.Printf("pulseboard: re-arm %q: %v", title, err)
		return
	}
	if u.Stats {
		u.statsHandle = r.stats.Schedule(delay, u.Title, r.refreshStats)
	}
	if u.News {
		u.newsHandle = r.news.Schedule(delay, u.Title, r.refreshNews)
	}
}

// Get returns the update with the given title.
func (r *Registry) Get(title string) (Update, bool) {
	u, ok := r.byTitle[title]
	if !ok {
		return Update{}, false
	}
	return *u, true
}

// List returns all updates in insertion order.
func (r *Registry) List() []Update {
	out := make([]Update, 0, len(r.order))
	for _, title := range r.order {
		out = append(out, *r.byTitle[title])
	}
	return out
}

// Len returns the number of pending updates.
func (r *Registry) Len() int { return len(r.order) }
