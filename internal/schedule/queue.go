// Package schedule implements a polled delayed-callback queue with
// per-tag de-duplication. Nothing fires on its own: callers drive the
// queue by calling RunDue, which fires everything currently due and
// returns without waiting for future entries.
package schedule

import (
	"context"
	"time"
)

// Callback runs when its queue entry comes due.
type Callback func(ctx context.Context)

// Handle identifies a pending entry for cancellation. The zero Handle
// is never issued.
type Handle uint64

// Queue is a delayed-callback queue. It is not safe for concurrent use;
// the owner serializes access (the dashboard holds one lock around all
// core state).
type Queue struct {
	now     func() time.Time
	lastID  uint64
	entries []*entry
	byTag   map[string]*entry
}

type entry struct {
	id  Handle
	tag string
	due time.Time
	run Callback
}

// NewQueue creates a queue that reads the current time from now.
func NewQueue(now func() time.Time) *Queue {
	if now == nil {
		now = time.Now
	}
	return &Queue{now: now, byTag: make(map[string]*entry)}
}

// Schedule enqueues cb to run no earlier than delay from now. If a live
// entry with the same tag exists the request is a no-op and the existing
// handle is returned.
func (q *Queue) Schedule(delay time.Duration, tag string, cb Callback) Handle {
	if e, ok := q.byTag[tag]; ok {
		return e.id
	}
	q.lastID++
	e := &entry{
		id:  Handle(q.lastID),
		tag: tag,
		due: q.now().Add(delay),
		run: cb,
	}
	q.entries = append(q.entries, e)
	q.byTag[tag] = e
	return e.id
}

// Cancel removes a pending entry. It returns false when the handle is
// unknown or the entry already fired; callers treat that as routine.
func (q *Queue) Cancel(h Handle) bool {
	for i, e := range q.entries {
		if e.id == h {
			q.remove(i)
			return true
		}
	}
	return false
}

// RunDue fires every entry whose due time has been reached and returns
// the number fired. Entries are removed from the queue before their
// callbacks run, so a callback may re-schedule the same tag.
func (q *Queue) RunDue(ctx context.Context) int {
	now := q.now()
	fired := 0
	// Collect first: callbacks may mutate the queue.
	var due []*entry
	for i := 0; i < len(q.entries); {
		if e := q.entries[i]; !e.due.After(now) {
			due = append(due, e)
			q.remove(i)
			continue
		}
		i++
	}
	for _, e := range due {
		e.run(ctx)
		fired++
	}
	return fired
}

// Pending reports whether a live entry exists for tag.
func (q *Queue) Pending(tag string) bool {
	_, ok := q.byTag[tag]
	return ok
}

// Len returns the number of live entries.
func (q *Queue) Len() int { return len(q.entries) }

func (q *Queue) remove(i int) {
	e := q.entries[i]
	q.entries = append(q.entries[:i], q.entries[i+1:]...)
	delete(q.byTag, e.tag)
}
