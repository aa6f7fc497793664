// Package notify keeps the stack of short-lived action notifications shown
// over the editor.
package notify

import (
	"time"

	"github.com/samber/lo"
)

const (
	DefaultLifetime = 2 * time.Second
	// FadeOut is how long before expiry an item starts closing.
	FadeOut = 200 * time.Millisecond
)

type Item struct {
	ID      int
	Message string
	Index   int
	Shown   time.Time
	Expires time.Time
}

// Closing reports whether the item is in its fade-out window.
func (i Item) Closing(now time.Time) bool {
	return !now.Before(i.Expires.Add(-FadeOut))
}

// Queue is ordered oldest first. Index is each item's stack position and
// is repacked whenever an item leaves.
type Queue struct {
	Lifetime time.Duration

	items []Item
	next  int
}

func NewQueue(lifetime time.Duration) *Queue {
	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}
	return &Queue{Lifetime: lifetime}
}

func (q *Queue) Show(message string, now time.Time) int {
	id := q.next
	q.next++
	q.items = append(q.items, Item{
		ID:      id,
		Message: message,
		Index:   len(q.items),
		Shown:   now,
		Expires: now.Add(q.Lifetime),
	})
	return id
}

func (q *Queue) Hide(id int) {
	q.items = lo.Reject(q.items, func(i Item, _ int) bool { return i.ID == id })
	q.repack()
}

// Expire drops every item whose lifetime has passed and reports whether
// anything was removed.
func (q *Queue) Expire(now time.Time) bool {
	before := len(q.items)
	q.items = lo.Reject(q.items, func(i Item, _ int) bool { return !now.Before(i.Expires) })
	q.repack()
	return len(q.items) != before
}

func (q *Queue) repack() {
	for i := range q.items {
		q.items[i].Index = i
	}
}

func (q *Queue) Items() []Item { return append([]Item(nil), q.items...) }

func (q *Queue) Len() int { return len(q.items) }

// NextExpiry is the earliest expiry among the shown items.
func (q *Queue) NextExpiry() (time.Time, bool) {
	if len(q.items) == 0 {
		return time.Time{}, false
	}
	return lo.MinBy(q.items, func(a, b Item) bool { return a.Expires.Before(b.Expires) }).Expires, true
}
