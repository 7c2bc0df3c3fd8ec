// Package carousel rotates the displayed image of multi-image news items.
package carousel

import (
	"context"
	"sync"
	"time"

	"github.com/0x0BSoD/am5tv/internal/model"
)

type Rotator struct {
	interval time.Duration

	mu      sync.RWMutex
	counts  map[int64]int
	indexes map[int64]int
}

func New(interval time.Duration) *Rotator {
	return &Rotator{
		interval: interval,
		counts:   make(map[int64]int),
		indexes:  make(map[int64]int),
	}
}

// Track replaces the rotated set with the image news among items and resets
// every index to the first image.
func (r *Rotator) Track(items []model.ContentItem) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.counts = make(map[int64]int)
	r.indexes = make(map[int64]int)

	for _, item := range items {
		if !item.IsImageNews() {
			continue
		}
		r.counts[item.ID] = len(item.ImageURLs)
		r.indexes[item.ID] = 0
	}
}

// Start rotates until ctx is done and returns ctx.Err().
func (r *Rotator) Start(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.Rotate()
		}
	}
}

// Rotate advances every tracked item with more than one image.
func (r *Rotator) Rotate() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, n := range r.counts {
		if n > 1 {
			r.indexes[id] = (r.indexes[id] + 1) % n
		}
	}
}

func (r *Rotator) Index(id int64) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.indexes[id]
}

// Current returns the image reference currently shown for item, or "" when
// it has none.
func (r *Rotator) Current(item model.ContentItem) string {
	if len(item.ImageURLs) == 0 {
		return ""
	}
	return item.ImageURLs[r.Index(item.ID)%len(item.ImageURLs)]
}
