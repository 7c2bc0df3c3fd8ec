package home

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/0x0BSoD/am5tv/internal/carousel"
	"github.com/0x0BSoD/am5tv/internal/metrics"
)

type entry struct {
	view   *View
	cancel context.CancelFunc
}

// Registry owns the view of every active chat. A view's carousel runs from
// its creation until the view is closed or swept as idle.
type Registry struct {
	fetcher          ContentFetcher
	imageNewsSize    int
	carouselInterval time.Duration
	idleTTL          time.Duration

	mu      sync.Mutex
	views   map[int64]entry
	onClose func(chatID int64)
}

func NewRegistry(
	fetcher ContentFetcher,
	imageNewsSize int,
	carouselInterval time.Duration,
	idleTTL time.Duration,
) *Registry {
	return &Registry{
		fetcher:          fetcher,
		imageNewsSize:    imageNewsSize,
		carouselInterval: carouselInterval,
		idleTTL:          idleTTL,
		views:            make(map[int64]entry),
	}
}

// View returns the view of chatID, creating it with ads as its ad source on
// first use.
func (r *Registry) View(chatID int64, ads AdSource) *View {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.views[chatID]; ok {
		e.view.touch()
		return e.view
	}

	ctx, cancel := context.WithCancel(context.Background())
	v := NewView(r.fetcher, ads, r.imageNewsSize, carousel.New(r.carouselInterval))

	go func(ctx context.Context) {
		if err := v.rotator.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("[ERROR] carousel for chat %d stopped: %v", chatID, err)
		}
	}(ctx)

	r.views[chatID] = entry{view: v, cancel: cancel}
	metrics.ActiveViews.Inc()

	return v
}

// OnClose sets fn to run with the chat id of every closed view, swept ones
// included. fn runs under the registry lock and must not call back into it.
func (r *Registry) OnClose(fn func(chatID int64)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.onClose = fn
}

func (r *Registry) Close(chatID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closeLocked(chatID)
}

func (r *Registry) closeLocked(chatID int64) {
	e, ok := r.views[chatID]
	if !ok {
		return
	}
	e.cancel()
	delete(r.views, chatID)
	metrics.ActiveViews.Dec()

	if r.onClose != nil {
		r.onClose(chatID)
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.views)
}

// Sweep closes the views unused since before now minus the idle TTL and
// returns how many were closed.
func (r *Registry) Sweep(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	closed := 0
	for chatID, e := range r.views {
		if now.Sub(e.view.idleSince()) > r.idleTTL {
			r.closeLocked(chatID)
			closed++
		}
	}

	return closed
}

// Start sweeps idle views until ctx is done, then closes every view.
func (r *Registry) Start(ctx context.Context) error {
	ticker := time.NewTicker(r.idleTTL)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.mu.Lock()
			for chatID := range r.views {
				r.closeLocked(chatID)
			}
			r.mu.Unlock()
			return ctx.Err()
		case now := <-ticker.C:
			if n := r.Sweep(now); n > 0 {
				log.Printf("[INFO] closed %d idle views", n)
			}
		}
	}
}
