package services

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"gorm.io/gorm"

	"github.com/liamoar/CloudKitchen-sub001/models"
)

// DefaultPollInterval is how often the watcher reloads the order-id set
const DefaultPollInterval = 30 * time.Second

// OrderWatcher periodically reloads the set of open order ids and flags the
// ones that appeared since the previous snapshot, so the dashboard can mark
// newly observed orders. The set is process-local and not persisted.
type OrderWatcher struct {
	db           *gorm.DB
	restaurantID uint
	interval     time.Duration

	mu       sync.RWMutex
	seen     map[uint]struct{}
	newIDs   map[uint]struct{}
	primed   bool
	inFlight atomic.Bool
}

var orderWatcherInstance *OrderWatcher

// GetOrderWatcher returns the process-wide watcher instance
func GetOrderWatcher() *OrderWatcher {
	return orderWatcherInstance
}

// SetOrderWatcher sets the watcher instance (wired at startup, swapped in tests)
func SetOrderWatcher(w *OrderWatcher) {
	orderWatcherInstance = w
}

// NewOrderWatcher creates a watcher for one restaurant's orders
func NewOrderWatcher(db *gorm.DB, restaurantID uint, interval time.Duration) *OrderWatcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &OrderWatcher{
		db:           db,
		restaurantID: restaurantID,
		interval:     interval,
		seen:         make(map[uint]struct{}),
		newIDs:       make(map[uint]struct{}),
	}
}

// Start runs the polling loop until ctx is cancelled. Ticks that arrive while
// a refresh is still in flight are skipped, so reloads never overlap.
func (w *OrderWatcher) Start(ctx context.Context) {
	// prime the snapshot so existing orders are not all flagged as new
	if err := w.Refresh(); err != nil {
		log.Printf("order watcher: initial refresh failed: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.Refresh(); err != nil {
				log.Printf("order watcher: refresh failed: %v", err)
			}
		}
	}
}

// Refresh reloads the open order-id set and diffs it against the previous
// snapshot. Concurrent calls are collapsed: the second returns immediately.
func (w *OrderWatcher) Refresh() error {
	if !w.inFlight.CompareAndSwap(false, true) {
		return nil
	}
	defer w.inFlight.Store(false)

	var ids []uint
	err := w.db.Model(&models.Order{}).
		Where("restaurant_id = ? AND status NOT IN ?", w.restaurantID,
			[]models.OrderStatus{models.StatusDelivered, models.StatusCancelled}).
		Pluck("id", &ids).Error
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	current := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		current[id] = struct{}{}
		if w.primed {
			if _, ok := w.seen[id]; !ok {
				w.newIDs[id] = struct{}{}
			}
		}
	}

	// drop flags for orders that left the open set
	for id := range w.newIDs {
		if _, ok := current[id]; !ok {
			delete(w.newIDs, id)
		}
	}

	w.seen = current
	w.primed = true
	return nil
}

// IsNew reports whether the order appeared after the watcher's first snapshot
// and has not been marked seen yet.
func (w *OrderWatcher) IsNew(orderID uint) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.newIDs[orderID]
	return ok
}

// MarkSeen clears the new-order flag for the given ids
func (w *OrderWatcher) MarkSeen(orderIDs ...uint) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, id := range orderIDs {
		delete(w.newIDs, id)
	}
}
