package worker

import (
	"container/list"
	"sync"
	"time"
)

// Throttle suppresses repeat notifications for a rule inside a cooldown
// window, so a rule that stays over its threshold is not re-published on
// every sweep tick. Bounded LRU eviction keeps memory flat no matter how
// many rules exist.
type Throttle struct {
	mu       sync.Mutex
	maxSize  int
	cooldown time.Duration
	entries  map[int64]*list.Element
	lru      *list.List
	now      func() time.Time
}

type throttleEntry struct {
	ruleID    int64
	expiresAt time.Time
}

func NewThrottle(maxSize int, cooldown time.Duration) *Throttle {
	return &Throttle{
		maxSize:  maxSize,
		cooldown: cooldown,
		entries:  make(map[int64]*list.Element),
		lru:      list.New(),
		now:      time.Now,
	}
}

// Allow reports whether the rule may be notified now. A rule inside its
// cooldown window is suppressed.
func (t *Throttle) Allow(ruleID int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	elem, ok := t.entries[ruleID]
	if !ok {
		return true
	}
	entry := elem.Value.(*throttleEntry)
	if t.now().After(entry.expiresAt) {
		t.remove(elem)
		return true
	}
	t.lru.MoveToFront(elem)
	return false
}

// Mark starts (or restarts) the cooldown window for the rule. Call it
// after a notification was actually published.
func (t *Throttle) Mark(ruleID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry := &throttleEntry{ruleID: ruleID, expiresAt: t.now().Add(t.cooldown)}

	if elem, ok := t.entries[ruleID]; ok {
		elem.Value = entry
		t.lru.MoveToFront(elem)
		return
	}

	elem := t.lru.PushFront(entry)
	t.entries[ruleID] = elem

	if t.lru.Len() > t.maxSize {
		if oldest := t.lru.Back(); oldest != nil {
			t.remove(oldest)
		}
	}
}

func (t *Throttle) remove(elem *list.Element) {
	entry := elem.Value.(*throttleEntry)
	delete(t.entries, entry.ruleID)
	t.lru.Remove(elem)
}

// Size returns the number of rules currently tracked.
func (t *Throttle) Size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
