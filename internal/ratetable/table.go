// Package ratetable manages the in-memory exchange rate snapshot.
package ratetable

import (
	"sync"
	"time"

	"github.com/RazorRZZ/finalproject-shakurov-m25-555/internal/domain"
)

// DefaultTTL is the rate freshness window used when none is configured.
const DefaultTTL = 300 * time.Second

// Table holds the current rate snapshot behind a read-write lock. Reads
// observe either the pre- or post-refresh snapshot in full; Replace swaps
// the whole snapshot, it never merges pairs in place.
type Table struct {
	mu   sync.RWMutex
	snap domain.RateSnapshot

	ttl time.Duration
	now func() time.Time
}

// New returns an empty table with the given freshness TTL.
func New(ttl time.Duration) *Table {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Table{
		snap: domain.RateSnapshot{Pairs: map[string]domain.PairRate{}},
		ttl:  ttl,
		now:  time.Now,
	}
}

// GetRate resolves the rate from one currency to another: the identity
// pair is rejected as a usage error, then a direct entry wins, then the
// inverse of the opposite entry, otherwise the pair is unknown.
func (t *Table) GetRate(from, to string) (float64, error) {
	if from == to {
		return 0, domain.ErrSameCurrency
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	if direct, ok := t.snap.Pairs[domain.PairKey(from, to)]; ok && direct.Rate > 0 {
		return direct.Rate, nil
	}

	if inverse, ok := t.snap.Pairs[domain.PairKey(to, from)]; ok && inverse.Rate > 0 {
		return 1 / inverse.Rate, nil
	}

	return 0, &domain.RateNotFoundError{From: from, To: to}
}

// IsFresh reports whether the snapshot age is within the TTL. A snapshot
// that never refreshed is not fresh.
func (t *Table) IsFresh() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.snap.LastRefresh.IsZero() {
		return false
	}

	return t.now().Sub(t.snap.LastRefresh) < t.ttl
}

// Age returns the snapshot age. ok is false when no refresh happened yet.
func (t *Table) Age() (age time.Duration, ok bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.snap.LastRefresh.IsZero() {
		return 0, false
	}

	return t.now().Sub(t.snap.LastRefresh), true
}

// Replace atomically publishes a new snapshot. Pairs with a non-positive
// rate are dropped so that a poisoned inverse can never be derived.
func (t *Table) Replace(s domain.RateSnapshot) {
	clean := s.Clone()
	for key, pair := range clean.Pairs {
		if pair.Rate <= 0 {
			delete(clean.Pairs, key)
		}
	}

	t.mu.Lock()
	t.snap = clean
	t.mu.Unlock()
}

// Snapshot returns a copy of the current snapshot.
func (t *Table) Snapshot() domain.RateSnapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.snap.Clone()
}
