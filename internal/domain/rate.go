package domain

import (
	"fmt"
	"strings"
	"time"
)

// PairRate is one observed exchange rate inside a snapshot.
type PairRate struct {
	Rate      float64   `json:"rate"`
	UpdatedAt time.Time `json:"updated_at"`
	Source    string    `json:"source"`
}

// RateSnapshot is the complete rate table at one point in time. A snapshot
// is replaced as a unit on every refresh, never merged in place.
type RateSnapshot struct {
	Pairs       map[string]PairRate `json:"pairs"`
	LastRefresh time.Time           `json:"last_refresh"`
	Sources     []string            `json:"sources"`
}

// Clone returns a deep copy so that published snapshots never share the
// pairs map with their producer.
func (s RateSnapshot) Clone() RateSnapshot {
	c := RateSnapshot{
		LastRefresh: s.LastRefresh,
		Pairs:       make(map[string]PairRate, len(s.Pairs)),
	}
	for k, v := range s.Pairs {
		c.Pairs[k] = v
	}

	c.Sources = append(c.Sources, s.Sources...)

	return c
}

// HistoryRecord is one append-only exchange rate observation.
type HistoryRecord struct {
	ID         string    `json:"id"`
	From       string    `json:"from_currency"`
	To         string    `json:"to_currency"`
	Rate       float64   `json:"rate"`
	Source     string    `json:"source"`
	RecordedAt time.Time `json:"recorded_at"`
}

// HistoryLimit bounds the exchange rate history; the oldest records are
// evicted first.
const HistoryLimit = 1000

// PairKey builds the canonical "FROM_TO" key of an ordered currency pair.
func PairKey(from, to string) string {
	return from + "_" + to
}

// SplitPairKey is the inverse of PairKey.
func SplitPairKey(key string) (from, to string, err error) {
	parts := strings.Split(key, "_")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid pair key %q", key)
	}

	return parts[0], parts[1], nil
}
