// Package raterepo manages the durable rate snapshot and history documents.
package raterepo

import (
	"github.com/RazorRZZ/finalproject-shakurov-m25-555/internal/domain"
	"github.com/RazorRZZ/finalproject-shakurov-m25-555/pkg/jsonstore"
)

const (
	snapshotDoc = "rates"
	historyDoc  = "exchange_rates"
)

// Repo adapts the document store for rate data.
type Repo struct {
	store *jsonstore.Store
}

// New returns a rate repo over the given store.
func New(store *jsonstore.Store) *Repo {
	return &Repo{store: store}
}

// LoadSnapshot reads the persisted snapshot. ok is false when none was
// ever persisted (or the document is corrupt).
func (r *Repo) LoadSnapshot() (domain.RateSnapshot, bool, error) {
	var snap domain.RateSnapshot

	ok, err := r.store.Load(snapshotDoc, &snap)
	if err != nil {
		return domain.RateSnapshot{}, false, err
	}

	return snap, ok, nil
}

// SaveSnapshot persists the snapshot, replacing the previous one as a unit.
func (r *Repo) SaveSnapshot(snap domain.RateSnapshot) error {
	return r.store.Save(snapshotDoc, snap)
}

// AppendHistory appends the records to the exchange rate history, keeping
// only the newest domain.HistoryLimit entries.
func (r *Repo) AppendHistory(records []domain.HistoryRecord) error {
	_, err := jsonstore.Update(r.store, historyDoc,
		func(history []domain.HistoryRecord) ([]domain.HistoryRecord, error) {
			history = append(history, records...)
			if len(history) > domain.HistoryLimit {
				history = history[len(history)-domain.HistoryLimit:]
			}

			return history, nil
		})

	return err
}

// History returns the newest limit records, optionally filtered by pair
// key ("FROM_TO"). A non-positive limit returns all retained records.
func (r *Repo) History(pairKey string, limit int) ([]domain.HistoryRecord, error) {
	var history []domain.HistoryRecord

	if _, err := r.store.Load(historyDoc, &history); err != nil {
		return nil, err
	}

	filtered := history
	if pairKey != "" {
		filtered = nil

		for _, rec := range history {
			if domain.PairKey(rec.From, rec.To) == pairKey {
				filtered = append(filtered, rec)
			}
		}
	}

	if limit > 0 && len(filtered) > limit {
		filtered = filtered[len(filtered)-limit:]
	}

	return filtered, nil
}
