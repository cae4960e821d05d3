// Package raterefresh orchestrates pulling rates from the configured
// price sources and publishing a new rate snapshot.
package raterefresh

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/RazorRZZ/finalproject-shakurov-m25-555/internal/domain"
	"github.com/RazorRZZ/finalproject-shakurov-m25-555/internal/ratesource"
)

// ErrNoSourcesAvailable indicates that every selected source failed; the
// previous snapshot remains authoritative.
var ErrNoSourcesAvailable = errors.New("no rate sources available")

// Repo provides the persistence interface needed by the orchestrator.
type Repo interface {
	SaveSnapshot(snap domain.RateSnapshot) error
	AppendHistory(records []domain.HistoryRecord) error
}

// Table receives the published snapshot.
type Table interface {
	Replace(snap domain.RateSnapshot)
}

// Service fetches, merges and publishes exchange rates.
type Service struct {
	sources []ratesource.Source
	repo    Repo
	table   Table
	now     func() time.Time
}

// New returns an orchestrator over the given sources. Merge order follows
// the order of sources: a later source overwrites an earlier one for the
// same pair key within one refresh cycle.
func New(repo Repo, table Table, sources ...ratesource.Source) *Service {
	return &Service{
		sources: sources,
		repo:    repo,
		table:   table,
		now:     time.Now,
	}
}

// Refresh fetches the selected sources (all when filter is empty), merges
// the results and, when at least one source succeeded, appends every
// fetched pair to the history and atomically replaces the persisted and
// in-memory snapshot. A single source failing is logged and skipped; it
// never aborts the other fetches.
func (s *Service) Refresh(ctx context.Context, filter ...string) (domain.RateSnapshot, error) {
	l := zerolog.Ctx(ctx)

	selected := s.selectSources(ctx, filter)

	// Fetches run in parallel outside any lock; results are merged in
	// configured order afterwards so last-write-wins stays deterministic.
	results := make([]map[string]float64, len(selected))

	g, fetchCtx := errgroup.WithContext(ctx)

	for i, src := range selected {
		i, src := i, src

		g.Go(func() error {
			rates, err := src.FetchRates(fetchCtx)
			if err != nil {
				l.Warn().Err(err).Str("source", src.Name()).Msg("source fetch failed")
				return nil
			}

			results[i] = rates

			return nil
		})
	}

	// Goroutines above never return an error; per-source failures are soft.
	_ = g.Wait()

	now := s.now().UTC()

	merged := make(map[string]domain.PairRate)

	var (
		succeeded []string
		records   []domain.HistoryRecord
	)

	for i, src := range selected {
		rates := results[i]
		if rates == nil {
			continue
		}

		succeeded = append(succeeded, src.Name())

		for key, rate := range rates {
			from, to, err := domain.SplitPairKey(key)
			if err != nil {
				l.Warn().Str("source", src.Name()).Str("pair", key).Msg("dropping malformed pair key")
				continue
			}

			if rate <= 0 {
				l.Warn().Str("source", src.Name()).Str("pair", key).Float64("rate", rate).
					Msg("dropping non-positive rate")
				continue
			}

			merged[key] = domain.PairRate{Rate: rate, UpdatedAt: now, Source: src.Name()}

			records = append(records, domain.HistoryRecord{
				ID:         uuid.NewString(),
				From:       from,
				To:         to,
				Rate:       rate,
				Source:     src.Name(),
				RecordedAt: now,
			})
		}
	}

	if len(succeeded) == 0 {
		l.Warn().Msg("refresh skipped: every source failed")
		return domain.RateSnapshot{}, ErrNoSourcesAvailable
	}

	if err := s.repo.AppendHistory(records); err != nil {
		return domain.RateSnapshot{}, err
	}

	snap := domain.RateSnapshot{
		Pairs:       merged,
		LastRefresh: now,
		Sources:     succeeded,
	}

	if err := s.repo.SaveSnapshot(snap); err != nil {
		return domain.RateSnapshot{}, err
	}

	s.table.Replace(snap)

	l.Info().Int("pairs", len(merged)).Strs("sources", succeeded).Msg("rates refreshed")

	return snap, nil
}

func (s *Service) selectSources(ctx context.Context, filter []string) []ratesource.Source {
	if len(filter) == 0 {
		return s.sources
	}

	byName := make(map[string]ratesource.Source, len(s.sources))
	for _, src := range s.sources {
		byName[src.Name()] = src
	}

	var selected []ratesource.Source

	for _, name := range filter {
		src, ok := byName[name]
		if !ok {
			zerolog.Ctx(ctx).Warn().Str("source", name).Msg("unknown source in filter")
			continue
		}

		selected = append(selected, src)
	}

	return selected
}
