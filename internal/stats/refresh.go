// Spot-a-Lyst - Spotify Listening Analytics and AI Recommendations
// Copyright 2026 nixvy-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nixvy-13/Spot-a-Lyst

package stats

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nixvy-13/Spot-a-Lyst/internal/logging"
	"github.com/nixvy-13/Spot-a-Lyst/internal/metrics"
	"github.com/nixvy-13/Spot-a-Lyst/internal/models"
)

// Refresh fan-out variants: every (resource, parameter) combination
// cached anywhere in the system.
var (
	refreshTimeRanges = []models.TimeRange{models.TimeRangeShort, models.TimeRangeMedium, models.TimeRangeLong}
	refreshLimits     = []int{10, 20, 50}
	refreshDayWindows = []int{7, 14, 30, 90}
)

// RefreshResult summarizes one full refresh run.
type RefreshResult struct {
	Variants    int `json:"variants"`
	Failed      int `json:"failed"`
	KeysDeleted int `json:"keysDeleted"`
}

// RefreshAll forces a recomputation of every cached statistic variant
// for one user, then deletes the user's cache keys except the
// listening-time ledger.
//
// Individual variant failures are logged and counted, never escalated: a
// refresh is an attempt to repopulate everything, and one throttled
// variant must not abort the rest. Only the final sweep can fail the
// run, because a failed sweep leaves stale entries behind.
func (g *Gateway) RefreshAll(ctx context.Context, id Identity) (*RefreshResult, error) {
	start := g.now()
	metrics.RefreshRunsTotal.Inc()

	type variant struct {
		resource string
		run      func(context.Context) error
	}

	var variants []variant
	for _, timeRange := range refreshTimeRanges {
		for _, limit := range refreshLimits {
			timeRange, limit := timeRange, limit
			variants = append(variants, variant{"top-tracks", func(ctx context.Context) error {
				_, _, err := g.TopTracks(ctx, id, timeRange, limit, true)
				return err
			}})
			variants = append(variants, variant{"top-artists", func(ctx context.Context) error {
				_, _, err := g.TopArtists(ctx, id, timeRange, limit, true)
				return err
			}})
		}
	}
	for _, limit := range refreshLimits {
		limit := limit
		variants = append(variants, variant{"recently-played", func(ctx context.Context) error {
			_, _, err := g.RecentlyPlayed(ctx, id, limit, true)
			return err
		}})
	}
	for _, days := range refreshDayWindows {
		days := days
		variants = append(variants, variant{"listening-time", func(ctx context.Context) error {
			_, err := g.ListeningTime(ctx, id, days, true)
			return err
		}})
	}
	variants = append(variants, variant{"recommendations", func(ctx context.Context) error {
		_, _, err := g.Recommendations(ctx, id, true)
		return err
	}})

	// Bounded fan-out. Each variant settles independently.
	var (
		wg        sync.WaitGroup
		semaphore = make(chan struct{}, g.opts.RefreshConcurrency)
		failures  = make(chan string, len(variants))
	)
	for _, v := range variants {
		wg.Add(1)
		go func(v variant) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			if err := v.run(ctx); err != nil {
				logging.Ctx(ctx).Warn().Err(err).Str("resource", v.resource).Msg("Refresh variant failed")
				metrics.RefreshVariantsTotal.WithLabelValues(v.resource, "failure").Inc()
				failures <- v.resource
				return
			}
			metrics.RefreshVariantsTotal.WithLabelValues(v.resource, "success").Inc()
		}(v)
	}
	wg.Wait()
	close(failures)

	failed := 0
	for range failures {
		failed++
	}

	deleted, err := g.sweepUserKeys(ctx, id.UserID)
	if err != nil {
		return nil, err
	}

	metrics.RefreshDuration.Observe(time.Since(start).Seconds())
	logging.Ctx(ctx).Info().
		Int("variants", len(variants)).
		Int("failed", failed).
		Int("keys_deleted", deleted).
		Dur("duration", time.Since(start)).
		Msg("Refresh complete")

	return &RefreshResult{
		Variants:    len(variants),
		Failed:      failed,
		KeysDeleted: deleted,
	}, nil
}

// sweepUserKeys deletes every cache key under the user's namespace
// except the listening-time ledger family. The ledger is additive system
// of record; deleting it would erase history Spotify no longer serves.
func (g *Gateway) sweepUserKeys(ctx context.Context, userID string) (int, error) {
	keys, err := g.store.ListKeys(ctx, userPrefix(userID))
	if err != nil {
		return 0, &StoreError{Err: fmt.Errorf("list user keys: %w", err)}
	}

	deleted := 0
	for _, key := range keys {
		if isLedgerKey(key) {
			continue
		}
		if err := g.store.Delete(ctx, key); err != nil {
			return deleted, &StoreError{Err: fmt.Errorf("delete %q: %w", key, err)}
		}
		deleted++
		metrics.RefreshKeysDeleted.Inc()
	}
	return deleted, nil
}
