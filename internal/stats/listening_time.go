// Spot-a-Lyst - Spotify Listening Analytics and AI Recommendations
// Copyright 2026 nixvy-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nixvy-13/Spot-a-Lyst

package stats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/nixvy-13/Spot-a-Lyst/internal/metrics"
	"github.com/nixvy-13/Spot-a-Lyst/internal/models"
	"github.com/nixvy-13/Spot-a-Lyst/internal/playtime"
	"github.com/nixvy-13/Spot-a-Lyst/internal/store"
)

// ListeningTime returns the per-day listening minutes for the last
// windowDays days. Unlike the other resources this is never a pure
// cache read: every call fetches a batch of recently-played events,
// merges them into the persisted ledger, and answers from the merged
// state. The force flag only widens the fetch, pulling more history to
// backfill; prior ledger state is always read and always preserved.
//
// The whole read-merge-write cycle holds the user's ledger lock, so two
// concurrent refresh variants cannot interleave their merges and drop a
// batch.
func (g *Gateway) ListeningTime(ctx context.Context, id Identity, windowDays int, force bool) ([]models.ListeningTimePoint, error) {
	lock := g.ledgerLock(id.UserID)
	lock.Lock()
	defer lock.Unlock()

	ledger, err := g.loadLedger(ctx, id.UserID)
	if err != nil {
		return nil, err
	}

	fetchLimit := DefaultRecentFetchLimit
	if force {
		fetchLimit = ForcedRecentFetchLimit
	}

	start := g.now()
	page, err := g.spotify.GetRecentlyPlayed(ctx, id.SpotifyToken, fetchLimit)
	metrics.RecordSpotifyRequest("recently-played", time.Since(start), err)
	if err != nil {
		return nil, err
	}

	events := playEvents(page.Items)
	var markers []string
	if g.opts.DedupePlays {
		events, markers, err = g.filterSeenEvents(ctx, id.UserID, events)
		if err != nil {
			return nil, err
		}
	}

	merged := playtime.MergeLedgers(ledger, playtime.BucketByDay(events))
	if err := g.storeLedger(ctx, id.UserID, merged); err != nil {
		return nil, err
	}
	// Markers commit only after the ledger write: were they persisted
	// first, a failed ledger write would mark the batch as seen and a
	// retry would drop those plays for good. The reverse failure only
	// risks one double-counted batch.
	if len(markers) > 0 {
		if err := g.storeSeenMarkers(ctx, id.UserID, markers); err != nil {
			return nil, err
		}
	}
	metrics.LedgerMergesTotal.Inc()
	metrics.LedgerDays.Set(float64(len(merged)))

	windowed := playtime.FilterByWindow(merged, windowDays, g.now())
	return playtime.ToMinutesSeries(windowed), nil
}

func (g *Gateway) loadLedger(ctx context.Context, userID string) (playtime.Ledger, error) {
	raw, err := g.store.Get(ctx, listeningTimeKey(userID))
	if errors.Is(err, store.ErrKeyNotFound) {
		return playtime.Ledger{}, nil
	}
	if err != nil {
		return nil, &StoreError{Err: fmt.Errorf("load ledger: %w", err)}
	}

	var ledger playtime.Ledger
	if err := json.Unmarshal(raw, &ledger); err != nil {
		return nil, fmt.Errorf("decode ledger: %w", err)
	}
	return ledger, nil
}

// storeLedger persists the merged ledger with no TTL: it is system of
// record, not a point-in-time cache.
func (g *Gateway) storeLedger(ctx context.Context, userID string, ledger playtime.Ledger) error {
	encoded, err := json.Marshal(ledger)
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	if err := g.store.Put(ctx, listeningTimeKey(userID), encoded, 0); err != nil {
		return &StoreError{Err: fmt.Errorf("store ledger: %w", err)}
	}
	return nil
}

// filterSeenEvents drops events whose (track, playedAt) marker is already
// recorded and returns the updated marker list for the caller to persist
// once the ledger write has succeeded. Spotify re-delivers overlapping
// history on consecutive fetches; without this the additive merge counts
// the same play once per fetch. The marker set is stored beside the
// ledger and trimmed to the newest entries so it does not grow without
// bound.
func (g *Gateway) filterSeenEvents(ctx context.Context, userID string, events []models.PlayEvent) ([]models.PlayEvent, []string, error) {
	const maxMarkers = 2000

	seen := make(map[string]struct{})
	var markers []string

	raw, err := g.store.Get(ctx, listeningTimeSeenKey(userID))
	if err != nil && !errors.Is(err, store.ErrKeyNotFound) {
		return nil, nil, &StoreError{Err: fmt.Errorf("load seen markers: %w", err)}
	}
	if err == nil {
		if err := json.Unmarshal(raw, &markers); err != nil {
			// Unreadable marker state resets dedupe; worst case is one
			// double-counted batch, never ledger corruption.
			markers = nil
		}
		for _, marker := range markers {
			seen[marker] = struct{}{}
		}
	}

	fresh := playtime.DedupeEvents(events, seen)
	if len(fresh) == 0 {
		return fresh, nil, nil
	}

	for _, event := range fresh {
		markers = append(markers, playtime.EventKey(event))
	}
	if len(markers) > maxMarkers {
		markers = markers[len(markers)-maxMarkers:]
	}
	return fresh, markers, nil
}

func (g *Gateway) storeSeenMarkers(ctx context.Context, userID string, markers []string) error {
	encoded, err := json.Marshal(markers)
	if err != nil {
		return fmt.Errorf("encode seen markers: %w", err)
	}
	if err := g.store.Put(ctx, listeningTimeSeenKey(userID), encoded, 0); err != nil {
		return &StoreError{Err: fmt.Errorf("store seen markers: %w", err)}
	}
	return nil
}
