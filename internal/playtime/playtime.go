// Spot-a-Lyst - Spotify Listening Analytics and AI Recommendations
// Copyright 2026 nixvy-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nixvy-13/Spot-a-Lyst

// Package playtime turns recently-played events into the day-bucketed
// listening ledger and provides the pure operations the listening-time
// pipeline is built from: bucket, merge, window filter, and series
// formatting. Internal storage stays in milliseconds; rounding to minutes
// happens once, at the output edge.
package playtime

import (
	"math"
	"sort"
	"time"

	"github.com/nixvy-13/Spot-a-Lyst/internal/models"
)

// Ledger maps an ISO date (YYYY-MM-DD, UTC) to total listened
// milliseconds on that day.
type Ledger map[string]int64

// BucketByDay sums event durations into per-day buckets keyed by the UTC
// calendar date of each play. Events with a timestamp that does not parse
// are skipped; a missing duration counts as zero. Input order does not
// affect the result.
func BucketByDay(events []models.PlayEvent) Ledger {
	ledger := make(Ledger)
	for _, event := range events {
		date, ok := isoDate(event.PlayedAt)
		if !ok {
			continue
		}
		ledger[date] += event.DurationMS
	}
	return ledger
}

// MergeLedgers returns a new ledger whose value for every date is the sum
// of both sides. Neither input is mutated. Merging the same batch twice
// double-counts; callers are responsible for feeding each play in exactly
// once.
func MergeLedgers(existing, incoming Ledger) Ledger {
	merged := make(Ledger, len(existing)+len(incoming))
	for date, ms := range existing {
		merged[date] = ms
	}
	for date, ms := range incoming {
		merged[date] += ms
	}
	return merged
}

// FilterByWindow returns the entries of ledger whose date falls within the
// last windowDays days of now (UTC). ISO dates sort lexicographically in
// calendar order, so the comparison is a plain string compare against the
// cutoff date. The input is not mutated.
func FilterByWindow(ledger Ledger, windowDays int, now time.Time) Ledger {
	cutoff := now.UTC().AddDate(0, 0, -windowDays).Format("2006-01-02")
	filtered := make(Ledger)
	for date, ms := range ledger {
		if date >= cutoff {
			filtered[date] = ms
		}
	}
	return filtered
}

// ToMinutesSeries formats a ledger as the public listening-time series:
// one point per date, minutes rounded from milliseconds, sorted ascending
// by date.
func ToMinutesSeries(ledger Ledger) []models.ListeningTimePoint {
	series := make([]models.ListeningTimePoint, 0, len(ledger))
	for date, ms := range ledger {
		series = append(series, models.ListeningTimePoint{
			Date:    date,
			Minutes: int64(math.Round(float64(ms) / 60000)),
		})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Date < series[j].Date
	})
	return series
}

// EventKey identifies a single play occurrence for dedupe purposes. The
// same track played at the same instant cannot occur twice in Spotify's
// history, so (track, playedAt) is unique per play.
func EventKey(event models.PlayEvent) string {
	return event.TrackID + "|" + event.PlayedAt
}

// DedupeEvents splits events into those not present in seen, in input
// order. Overlapping recently-played fetch windows re-deliver the same
// plays; filtering against the seen set keeps the ledger additive without
// double-counting.
func DedupeEvents(events []models.PlayEvent, seen map[string]struct{}) []models.PlayEvent {
	fresh := make([]models.PlayEvent, 0, len(events))
	for _, event := range events {
		if _, ok := seen[EventKey(event)]; ok {
			continue
		}
		fresh = append(fresh, event)
	}
	return fresh
}

// isoDate truncates an RFC 3339 timestamp to its UTC calendar date.
func isoDate(playedAt string) (string, bool) {
	t, err := time.Parse(time.RFC3339, playedAt)
	if err != nil {
		// Spotify sometimes emits fractional seconds; RFC 3339 parsing
		// covers those, but guard against bare dates from older data.
		t, err = time.Parse("2006-01-02", playedAt)
		if err != nil {
			return "", false
		}
	}
	return t.UTC().Format("2006-01-02"), true
}
