// Spot-a-Lyst - Spotify Listening Analytics and AI Recommendations
// Copyright 2026 nixvy-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nixvy-13/Spot-a-Lyst

package playtime

import (
	"testing"
	"time"

	"github.com/nixvy-13/Spot-a-Lyst/internal/models"
)

func assertLedgerEqual(t *testing.T, got, want Ledger) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("ledger size: got %d (%v), want %d (%v)", len(got), got, len(want), want)
		return
	}
	for date, ms := range want {
		if got[date] != ms {
			t.Errorf("ledger[%q]: got %d, want %d", date, got[date], ms)
		}
	}
}

func TestBucketByDay(t *testing.T) {
	tests := []struct {
		name   string
		events []models.PlayEvent
		want   Ledger
	}{
		{
			name:   "empty input",
			events: nil,
			want:   Ledger{},
		},
		{
			name: "accumulates same day and separates days",
			events: []models.PlayEvent{
				{TrackID: "t1", PlayedAt: "2024-01-01T10:00:00Z", DurationMS: 180000},
				{TrackID: "t2", PlayedAt: "2024-01-01T22:30:00Z", DurationMS: 120000},
				{TrackID: "t3", PlayedAt: "2024-01-02T08:00:00Z", DurationMS: 60000},
			},
			want: Ledger{"2024-01-01": 300000, "2024-01-02": 60000},
		},
		{
			name: "timestamps normalize to UTC date",
			events: []models.PlayEvent{
				{TrackID: "t1", PlayedAt: "2024-01-01T23:30:00-02:00", DurationMS: 60000},
			},
			want: Ledger{"2024-01-02": 60000},
		},
		{
			name: "malformed timestamp skips event",
			events: []models.PlayEvent{
				{TrackID: "t1", PlayedAt: "not-a-time", DurationMS: 60000},
				{TrackID: "t2", PlayedAt: "2024-01-01T10:00:00Z", DurationMS: 30000},
			},
			want: Ledger{"2024-01-01": 30000},
		},
		{
			name: "zero duration still creates bucket",
			events: []models.PlayEvent{
				{TrackID: "t1", PlayedAt: "2024-01-01T10:00:00Z"},
			},
			want: Ledger{"2024-01-01": 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BucketByDay(tt.events)
			assertLedgerEqual(t, got, tt.want)
		})
	}
}

func TestBucketByDayOrderIndependent(t *testing.T) {
	events := []models.PlayEvent{
		{TrackID: "t1", PlayedAt: "2024-01-01T10:00:00Z", DurationMS: 180000},
		{TrackID: "t2", PlayedAt: "2024-01-01T22:30:00Z", DurationMS: 120000},
		{TrackID: "t3", PlayedAt: "2024-01-02T08:00:00Z", DurationMS: 60000},
	}
	reversed := []models.PlayEvent{events[2], events[1], events[0]}

	assertLedgerEqual(t, BucketByDay(events), BucketByDay(reversed))
}

func TestMergeLedgers(t *testing.T) {
	existing := Ledger{"2024-01-01": 300000}
	incoming := Ledger{"2024-01-01": 60000, "2024-01-03": 90000}

	got := MergeLedgers(existing, incoming)

	assertLedgerEqual(t, got, Ledger{"2024-01-01": 360000, "2024-01-03": 90000})

	// Inputs are untouched.
	if existing["2024-01-01"] != 300000 {
		t.Errorf("existing ledger mutated: %v", existing)
	}
	if incoming["2024-01-01"] != 60000 {
		t.Errorf("incoming ledger mutated: %v", incoming)
	}

	// Merge is commutative.
	assertLedgerEqual(t, MergeLedgers(incoming, existing), got)
}

func TestMergeLedgersEmptySides(t *testing.T) {
	ledger := Ledger{"2024-01-01": 100}

	assertLedgerEqual(t, MergeLedgers(nil, ledger), ledger)
	assertLedgerEqual(t, MergeLedgers(ledger, nil), ledger)
	assertLedgerEqual(t, MergeLedgers(nil, nil), Ledger{})
}

func TestFilterByWindow(t *testing.T) {
	now := time.Date(2024, 6, 5, 15, 0, 0, 0, time.UTC)
	ledger := Ledger{
		"2024-01-01": 100,
		"2024-06-01": 200,
		"2024-06-05": 300,
	}

	got := FilterByWindow(ledger, 30, now)
	assertLedgerEqual(t, got, Ledger{"2024-06-01": 200, "2024-06-05": 300})

	// Input untouched.
	if len(ledger) != 3 {
		t.Errorf("input ledger mutated: %v", ledger)
	}

	// A wider window contains the narrower one.
	wide := FilterByWindow(ledger, 365, now)
	for date := range got {
		if _, ok := wide[date]; !ok {
			t.Errorf("wider window missing %q present in narrower window", date)
		}
	}
}

func TestToMinutesSeries(t *testing.T) {
	ledger := Ledger{
		"2024-01-02": 60000,  // exactly 1 minute
		"2024-01-01": 300000, // 5 minutes
		"2024-01-03": 90000,  // 1.5 minutes rounds to 2
		"2024-01-04": 29999,  // rounds down to 0
	}

	got := ToMinutesSeries(ledger)

	want := []models.ListeningTimePoint{
		{Date: "2024-01-01", Minutes: 5},
		{Date: "2024-01-02", Minutes: 1},
		{Date: "2024-01-03", Minutes: 2},
		{Date: "2024-01-04", Minutes: 0},
	}
	if len(got) != len(want) {
		t.Fatalf("series length: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("series[%d]: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestToMinutesSeriesEmpty(t *testing.T) {
	got := ToMinutesSeries(Ledger{})
	if len(got) != 0 {
		t.Errorf("empty ledger: got %v, want empty series", got)
	}
}

func TestDedupeEvents(t *testing.T) {
	events := []models.PlayEvent{
		{TrackID: "t1", PlayedAt: "2024-01-01T10:00:00Z", DurationMS: 100},
		{TrackID: "t1", PlayedAt: "2024-01-01T11:00:00Z", DurationMS: 100},
		{TrackID: "t2", PlayedAt: "2024-01-01T10:00:00Z", DurationMS: 100},
	}
	seen := map[string]struct{}{
		EventKey(events[0]): {},
	}

	fresh := DedupeEvents(events, seen)

	if len(fresh) != 2 {
		t.Fatalf("got %d fresh events, want 2: %+v", len(fresh), fresh)
	}
	if fresh[0] != events[1] || fresh[1] != events[2] {
		t.Errorf("wrong events survived dedupe: %+v", fresh)
	}

	// Same track at a different instant is a distinct play.
	if EventKey(events[0]) == EventKey(events[1]) {
		t.Error("distinct plays of the same track collided")
	}
}
