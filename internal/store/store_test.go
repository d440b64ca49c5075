// Spot-a-Lyst - Spotify Listening Analytics and AI Recommendations
// Copyright 2026 nixvy-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nixvy-13/Spot-a-Lyst

package store

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/nixvy-13/Spot-a-Lyst/internal/logging"
)

// openStores returns one of each Store implementation so the shared
// behavior tests run against both.
func openStores(t *testing.T) map[string]Store {
	t.Helper()

	badgerStore, err := OpenBadger("")
	if err != nil {
		t.Fatalf("open in-memory badger: %v", err)
	}
	t.Cleanup(func() {
		if err := badgerStore.Close(); err != nil {
			t.Errorf("close badger: %v", err)
		}
	})

	return map[string]Store{
		"memory": NewMemoryStore(),
		"badger": badgerStore,
	}
}

func TestStoreGetPutDelete(t *testing.T) {
	ctx := context.Background()

	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrKeyNotFound) {
				t.Errorf("Get missing key: got %v, want ErrKeyNotFound", err)
			}

			if err := s.Put(ctx, "user:u1:top-tracks:short_term:20", []byte(`{"a":1}`), 0); err != nil {
				t.Fatalf("Put: %v", err)
			}

			value, err := s.Get(ctx, "user:u1:top-tracks:short_term:20")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if string(value) != `{"a":1}` {
				t.Errorf("Get: got %q, want %q", value, `{"a":1}`)
			}

			// Overwrite replaces the value.
			if err := s.Put(ctx, "user:u1:top-tracks:short_term:20", []byte(`{"a":2}`), 0); err != nil {
				t.Fatalf("Put overwrite: %v", err)
			}
			value, err = s.Get(ctx, "user:u1:top-tracks:short_term:20")
			if err != nil {
				t.Fatalf("Get after overwrite: %v", err)
			}
			if string(value) != `{"a":2}` {
				t.Errorf("Get after overwrite: got %q, want %q", value, `{"a":2}`)
			}

			if err := s.Delete(ctx, "user:u1:top-tracks:short_term:20"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, err := s.Get(ctx, "user:u1:top-tracks:short_term:20"); !errors.Is(err, ErrKeyNotFound) {
				t.Errorf("Get after delete: got %v, want ErrKeyNotFound", err)
			}

			// Deleting a missing key is not an error.
			if err := s.Delete(ctx, "never-existed"); err != nil {
				t.Errorf("Delete missing key: %v", err)
			}
		})
	}
}

func TestStoreListKeys(t *testing.T) {
	ctx := context.Background()

	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			seed := []string{
				"user:u1:top-tracks:short_term:20",
				"user:u1:top-artists:medium_term:20",
				"user:u1:listening-time",
				"user:u2:top-tracks:short_term:20",
			}
			for _, key := range seed {
				if err := s.Put(ctx, key, []byte("x"), 0); err != nil {
					t.Fatalf("Put %q: %v", key, err)
				}
			}

			keys, err := s.ListKeys(ctx, "user:u1:")
			if err != nil {
				t.Fatalf("ListKeys: %v", err)
			}
			sort.Strings(keys)
			want := []string{
				"user:u1:listening-time",
				"user:u1:top-artists:medium_term:20",
				"user:u1:top-tracks:short_term:20",
			}
			if len(keys) != len(want) {
				t.Fatalf("ListKeys: got %d keys %v, want %d", len(keys), keys, len(want))
			}
			for i := range want {
				if keys[i] != want[i] {
					t.Errorf("ListKeys[%d]: got %q, want %q", i, keys[i], want[i])
				}
			}

			keys, err = s.ListKeys(ctx, "user:u3:")
			if err != nil {
				t.Fatalf("ListKeys empty prefix: %v", err)
			}
			if len(keys) != 0 {
				t.Errorf("ListKeys for absent user: got %v, want none", keys)
			}
		})
	}
}

func TestMemoryStoreTTL(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time { return current })

	if err := s.Put(ctx, "user:u1:recommendations", []byte("r"), time.Hour); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(ctx, "user:u1:listening-time", []byte("l"), 0); err != nil {
		t.Fatalf("Put ledger: %v", err)
	}

	if _, err := s.Get(ctx, "user:u1:recommendations"); err != nil {
		t.Fatalf("Get before expiry: %v", err)
	}

	current = current.Add(2 * time.Hour)

	if _, err := s.Get(ctx, "user:u1:recommendations"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("Get after expiry: got %v, want ErrKeyNotFound", err)
	}

	// Zero TTL means no expiry.
	if _, err := s.Get(ctx, "user:u1:listening-time"); err != nil {
		t.Errorf("Get ledger after clock advance: %v", err)
	}

	keys, err := s.ListKeys(ctx, "user:u1:")
	if err != nil {
		t.Fatalf("ListKeys: %v", err)
	}
	if len(keys) != 1 || keys[0] != "user:u1:listening-time" {
		t.Errorf("ListKeys after expiry: got %v, want only the ledger key", keys)
	}
}

func TestBadgerStoreTTL(t *testing.T) {
	ctx := context.Background()
	s, err := OpenBadger("")
	if err != nil {
		t.Fatalf("open in-memory badger: %v", err)
	}
	defer s.Close()

	if err := s.Put(ctx, "user:u1:recommendations", []byte("r"), 50*time.Millisecond); err != nil {
		t.Fatalf("Put: %v", err)
	}

	time.Sleep(100 * time.Millisecond)

	if _, err := s.Get(ctx, "user:u1:recommendations"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("Get after TTL: got %v, want ErrKeyNotFound", err)
	}
}

func TestBadgerLoggerAdapter(t *testing.T) {
	var buf bytes.Buffer
	logging.SetLogger(logging.NewTestLogger(&buf))
	defer logging.Init(logging.Config{Level: "info", Format: "json"})

	adapter := badgerLogger{}
	adapter.Errorf("compaction failed: %s", "disk full")
	adapter.Warningf("slow write: %dms", 120)

	out := buf.String()
	if !strings.Contains(out, "badger: compaction failed: disk full") {
		t.Errorf("error output missing badger prefix: %s", out)
	}
	if !strings.Contains(out, "badger: slow write: 120ms") {
		t.Errorf("warning output missing badger prefix: %s", out)
	}
}
