// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package cache

import (
	"errors"
	"testing"
)

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	var evicted []int
	c := New[int, string](2, func(k int, _ string) { evicted = append(evicted, k) })

	c.Put(1, "a")
	c.Put(2, "b")
	if _, ok := c.Get(1); !ok {
		t.Fatal("1 missing")
	}
	c.Put(3, "c")

	if _, ok := c.Get(2); ok {
		t.Error("2 should have been evicted")
	}
	if len(evicted) != 1 || evicted[0] != 2 {
		t.Errorf("evicted = %v", evicted)
	}
	if s := c.Stats(); s.Evictions != 1 || s.Len != 2 {
		t.Errorf("stats = %+v", s)
	}
}

func TestCacheGetOrCreate(t *testing.T) {
	c := New[string, int](0, nil)
	calls := 0
	create := func() (int, error) {
		calls++
		return 7, nil
	}
	for i := 0; i < 3; i++ {
		v, err := c.GetOrCreate("k", create)
		if err != nil || v != 7 {
			t.Fatalf("GetOrCreate = %d, %v", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("create called %d times", calls)
	}

	boom := errors.New("boom")
	if _, err := c.GetOrCreate("bad", func() (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Errorf("err = %v", err)
	}
	if c.Len() != 1 {
		t.Errorf("failed create stored a value: len %d", c.Len())
	}

	s := c.Stats()
	if s.Hits != 2 || s.Misses != 2 {
		t.Errorf("hits=%d misses=%d", s.Hits, s.Misses)
	}
	if s.HitRate != 0.5 {
		t.Errorf("HitRate = %v", s.HitRate)
	}
}

func TestCacheReplaceRemovePurge(t *testing.T) {
	var evicted []string
	c := New[int, string](0, func(_ int, v string) { evicted = append(evicted, v) })
	c.Put(1, "old")
	c.Put(1, "new")
	c.Put(2, "two")
	c.Put(3, "three")

	if !c.Remove(2) || c.Remove(2) {
		t.Error("Remove result wrong")
	}
	c.Purge()
	want := []string{"old", "two", "new", "three"}
	if len(evicted) != len(want) {
		t.Fatalf("evicted = %v, want %v", evicted, want)
	}
	for i := range want {
		if evicted[i] != want[i] {
			t.Fatalf("evicted = %v, want %v", evicted, want)
		}
	}
	if c.Len() != 0 {
		t.Errorf("len after purge = %d", c.Len())
	}
}

func TestCacheRemoveFunc(t *testing.T) {
	evicted := 0
	c := New[int, int](0, func(int, int) { evicted++ })
	for i := 0; i < 6; i++ {
		c.Put(i, i*i)
	}
	if n := c.RemoveFunc(func(k int) bool { return k%2 == 0 }); n != 3 {
		t.Fatalf("RemoveFunc = %d, want 3", n)
	}
	if evicted != 3 || c.Len() != 3 {
		t.Errorf("evicted=%d len=%d, want 3 and 3", evicted, c.Len())
	}
	if _, ok := c.Get(4); ok {
		t.Error("4 still cached")
	}
	if v, ok := c.Get(5); !ok || v != 25 {
		t.Errorf("Get(5) = %d, %v", v, ok)
	}
}
