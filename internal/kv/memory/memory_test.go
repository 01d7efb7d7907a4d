package memory

import (
	"context"
	"testing"
	"time"
)

func TestStore_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	s := New()

	if err := s.Put(ctx, "a", "1", 0); err != nil {
		t.Fatalf("Put: %v", err)
	}
	v, ok, err := s.Get(ctx, "a")
	if err != nil || !ok || v != "1" {
		t.Fatalf("Get: v=%q ok=%v err=%v", v, ok, err)
	}

	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "a"); ok {
		t.Fatal("key should be gone")
	}
}

func TestStore_TTLExpires(t *testing.T) {
	ctx := context.Background()
	s := New()

	now := time.Date(2025, 11, 10, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	if err := s.Put(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "k"); !ok {
		t.Fatal("fresh key should be readable")
	}

	now = now.Add(61 * time.Second)
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Fatal("expired key should be absent")
	}
}

func TestStore_ListPaginates(t *testing.T) {
	ctx := context.Background()
	s := New()
	for _, k := range []string{"sub:a", "sub:b", "sub:c", "sub:d", "other:x"} {
		if err := s.Put(ctx, k, "v", 0); err != nil {
			t.Fatalf("Put %s: %v", k, err)
		}
	}

	keys, next, complete, err := s.List(ctx, "sub:", "", 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(keys) != 2 || complete {
		t.Fatalf("first page: keys=%v complete=%v", keys, complete)
	}

	keys2, _, complete, err := s.List(ctx, "sub:", next, 10)
	if err != nil {
		t.Fatalf("List page 2: %v", err)
	}
	if !complete || len(keys2) != 2 {
		t.Fatalf("second page: keys=%v complete=%v", keys2, complete)
	}
	if keys2[0] != "sub:c" || keys2[1] != "sub:d" {
		t.Fatalf("cursor skipped wrong keys: %v", keys2)
	}
}
