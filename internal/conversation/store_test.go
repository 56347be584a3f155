package conversation

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	store := NewMemoryStore(10 * time.Minute)
	store.now = func() time.Time { return now }

	s, err := New(FormWithdrawalDetail, 0, "crypto_address")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := store.Put(ctx, 42, s); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := store.Get(ctx, 42)
	if err != nil || got == nil {
		t.Fatalf("expected pending state, got %v err=%v", got, err)
	}
	if got.Form != FormWithdrawalDetail {
		t.Errorf("form = %s", got.Form)
	}

	// Another chat stays idle.
	if other, _ := store.Get(ctx, 43); other != nil {
		t.Errorf("state leaked to another chat: %+v", other)
	}

	now = now.Add(11 * time.Minute)
	if got, _ := store.Get(ctx, 42); got != nil {
		t.Errorf("expected expired state to be dropped, got %+v", got)
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)

	s, _ := New(FormAddTask, 0, "")
	if err := store.Put(ctx, 1, s); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, _ := store.Get(ctx, 1)
	if _, err := got.Advance("Task name"); err != nil {
		t.Fatalf("Advance: %v", err)
	}

	again, _ := store.Get(ctx, 1)
	if again.Step != 0 || len(again.Data) != 0 {
		t.Errorf("mutating a fetched state changed the stored one: %+v", again)
	}
}

func TestMemoryStoreSweepAndClear(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	store := NewMemoryStore(time.Minute)
	store.now = func() time.Time { return now }

	for id := int64(1); id <= 3; id++ {
		s, _ := New(FormAddTask, 0, "")
		store.Put(ctx, id, s)
	}
	store.Clear(ctx, 3)

	now = now.Add(2 * time.Minute)
	if removed := store.Sweep(); removed != 2 {
		t.Errorf("Sweep removed %d states, want 2", removed)
	}
}
