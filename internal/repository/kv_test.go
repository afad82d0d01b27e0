package repository

import (
    "context"
    "testing"
    "time"
)

func TestMemoryKVSetGetDel(t *testing.T) {
    kv := NewMemoryKV()
    ctx := context.Background()

    if _, ok, err := kv.Get(ctx, "missing"); err != nil || ok {
        t.Fatalf("Get(missing) = ok=%v err=%v", ok, err)
    }

    if err := kv.Set(ctx, "k", []byte("v1"), 0); err != nil {
        t.Fatalf("Set: %v", err)
    }
    val, ok, err := kv.Get(ctx, "k")
    if err != nil || !ok || string(val) != "v1" {
        t.Fatalf("Get = (%q,%v,%v)", val, ok, err)
    }

    // Returned slice is a copy; mutating it must not reach the store.
    val[0] = 'X'
    val, _, _ = kv.Get(ctx, "k")
    if string(val) != "v1" {
        t.Fatalf("caller mutation leaked into the store: %q", val)
    }

    if err := kv.Del(ctx, "k"); err != nil {
        t.Fatalf("Del: %v", err)
    }
    if _, ok, _ := kv.Get(ctx, "k"); ok {
        t.Fatal("key survived Del")
    }
    if err := kv.Del(ctx, "k"); err != nil {
        t.Fatalf("second Del: %v", err)
    }
}

func TestMemoryKVExpiry(t *testing.T) {
    kv := NewMemoryKV()
    ctx := context.Background()

    if err := kv.Set(ctx, "short", []byte("v"), time.Millisecond); err != nil {
        t.Fatalf("Set: %v", err)
    }
    time.Sleep(5 * time.Millisecond)
    if _, ok, _ := kv.Get(ctx, "short"); ok {
        t.Fatal("expired key still readable")
    }

    if err := kv.Set(ctx, "forever", []byte("v"), 0); err != nil {
        t.Fatalf("Set: %v", err)
    }
    time.Sleep(5 * time.Millisecond)
    if _, ok, _ := kv.Get(ctx, "forever"); !ok {
        t.Fatal("zero-TTL key expired")
    }
}

func TestMemoryKVIncrWindow(t *testing.T) {
    kv := NewMemoryKV()
    ctx := context.Background()

    for want := int64(1); want <= 3; want++ {
        n, err := kv.Incr(ctx, "w", time.Minute)
        if err != nil || n != want {
            t.Fatalf("Incr #%d = (%d,%v)", want, n, err)
        }
    }

    // A fresh window after expiry restarts from 1.
    if _, err := kv.Incr(ctx, "fast", time.Millisecond); err != nil {
        t.Fatalf("Incr: %v", err)
    }
    time.Sleep(5 * time.Millisecond)
    if n, _ := kv.Incr(ctx, "fast", time.Millisecond); n != 1 {
        t.Fatalf("counter survived its window: %d", n)
    }
}

func TestSettingsRepoRoundTripAndNormalization(t *testing.T) {
    repo := NewSettingsRepo(NewMemoryKV())
    ctx := context.Background()

    // No record: defaults.
    s := repo.Get(ctx, "p1")
    if s.Difficulty != "medium" || s.BannerDismissed {
        t.Fatalf("fresh settings = %+v", s)
    }

    s.Difficulty = "nightmare"
    s.BannerDismissed = true
    if err := repo.Put(ctx, "p1", s); err != nil {
        t.Fatalf("Put: %v", err)
    }
    got := repo.Get(ctx, "p1")
    if got.Difficulty != "nightmare" || !got.BannerDismissed {
        t.Fatalf("round trip = %+v", got)
    }

    // Unknown difficulty is normalized to medium on write.
    s.Difficulty = "ultra"
    if err := repo.Put(ctx, "p1", s); err != nil {
        t.Fatalf("Put: %v", err)
    }
    if got := repo.Get(ctx, "p1"); got.Difficulty != "medium" {
        t.Fatalf("unknown difficulty persisted as %q", got.Difficulty)
    }

    // Players do not share settings.
    if got := repo.Get(ctx, "p2"); got.BannerDismissed {
        t.Fatalf("settings leaked across players: %+v", got)
    }
}

func TestSettingsRepoMalformedRecordFallsBack(t *testing.T) {
    kv := NewMemoryKV()
    repo := NewSettingsRepo(kv)
    ctx := context.Background()

    if err := kv.Set(ctx, "practice:settings:p1", []byte("{not json"), 0); err != nil {
        t.Fatalf("Set: %v", err)
    }
    got := repo.Get(ctx, "p1")
    if got.Difficulty != "medium" || got.BannerDismissed {
        t.Fatalf("malformed record decoded to %+v, want defaults", got)
    }
}
