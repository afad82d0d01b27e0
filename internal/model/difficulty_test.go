package model

import "testing"

func TestSelectDifficultyKnownNames(t *testing.T) {
    for _, name := range []string{DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyNightmare} {
        p, ok := SelectDifficulty(name)
        if !ok {
            t.Fatalf("SelectDifficulty(%q) reported unknown", name)
        }
        if p.Name != name {
            t.Fatalf("SelectDifficulty(%q) returned profile %q", name, p.Name)
        }
    }
}

func TestSelectDifficultyFallsBackToMedium(t *testing.T) {
    for _, name := range []string{"", "impossible", "MEDIUM", "Easy "} {
        p, ok := SelectDifficulty(name)
        if ok {
            t.Fatalf("SelectDifficulty(%q) reported known", name)
        }
        if p.Name != DifficultyMedium {
            t.Fatalf("SelectDifficulty(%q) fell back to %q, want medium", name, p.Name)
        }
    }
}

func TestDifficultyTableShape(t *testing.T) {
    all := AllDifficulties()
    if len(all) != 4 {
        t.Fatalf("AllDifficulties returned %d profiles, want 4", len(all))
    }
    order := []string{DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyNightmare}
    for i, p := range all {
        if p.Name != order[i] {
            t.Fatalf("position %d is %q, want %q", i, p.Name, order[i])
        }
        if p.Availability.Min <= 0 || p.Availability.Max > 1 || p.Availability.Min > p.Availability.Max {
            t.Errorf("%s: bad availability range %+v", p.Name, p.Availability)
        }
        if p.CompetitorEnabled && p.CompetitorTickMilli <= 0 {
            t.Errorf("%s: competitor enabled with no tick period", p.Name)
        }
    }

    easy, _ := SelectDifficulty(DifficultyEasy)
    if easy.CompetitorEnabled {
        t.Error("easy must not run the competitor")
    }
    if easy.HoldSeconds != HoldUnlimited {
        t.Errorf("easy hold = %d, want unlimited", easy.HoldSeconds)
    }

    // Difficulty must monotonically tighten: less availability, faster
    // ticks, shorter holds.
    prev, _ := SelectDifficulty(DifficultyMedium)
    for _, name := range []string{DifficultyHard, DifficultyNightmare} {
        p, _ := SelectDifficulty(name)
        if p.Availability.Max >= prev.Availability.Min {
            t.Errorf("%s availability overlaps %s", name, prev.Name)
        }
        if p.CompetitorTickMilli >= prev.CompetitorTickMilli {
            t.Errorf("%s ticks no faster than %s", name, prev.Name)
        }
        if p.HoldSeconds >= prev.HoldSeconds {
            t.Errorf("%s hold %d not shorter than %s hold %d", name, p.HoldSeconds, prev.Name, prev.HoldSeconds)
        }
        if p.DisappearRate <= prev.DisappearRate {
            t.Errorf("%s disappear rate not above %s", name, prev.Name)
        }
        prev = p
    }
}

func TestNewAllTimeStatsSeedsDifficultyMap(t *testing.T) {
    s := NewAllTimeStats()
    if len(s.Difficulty) != 4 {
        t.Fatalf("difficulty map has %d entries, want 4", len(s.Difficulty))
    }
    if _, ok := s.Difficulty[DifficultyNightmare]; !ok {
        t.Fatal("nightmare tally missing")
    }
}

func TestDefaultPlayerSettings(t *testing.T) {
    s := DefaultPlayerSettings()
    if s.Difficulty != DifficultyMedium {
        t.Fatalf("default difficulty = %q, want medium", s.Difficulty)
    }
    if s.BannerDismissed {
        t.Fatal("banner must start visible")
    }
}
