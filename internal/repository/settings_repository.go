package repository

import (
    "context"
    "encoding/json"
    "fmt"
    "log"

    "github.com/iliyamo/onsale-practice/internal/model"
)

// settingsKey namespaces the per-player settings blob.
const settingsKey = "practice:settings:%s"

// SettingsRepo stores each player's sticky UI choices (difficulty, banner
// flag) as one JSON blob, the direct analog of the original profile-scoped
// settings record.  Reads never fail upward: a missing or malformed record
// decodes to the defaults with a logged warning.
type SettingsRepo struct {
    kv KV
}

// NewSettingsRepo returns a SettingsRepo over the given KV store.
func NewSettingsRepo(kv KV) *SettingsRepo {
    return &SettingsRepo{kv: kv}
}

// Get loads the player's settings.  The stored difficulty is normalized
// through the difficulty table so an unknown saved name comes back as
// medium rather than leaking downstream.
func (r *SettingsRepo) Get(ctx context.Context, playerID string) model.PlayerSettings {
    raw, ok, err := r.kv.Get(ctx, fmt.Sprintf(settingsKey, playerID))
    if err != nil {
        log.Printf("settings: read for %s failed, using defaults: %v", playerID, err)
        return model.DefaultPlayerSettings()
    }
    if !ok {
        return model.DefaultPlayerSettings()
    }

    var s model.PlayerSettings
    if err := json.Unmarshal(raw, &s); err != nil {
        log.Printf("settings: malformed record for %s, using defaults: %v", playerID, err)
        return model.DefaultPlayerSettings()
    }
    profile, _ := model.SelectDifficulty(s.Difficulty)
    s.Difficulty = profile.Name
    return s
}

// Put saves the player's settings.  The difficulty is normalized before
// writing so only table keys are ever persisted.
func (r *SettingsRepo) Put(ctx context.Context, playerID string, s model.PlayerSettings) error {
    profile, _ := model.SelectDifficulty(s.Difficulty)
    s.Difficulty = profile.Name

    raw, err := json.Marshal(s)
    if err != nil {
        return err
    }
    return r.kv.Set(ctx, fmt.Sprintf(settingsKey, playerID), raw, 0)
}
