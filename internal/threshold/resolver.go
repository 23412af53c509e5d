package threshold

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/qualgate/qualgate/internal/cache"
	"github.com/qualgate/qualgate/internal/model"
)

// Store supplies scoped threshold overrides. An error here is a
// configuration error and must abort resolution rather than silently
// fall back to defaults.
type Store interface {
	// Overrides returns the threshold overrides for a scope. The scopeID is
	// empty for the global scope.
	Overrides(ctx context.Context, scope model.ThresholdScope, scopeID string) ([]model.ConfidenceThreshold, error)
}

// Resolver produces effective UI thresholds by overlaying scope layers:
// hard-coded defaults, then global, then team, then user. Later layers win
// per threshold type independently. Resolved sets are cached because
// threshold configuration is read-mostly.
type Resolver struct {
	store    Store
	cache    cache.Cache // nil disables caching
	cacheTTL time.Duration
}

// NewResolver creates a resolver over the given store. c may be nil to
// disable caching.
func NewResolver(store Store, c cache.Cache, ttl time.Duration) *Resolver {
	return &Resolver{store: store, cache: c, cacheTTL: ttl}
}

// Resolve returns the effective thresholds for an optional user/team pair
func (r *Resolver) Resolve(ctx context.Context, userID, teamID string) (model.ThresholdSet, error) {
	key := cache.Key("thresholds", userID, teamID)
	if r.cache != nil {
		if data, ok := r.cache.Get(key); ok {
			var set model.ThresholdSet
			if err := json.Unmarshal(data, &set); err == nil {
				return set, nil
			}
			// Corrupt cache entry: drop it and resolve fresh.
			_ = r.cache.Delete(key)
		}
	}

	set := model.DefaultThresholds()

	layers := []struct {
		scope   model.ThresholdScope
		scopeID string
	}{
		{model.ScopeGlobal, ""},
		{model.ScopeTeam, teamID},
		{model.ScopeUser, userID},
	}
	for _, layer := range layers {
		if layer.scope != model.ScopeGlobal && layer.scopeID == "" {
			continue
		}
		overrides, err := r.store.Overrides(ctx, layer.scope, layer.scopeID)
		if err != nil {
			return model.ThresholdSet{}, fmt.Errorf("resolve %s thresholds: %w", layer.scope, err)
		}
		apply(&set, overrides)
	}

	if r.cache != nil {
		if data, err := json.Marshal(set); err == nil {
			_ = r.cache.Set(key, data, r.cacheTTL)
		}
	}
	return set, nil
}

// apply overlays one layer's overrides onto the set, per type
func apply(set *model.ThresholdSet, overrides []model.ConfidenceThreshold) {
	for _, o := range overrides {
		switch o.Type {
		case model.ThresholdDisplay:
			set.Display = o.Value
		case model.ThresholdHide:
			set.Hide = o.Value
		case model.ThresholdWarning:
			set.Warning = o.Value
		}
	}
}

// Treatment maps a calibrated confidence level to a UI treatment under the
// resolved thresholds
func Treatment(level int, set model.ThresholdSet) model.UITreatment {
	switch {
	case level < set.Hide:
		return model.TreatmentHide
	case level < set.Display:
		return model.TreatmentGreyOut
	case level < set.Warning:
		return model.TreatmentWarning
	default:
		return model.TreatmentNormal
	}
}
