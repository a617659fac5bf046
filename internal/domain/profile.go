package domain

import "fmt"

// Weights is a named weighting over the seven scoring dimensions.
// Weights do not have to sum to 1 as written; Normalized rescales them.
type Weights struct {
	Price       float64 `json:"price"`
	Duration    float64 `json:"duration"`
	Stops       float64 `json:"stops"`
	Layover     float64 `json:"layover"`
	Baggage     float64 `json:"baggage"`
	Risk        float64 `json:"risk"`
	Reliability float64 `json:"reliability"`
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Price + w.Duration + w.Stops + w.Layover + w.Baggage + w.Risk + w.Reliability
}

// Normalized returns the weights rescaled to sum to exactly 1.
func (w Weights) Normalized() (Weights, error) {
	sum := w.Sum()
	if sum <= 0 {
		return Weights{}, fmt.Errorf("profile weights must sum to a positive value, got %.4f", sum)
	}
	return Weights{
		Price:       w.Price / sum,
		Duration:    w.Duration / sum,
		Stops:       w.Stops / sum,
		Layover:     w.Layover / sum,
		Baggage:     w.Baggage / sum,
		Risk:        w.Risk / sum,
		Reliability: w.Reliability / sum,
	}, nil
}

// Priority profile names.
const (
	PriorityBalanced = "balanced"
	PriorityCheapest = "cheapest"
	PriorityFastest  = "fastest"
	PriorityComfort  = "comfort"
)

// builtinProfiles are the default weight tables per priority.
var builtinProfiles = map[string]Weights{
	PriorityBalanced: {Price: 0.25, Duration: 0.20, Stops: 0.15, Layover: 0.10, Baggage: 0.10, Risk: 0.15, Reliability: 0.05},
	PriorityCheapest: {Price: 0.50, Duration: 0.15, Stops: 0.10, Layover: 0.05, Baggage: 0.10, Risk: 0.08, Reliability: 0.02},
	PriorityFastest:  {Price: 0.10, Duration: 0.45, Stops: 0.20, Layover: 0.10, Baggage: 0.05, Risk: 0.08, Reliability: 0.02},
	PriorityComfort:  {Price: 0.15, Duration: 0.20, Stops: 0.15, Layover: 0.25, Baggage: 0.15, Risk: 0.08, Reliability: 0.02},
}

// priorityAliases maps legacy priority names to the canonical ones.
var priorityAliases = map[string]string{
	"cheap": PriorityCheapest,
	"fast":  PriorityFastest,
}

// ProfileTable resolves a priority name to its weights.
// Custom profiles (from configuration) take precedence over built-ins.
type ProfileTable struct {
	custom map[string]Weights
}

// NewProfileTable builds a profile table with optional custom overrides.
func NewProfileTable(custom map[string]Weights) *ProfileTable {
	return &ProfileTable{custom: custom}
}

// CanonicalPriority lowercases and de-aliases a priority name.
func CanonicalPriority(name string) string {
	if alias, ok := priorityAliases[name]; ok {
		return alias
	}
	return name
}

// Lookup returns the normalized weights for the given priority.
// Unknown priorities fall back to the balanced profile.
func (t *ProfileTable) Lookup(priority string) Weights {
	name := CanonicalPriority(priority)

	if t != nil && t.custom != nil {
		if w, ok := t.custom[name]; ok {
			if norm, err := w.Normalized(); err == nil {
				return norm
			}
		}
	}
	if w, ok := builtinProfiles[name]; ok {
		norm, _ := w.Normalized()
		return norm
	}
	norm, _ := builtinProfiles[PriorityBalanced].Normalized()
	return norm
}

// KnownPriority reports whether the name resolves to a defined profile.
func (t *ProfileTable) KnownPriority(priority string) bool {
	name := CanonicalPriority(priority)
	if t != nil && t.custom != nil {
		if _, ok := t.custom[name]; ok {
			return true
		}
	}
	_, ok := builtinProfiles[name]
	return ok
}
