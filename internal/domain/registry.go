package domain

import "encoding/json"

// Registry holds every known entity profile for the duration of a run.
// It is loaded wholesale at run start, mutated only in memory, and saved
// wholesale at run end. Lookup scans follow profile insertion order, which
// Go maps do not preserve, so the id order is tracked explicitly.
type Registry struct {
	profiles map[string]*EntityProfile
	order    []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{profiles: make(map[string]*EntityProfile)}
}

// Add inserts a profile. A profile with a duplicate EntityID replaces the
// existing one without disturbing its position in iteration order.
func (r *Registry) Add(p *EntityProfile) {
	if _, ok := r.profiles[p.EntityID]; !ok {
		r.order = append(r.order, p.EntityID)
	}
	r.profiles[p.EntityID] = p
}

// Get returns the profile for entityID, or nil.
func (r *Registry) Get(entityID string) *EntityProfile {
	return r.profiles[entityID]
}

// Len returns the number of profiles.
func (r *Registry) Len() int {
	return len(r.profiles)
}

// Each calls fn for every profile in insertion order until fn returns false.
func (r *Registry) Each(fn func(*EntityProfile) bool) {
	for _, id := range r.order {
		if !fn(r.profiles[id]) {
			return
		}
	}
}

// registryDoc is the persisted form: an ordered array keeps insertion order
// stable across load/save cycles.
type registryDoc struct {
	Entities []*EntityProfile `json:"entities"`
}

// MarshalJSON encodes the registry as a single document.
func (r *Registry) MarshalJSON() ([]byte, error) {
	doc := registryDoc{Entities: make([]*EntityProfile, 0, len(r.order))}
	for _, id := range r.order {
		doc.Entities = append(doc.Entities, r.profiles[id])
	}
	return json.Marshal(doc)
}

// UnmarshalJSON decodes a registry document, preserving profile order.
func (r *Registry) UnmarshalJSON(data []byte) error {
	var doc registryDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	r.profiles = make(map[string]*EntityProfile, len(doc.Entities))
	r.order = r.order[:0]
	for _, p := range doc.Entities {
		r.Add(p)
	}
	return nil
}
