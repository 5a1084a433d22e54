package domain

import "time"

// EntityProfile is the stable identity behind a mutable (raw id, raw name)
// pair observed in source tables. EntityID is immutable once assigned;
// KnownIDs and KnownNames only ever grow.
type EntityProfile struct {
	EntityID       string          `json:"entityId"`
	PrimaryName    string          `json:"primaryName"`
	KnownIDs       []string        `json:"knownIds"`
	KnownNames     []string        `json:"knownNames"`
	CurrentID      string          `json:"currentId"`
	CurrentName    string          `json:"currentName"`
	ActiveEvents   map[string]bool `json:"activeEvents"`
	FirstSeenEvent string          `json:"firstSeenEvent"`
	LastSeenEvent  string          `json:"lastSeenEvent"`
	CreatedAt      time.Time       `json:"createdAt"`
	LastUpdated    time.Time       `json:"lastUpdated"`
}

// HasID reports whether rawID has ever been observed for this profile.
func (p *EntityProfile) HasID(rawID string) bool {
	for _, id := range p.KnownIDs {
		if id == rawID {
			return true
		}
	}
	return false
}

// HasName reports whether rawName has ever been observed for this profile.
func (p *EntityProfile) HasName(rawName string) bool {
	for _, n := range p.KnownNames {
		if n == rawName {
			return true
		}
	}
	return false
}

// AddID appends rawID to KnownIDs if it is not already present.
func (p *EntityProfile) AddID(rawID string) {
	if !p.HasID(rawID) {
		p.KnownIDs = append(p.KnownIDs, rawID)
	}
}

// AddName appends rawName to KnownNames if it is not already present.
func (p *EntityProfile) AddName(rawName string) {
	if !p.HasName(rawName) {
		p.KnownNames = append(p.KnownNames, rawName)
	}
}
