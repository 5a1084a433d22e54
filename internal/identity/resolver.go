package identity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dawn1811/Rok-Manager/internal/domain"
)

// Resolver maps raw (id, name) pairs observed in source rows to stable
// entity profiles, creating or updating profiles in the registry as needed.
// Matching is exact-string and case-sensitive.
type Resolver struct {
	log *zap.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewResolver creates a new resolver.
func NewResolver(log *zap.Logger) *Resolver {
	return &Resolver{log: log, now: time.Now}
}

// Resolve returns the stable entity id for a raw (id, name) pair seen under
// eventID, mutating reg in place. It reports whether a new profile was
// created and whether the name lookup was ambiguous.
//
// Lookup order: a known raw id wins unconditionally; otherwise a name known
// to exactly one profile reuses that profile; otherwise a new profile is
// created. A name known to two or more profiles is never merged - the row
// gets a fresh profile and the ambiguity is logged.
func (r *Resolver) Resolve(rawID, rawName, eventID string, reg *domain.Registry) (entityID string, created, ambiguous bool, err error) {
	rawID = strings.TrimSpace(rawID)
	rawName = strings.TrimSpace(rawName)
	if rawID == "" {
		return "", false, false, fmt.Errorf("raw id is empty")
	}
	if rawName == "" {
		return "", false, false, fmt.Errorf("raw name is empty")
	}

	var match *domain.EntityProfile

	// Known id binds authoritatively; first profile in insertion order wins.
	reg.Each(func(p *domain.EntityProfile) bool {
		if p.HasID(rawID) {
			match = p
			return false
		}
		return true
	})

	if match == nil {
		var byName []*domain.EntityProfile
		reg.Each(func(p *domain.EntityProfile) bool {
			if p.HasName(rawName) {
				byName = append(byName, p)
			}
			return true
		})

		switch len(byName) {
		case 0:
			// Fall through to creation.
		case 1:
			match = byName[0]
		default:
			ids := make([]string, len(byName))
			for i, p := range byName {
				ids[i] = p.EntityID
			}
			r.log.Warn("Name matches multiple profiles, creating new entity instead of merging",
				zap.String("raw_name", rawName),
				zap.Strings("entity_ids", ids))
			ambiguous = true
		}
	}

	now := r.now()
	if match == nil {
		match = &domain.EntityProfile{
			EntityID:       uuid.NewString(),
			PrimaryName:    rawName,
			ActiveEvents:   make(map[string]bool),
			FirstSeenEvent: eventID,
			CreatedAt:      now,
		}
		reg.Add(match)
		created = true
		r.log.Info("New entity created",
			zap.String("entity_id", match.EntityID),
			zap.String("raw_id", rawID),
			zap.String("raw_name", rawName))
	}

	match.AddID(rawID)
	match.AddName(rawName)
	match.CurrentID = rawID
	match.CurrentName = rawName
	if match.ActiveEvents == nil {
		match.ActiveEvents = make(map[string]bool)
	}
	match.ActiveEvents[eventID] = true
	match.LastSeenEvent = eventID
	match.LastUpdated = now

	return match.EntityID, created, ambiguous, nil
}
