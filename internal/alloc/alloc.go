// Package alloc distributes collected resource quantities across the
// consumers that still need them.
package alloc

import (
	"stashline/internal/aggregate"
	"stashline/internal/domain"
)

// Result reports how much of a delta was placed. Applied and Remainder carry
// the sign of the delta and always sum to it.
type Result struct {
	Resource  string  `json:"resource"`
	Applied   int     `json:"applied"`
	Remainder int     `json:"remainder"`
	Touched   []Touch `json:"touched,omitempty"`
}

// Touch records one consumer whose counters moved.
type Touch struct {
	Kind  domain.EntityKind `json:"kind"`
	ID    string            `json:"id"`
	Name  string            `json:"name"`
	Delta int               `json:"delta"`
}

type slot struct {
	have     *int
	quantity int
	owner    aggregate.Consumer
}

// Apply walks the consumers of resourceID in priority order: found-in-raid
// quest objectives (only when foundInRaid), quest collect objectives, hideout
// item requirements, then barter requirements. Within each tier snapshot
// order is kept. A positive delta fills free capacity, a negative one drains
// held units; the walk stops when the delta is used up.
func Apply(snap *domain.Snapshot, resourceID string, delta int, foundInRaid bool) (Result, error) {
	res := Result{Resource: resourceID}
	if domain.IsReserved(resourceID) {
		return res, domain.ErrReservedResource
	}
	if delta == 0 {
		return res, nil
	}
	slots := collect(snap, resourceID, foundInRaid)
	left := delta
	touched := map[string]int{}
	for _, s := range slots {
		if left == 0 {
			break
		}
		var moved int
		if left > 0 {
			moved = min(left, max(0, s.quantity-*s.have))
		} else {
			moved = -min(-left, max(0, *s.have))
		}
		if moved == 0 {
			continue
		}
		*s.have += moved
		left -= moved
		key := string(s.owner.Kind) + "/" + s.owner.ID
		if i, ok := touched[key]; ok {
			res.Touched[i].Delta += moved
			continue
		}
		touched[key] = len(res.Touched)
		res.Touched = append(res.Touched, Touch{Kind: s.owner.Kind, ID: s.owner.ID, Name: s.owner.Name, Delta: moved})
	}
	res.Applied = delta - left
	res.Remainder = left
	return res, nil
}

// Capacity returns the free (positive) or held (negative) quantity Apply could
// move for resourceID.
func Capacity(snap *domain.Snapshot, resourceID string, foundInRaid bool, retract bool) int {
	total := 0
	for _, s := range collect(snap, resourceID, foundInRaid) {
		if retract {
			total += *s.have
		} else {
			total += s.quantity - *s.have
		}
	}
	return total
}

func collect(snap *domain.Snapshot, resourceID string, foundInRaid bool) []slot {
	var slots []slot
	quests := aggregate.QuestsRequiring(snap, resourceID)
	questTier := func(kind domain.ObjectiveKind) {
		for _, c := range quests {
			objs := snap.Quests[c.Index].Objectives
			for i := range objs {
				if objs[i].Kind == kind && objs[i].Target.Includes(resourceID) {
					slots = append(slots, slot{have: &objs[i].Have, quantity: objs[i].Quantity, owner: c})
				}
			}
		}
	}
	if foundInRaid {
		questTier(domain.ObjectiveFind)
	}
	questTier(domain.ObjectiveCollect)
	for _, c := range aggregate.ModulesRequiring(snap, resourceID) {
		slots = appendRequirements(slots, snap.Hideout[c.Index].Requirements, resourceID, c)
	}
	for _, c := range aggregate.BartersRequiring(snap, resourceID) {
		slots = appendRequirements(slots, snap.Barters[c.Index].Require, resourceID, c)
	}
	return slots
}

func appendRequirements(slots []slot, reqs []domain.RequirementProgress, resourceID string, owner aggregate.Consumer) []slot {
	for i := range reqs {
		if reqs[i].Kind == domain.RequirementItem && reqs[i].Item == resourceID {
			slots = append(slots, slot{have: &reqs[i].Have, quantity: reqs[i].Quantity, owner: owner})
		}
	}
	return slots
}
