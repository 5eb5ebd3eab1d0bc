// Package aggregate totals outstanding resource needs across active consumers.
package aggregate

import (
	"sort"

	"stashline/internal/domain"
)

// Need is the outstanding quantity of one resource, split by how it must be
// acquired.
type Need struct {
	Find    int `json:"find"`
	Collect int `json:"collect"`
}

func (n Need) Total() int { return n.Find + n.Collect }

func (n Need) add(o Need) Need {
	return Need{Find: n.Find + o.Find, Collect: n.Collect + o.Collect}
}

// Needs maps resource id to its outstanding need.
type Needs map[string]Need

// IDs returns the resource ids in stable order.
func (n Needs) IDs() []string {
	ids := make([]string, 0, len(n))
	for id := range n {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Consumer is one quest, module or barter that still wants a resource.
type Consumer struct {
	Kind  domain.EntityKind `json:"kind"`
	ID    string            `json:"id"`
	Name  string            `json:"name"`
	Index int               `json:"-"`
	Need  Need              `json:"need"`
}

// Aggregate scans active consumers in scope. Quest and module entries count
// only while incomplete and tracked; every barter counts. Objectives that
// accept any of several resources add their remainder to each alternative.
func Aggregate(snap *domain.Snapshot, scope domain.Scope) Needs {
	out := Needs{}
	put := func(id string, n Need) {
		if domain.IsReserved(id) || n.Total() <= 0 {
			return
		}
		out[id] = out[id].add(n)
	}
	if scope.Covers(domain.ScopeQuests) {
		for _, q := range snap.Quests {
			if !q.Active() {
				continue
			}
			for _, o := range q.Objectives {
				n := objectiveNeed(o)
				for _, id := range o.Target.Items() {
					put(id, n)
				}
			}
		}
	}
	if scope.Covers(domain.ScopeHideout) {
		for _, m := range snap.Hideout {
			if !m.Active() {
				continue
			}
			for _, r := range m.Requirements {
				put(r.Item, Need{Collect: r.Remaining()})
			}
		}
	}
	if scope.Covers(domain.ScopeBarters) {
		for _, b := range snap.Barters {
			for _, r := range b.Require {
				put(r.Item, Need{Collect: r.Remaining()})
			}
		}
	}
	return out
}

func objectiveNeed(o domain.ObjectiveProgress) Need {
	switch o.Kind {
	case domain.ObjectiveFind:
		return Need{Find: o.Remaining()}
	case domain.ObjectiveCollect:
		return Need{Collect: o.Remaining()}
	}
	return Need{}
}

// QuestsRequiring lists active quests with a countable objective on resourceID.
func QuestsRequiring(snap *domain.Snapshot, resourceID string) []Consumer {
	if domain.IsReserved(resourceID) {
		return nil
	}
	var out []Consumer
	for i, q := range snap.Quests {
		if !q.Active() {
			continue
		}
		var need Need
		hit := false
		for _, o := range q.Objectives {
			if o.Kind.Countable() && o.Target.Includes(resourceID) {
				hit = true
				need = need.add(objectiveNeed(o))
			}
		}
		if hit {
			out = append(out, Consumer{Kind: domain.KindQuest, ID: q.ID, Name: q.Title, Index: i, Need: need})
		}
	}
	return out
}

// ModulesRequiring lists active modules with an item requirement on resourceID.
func ModulesRequiring(snap *domain.Snapshot, resourceID string) []Consumer {
	if domain.IsReserved(resourceID) {
		return nil
	}
	var out []Consumer
	for i, m := range snap.Hideout {
		if !m.Active() {
			continue
		}
		if need, hit := requirementNeed(m.Requirements, resourceID); hit {
			out = append(out, Consumer{Kind: domain.KindModule, ID: domain.ModuleRef(m.ID), Name: m.Name, Index: i, Need: need})
		}
	}
	return out
}

// BartersRequiring lists barters that give resourceID.
func BartersRequiring(snap *domain.Snapshot, resourceID string) []Consumer {
	if domain.IsReserved(resourceID) {
		return nil
	}
	var out []Consumer
	for i, b := range snap.Barters {
		if need, hit := requirementNeed(b.Require, resourceID); hit {
			out = append(out, Consumer{Kind: domain.KindBarter, ID: b.ID, Name: b.Name, Index: i, Need: need})
		}
	}
	return out
}

func requirementNeed(reqs []domain.RequirementProgress, resourceID string) (Need, bool) {
	var need Need
	hit := false
	for _, r := range reqs {
		if r.Kind == domain.RequirementItem && r.Item == resourceID {
			hit = true
			need.Collect += r.Remaining()
		}
	}
	return need, hit
}
