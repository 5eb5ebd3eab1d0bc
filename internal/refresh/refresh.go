// Package refresh materializes catalog templates into a progress snapshot.
package refresh

import (
	"strconv"

	"stashline/internal/catalog"
	"stashline/internal/domain"
)

// Report summarizes a refresh or reset.
type Report struct {
	Scope   domain.Scope `json:"scope"`
	Wipe    bool         `json:"wipe"`
	Quests  int          `json:"quests"`
	Modules int          `json:"modules"`
	Barters int          `json:"barters"`
	Carried int          `json:"carried"`
	Dropped int          `json:"dropped"`
}

// Apply rebuilds the scoped part of the snapshot from the catalog.
//
// Without wipe, template-derived fields are replaced while status, tracking
// and have counters carry forward: objectives and requirements are paired by
// (kind, target) in template order and counters are clamped to the new
// quantity. Counters whose pairing disappeared are dropped. Barters have no
// template and are left alone.
//
// With wipe every entity in scope starts fresh, barters are deleted, and a
// full-scope wipe also resets the level.
func Apply(cat *catalog.Catalog, snap *domain.Snapshot, scope domain.Scope, wipe bool) Report {
	rep := Report{Scope: scope, Wipe: wipe}
	if scope.Covers(domain.ScopeQuests) {
		quests(cat, snap, wipe, &rep)
	}
	if scope.Covers(domain.ScopeHideout) {
		hideout(cat, snap, wipe, &rep)
	}
	if scope.Covers(domain.ScopeBarters) {
		rep.Barters = len(snap.Barters)
		if wipe {
			for _, b := range snap.Barters {
				for _, r := range b.Require {
					rep.Dropped += r.Have
				}
			}
			snap.Barters = []domain.BarterProgress{}
		}
	}
	if wipe && scope == domain.ScopeAll {
		snap.Level = 0
	}
	return rep
}

// carry pools old counters by pairing key, consumed in order.
type carry map[string][]int

func (c carry) put(key string, have int) {
	c[key] = append(c[key], have)
}

func (c carry) take(key string) (int, bool) {
	q := c[key]
	if len(q) == 0 {
		return 0, false
	}
	c[key] = q[1:]
	return q[0], true
}

func (c carry) leftover() int {
	n := 0
	for _, q := range c {
		for _, h := range q {
			n += h
		}
	}
	return n
}

func objectiveKey(kind domain.ObjectiveKind, t domain.Target) string {
	return string(kind) + "|" + t.Key()
}

func requirementKey(r domain.RequirementKind, item string, module int) string {
	if r == domain.RequirementModule {
		return "module|" + strconv.Itoa(module)
	}
	return "item|" + item
}

func quests(cat *catalog.Catalog, snap *domain.Snapshot, wipe bool, rep *Report) {
	old := map[string]domain.QuestProgress{}
	for _, q := range snap.Quests {
		old[q.ID] = q
	}
	out := make([]domain.QuestProgress, 0, len(cat.Quests))
	for _, tmpl := range cat.Quests {
		qp := domain.QuestProgress{
			ID:      tmpl.ID,
			Title:   tmpl.Title,
			Status:  domain.StatusIncomplete,
			Tracked: true,
		}
		pool := carry{}
		if prev, ok := old[tmpl.ID]; ok {
			if !wipe {
				qp.Status = prev.Status
				qp.Tracked = prev.Tracked
			}
			for _, o := range prev.Objectives {
				if o.Have > 0 {
					pool.put(objectiveKey(o.Kind, o.Target), o.Have)
				}
			}
		}
		for _, ot := range tmpl.Objectives {
			op := domain.ObjectiveProgress{Kind: ot.Kind, Target: ot.Target, Quantity: ot.Quantity}
			if ot.Kind.Countable() && !wipe {
				if have, ok := pool.take(objectiveKey(ot.Kind, ot.Target)); ok {
					op.Have = min(have, ot.Quantity)
					rep.Carried += op.Have
					rep.Dropped += have - op.Have
				}
			}
			qp.Objectives = append(qp.Objectives, op)
		}
		rep.Dropped += pool.leftover()
		delete(old, tmpl.ID)
		out = append(out, qp)
	}
	for _, gone := range old {
		for _, o := range gone.Objectives {
			rep.Dropped += o.Have
		}
	}
	snap.Quests = out
	rep.Quests = len(out)
}

func hideout(cat *catalog.Catalog, snap *domain.Snapshot, wipe bool, rep *Report) {
	old := map[int]domain.ModuleProgress{}
	for _, m := range snap.Hideout {
		old[m.ID] = m
	}
	out := make([]domain.ModuleProgress, 0, len(cat.Hideout))
	for _, tmpl := range cat.Hideout {
		mp := domain.ModuleProgress{
			ID:      tmpl.ID,
			Name:    tmpl.Name(),
			Station: tmpl.Station,
			Level:   tmpl.Level,
			Status:  domain.StatusIncomplete,
			Tracked: true,
		}
		pool := carry{}
		if prev, ok := old[tmpl.ID]; ok {
			if !wipe {
				mp.Status = prev.Status
				mp.Tracked = prev.Tracked
			}
			for _, r := range prev.Requirements {
				if r.Have > 0 {
					pool.put(requirementKey(r.Kind, r.Item, r.Module), r.Have)
				}
			}
		}
		for _, rt := range tmpl.Requirements {
			rp := domain.RequirementProgress{Kind: rt.Kind, Item: rt.Item, Module: rt.Module, Quantity: rt.Quantity}
			if rt.Kind == domain.RequirementItem && !wipe {
				if have, ok := pool.take(requirementKey(rt.Kind, rt.Item, rt.Module)); ok {
					rp.Have = min(have, rt.Quantity)
					rep.Carried += rp.Have
					rep.Dropped += have - rp.Have
				}
			}
			mp.Requirements = append(mp.Requirements, rp)
		}
		rep.Dropped += pool.leftover()
		delete(old, tmpl.ID)
		out = append(out, mp)
	}
	for _, gone := range old {
		for _, r := range gone.Requirements {
			rep.Dropped += r.Have
		}
	}
	snap.Hideout = out
	rep.Modules = len(out)
}
