// Package graph walks prerequisite edges between quests and between hideout
// modules and flips their completion and tracking flags.
package graph

import (
	"fmt"
	"strconv"

	"stashline/internal/catalog"
	"stashline/internal/domain"
)

// Graph operates on one snapshot; quest edges come from the catalog, module
// edges from the module-kind requirements materialized in the snapshot.
type Graph struct {
	Catalog  *catalog.Catalog
	Snapshot *domain.Snapshot
}

// IsEligible reports whether a quest can be started: the level gate is met and
// no prerequisite quest is still incomplete.
func (g Graph) IsEligible(questID string) bool {
	tmpl, ok := g.Catalog.Quest(questID)
	if !ok {
		return false
	}
	if g.Snapshot.Level < tmpl.RequiredLevel {
		return false
	}
	for _, req := range tmpl.RequiredQuests {
		if i := g.Snapshot.QuestIndex(req); i >= 0 && g.Snapshot.Quests[i].Status == domain.StatusIncomplete {
			return false
		}
	}
	return true
}

// ModuleEligible reports whether every prerequisite module is complete.
func (g Graph) ModuleEligible(moduleID int) bool {
	i := g.Snapshot.ModuleIndex(moduleID)
	if i < 0 {
		return false
	}
	for _, r := range g.Snapshot.Hideout[i].Requirements {
		if r.Kind != domain.RequirementModule {
			continue
		}
		if j := g.Snapshot.ModuleIndex(r.Module); j >= 0 && g.Snapshot.Hideout[j].Status == domain.StatusIncomplete {
			return false
		}
	}
	return true
}

// RecursiveClose returns the snapshot indices of root and all of its
// transitive prerequisites in depth-first pre-order, root first. root is a
// quest id or a module id. Each id is visited once, so cyclic template data
// terminates.
func (g Graph) RecursiveClose(kind domain.EntityKind, root string) ([]int, error) {
	switch kind {
	case domain.KindQuest:
		if g.Snapshot.QuestIndex(root) < 0 {
			return nil, &domain.NotFoundError{Kind: kind, Query: root}
		}
		var out []int
		visited := map[string]bool{}
		var walk func(id string)
		walk = func(id string) {
			if visited[id] {
				return
			}
			visited[id] = true
			idx := g.Snapshot.QuestIndex(id)
			if idx < 0 {
				return
			}
			out = append(out, idx)
			tmpl, _ := g.Catalog.Quest(id)
			for _, req := range tmpl.RequiredQuests {
				walk(req)
			}
		}
		walk(root)
		return out, nil
	case domain.KindModule:
		id, err := strconv.Atoi(root)
		if err != nil || g.Snapshot.ModuleIndex(id) < 0 {
			return nil, &domain.NotFoundError{Kind: kind, Query: root}
		}
		var out []int
		visited := map[int]bool{}
		var walk func(id int)
		walk = func(id int) {
			if visited[id] {
				return
			}
			visited[id] = true
			idx := g.Snapshot.ModuleIndex(id)
			if idx < 0 {
				return
			}
			out = append(out, idx)
			for _, r := range g.Snapshot.Hideout[idx].Requirements {
				if r.Kind == domain.RequirementModule {
					walk(r.Module)
				}
			}
		}
		walk(id)
		return out, nil
	}
	return nil, fmt.Errorf("%s entities have no prerequisites", kind)
}

// CompleteWithPrerequisites marks root and its whole closure complete. When
// root does not resolve nothing is changed. It returns the indices that
// actually changed status.
func (g Graph) CompleteWithPrerequisites(kind domain.EntityKind, root string) ([]int, error) {
	closure, err := g.RecursiveClose(kind, root)
	if err != nil {
		return nil, err
	}
	var changed []int
	for _, idx := range closure {
		if g.setStatus(kind, idx, domain.StatusComplete) {
			changed = append(changed, idx)
		}
	}
	return changed, nil
}

// SetCompletion sets exactly one quest or module status and reports whether
// it changed. Barters have no status; see ResetBarterProgress.
func (g Graph) SetCompletion(kind domain.EntityKind, root string, complete bool) (bool, error) {
	idx, err := g.index(kind, root)
	if err != nil {
		return false, err
	}
	status := domain.StatusIncomplete
	if complete {
		status = domain.StatusComplete
	}
	return g.setStatus(kind, idx, status), nil
}

// SetTracked flips the tracking flag of one quest or module.
func (g Graph) SetTracked(kind domain.EntityKind, root string, tracked bool) (bool, error) {
	idx, err := g.index(kind, root)
	if err != nil {
		return false, err
	}
	switch kind {
	case domain.KindQuest:
		q := &g.Snapshot.Quests[idx]
		if q.Tracked == tracked {
			return false, nil
		}
		q.Tracked = tracked
	case domain.KindModule:
		m := &g.Snapshot.Hideout[idx]
		if m.Tracked == tracked {
			return false, nil
		}
		m.Tracked = tracked
	}
	return true, nil
}

// ResetBarterProgress zeroes every counter of a barter and returns the number
// of units released.
func ResetBarterProgress(b *domain.BarterProgress) int {
	released := 0
	for i := range b.Require {
		released += b.Require[i].Have
		b.Require[i].Have = 0
	}
	return released
}

func (g Graph) index(kind domain.EntityKind, root string) (int, error) {
	switch kind {
	case domain.KindQuest:
		if i := g.Snapshot.QuestIndex(root); i >= 0 {
			return i, nil
		}
	case domain.KindModule:
		if id, err := strconv.Atoi(root); err == nil {
			if i := g.Snapshot.ModuleIndex(id); i >= 0 {
				return i, nil
			}
		}
	default:
		return -1, fmt.Errorf("%s entities have no completion status", kind)
	}
	return -1, &domain.NotFoundError{Kind: kind, Query: root}
}

func (g Graph) setStatus(kind domain.EntityKind, idx int, status domain.Status) bool {
	switch kind {
	case domain.KindQuest:
		if g.Snapshot.Quests[idx].Status == status {
			return false
		}
		g.Snapshot.Quests[idx].Status = status
	case domain.KindModule:
		if g.Snapshot.Hideout[idx].Status == status {
			return false
		}
		g.Snapshot.Hideout[idx].Status = status
	default:
		return false
	}
	return true
}
