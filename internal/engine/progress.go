package engine

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"stashline/internal/domain"
	"stashline/internal/events"
	"stashline/internal/graph"
)

// StatusResult reports a completion or tracking change.
type StatusResult struct {
	Kind    domain.EntityKind  `json:"kind"`
	ID      string             `json:"id"`
	Name    string             `json:"name"`
	Status  domain.Status      `json:"status,omitempty"`
	Tracked *bool              `json:"tracked,omitempty"`
	Changed []domain.Candidate `json:"changed"`
}

// Complete marks one quest or module complete.
func (e Engine) Complete(ctx context.Context, ref Ref) (StatusResult, error) {
	return e.setCompletion(ctx, ref, true)
}

// Incomplete reopens one quest or module.
func (e Engine) Incomplete(ctx context.Context, ref Ref) (StatusResult, error) {
	return e.setCompletion(ctx, ref, false)
}

func (e Engine) setCompletion(ctx context.Context, ref Ref, complete bool) (StatusResult, error) {
	if ref.Kind == domain.KindBarter {
		return StatusResult{}, fmt.Errorf("barters have no status; reset their progress instead")
	}
	var res StatusResult
	err := e.mutate(ctx, func(snap *domain.Snapshot) (*change, error) {
		c, err := e.lookup(snap, ref)
		if err != nil {
			return nil, err
		}
		changed, err := e.graph(snap).SetCompletion(c.Kind, c.ID, complete)
		if err != nil {
			return nil, err
		}
		res = StatusResult{Kind: c.Kind, ID: c.ID, Name: c.Name, Status: statusOf(snap, c), Changed: []domain.Candidate{}}
		if !changed {
			return nil, nil
		}
		res.Changed = append(res.Changed, c)
		return &change{Type: events.StatusChange, EntityKind: string(c.Kind), EntityID: c.ID,
			Payload: events.EventPayload{"status": res.Status}}, nil
	})
	return res, err
}

// CompleteRecursive completes an entity and every transitive prerequisite.
// Entities already complete are left alone.
func (e Engine) CompleteRecursive(ctx context.Context, ref Ref) (StatusResult, error) {
	var res StatusResult
	err := e.mutate(ctx, func(snap *domain.Snapshot) (*change, error) {
		c, err := e.lookup(snap, ref)
		if err != nil {
			return nil, err
		}
		idx, err := e.graph(snap).CompleteWithPrerequisites(c.Kind, c.ID)
		if err != nil {
			return nil, err
		}
		res = StatusResult{Kind: c.Kind, ID: c.ID, Name: c.Name, Status: domain.StatusComplete, Changed: []domain.Candidate{}}
		for _, i := range idx {
			res.Changed = append(res.Changed, candidateAt(snap, c.Kind, i))
		}
		if len(idx) == 0 {
			return nil, nil
		}
		ids := make([]string, len(res.Changed))
		for i, ch := range res.Changed {
			ids[i] = ch.ID
		}
		return &change{Type: events.StatusRecursive, EntityKind: string(c.Kind), EntityID: c.ID,
			Payload: events.EventPayload{"completed": ids}}, nil
	})
	return res, err
}

// Track includes a quest or module in aggregation and allocation again.
func (e Engine) Track(ctx context.Context, ref Ref) (StatusResult, error) {
	return e.setTracked(ctx, ref, true)
}

// Untrack excludes a quest or module from aggregation and allocation.
func (e Engine) Untrack(ctx context.Context, ref Ref) (StatusResult, error) {
	return e.setTracked(ctx, ref, false)
}

func (e Engine) setTracked(ctx context.Context, ref Ref, tracked bool) (StatusResult, error) {
	if ref.Kind == domain.KindBarter {
		return StatusResult{}, fmt.Errorf("barters are always tracked; remove the barter instead")
	}
	var res StatusResult
	err := e.mutate(ctx, func(snap *domain.Snapshot) (*change, error) {
		c, err := e.lookup(snap, ref)
		if err != nil {
			return nil, err
		}
		changed, err := e.graph(snap).SetTracked(c.Kind, c.ID, tracked)
		if err != nil {
			return nil, err
		}
		res = StatusResult{Kind: c.Kind, ID: c.ID, Name: c.Name, Tracked: &tracked, Changed: []domain.Candidate{}}
		if !changed {
			return nil, nil
		}
		res.Changed = append(res.Changed, c)
		return &change{Type: events.TrackChange, EntityKind: string(c.Kind), EntityID: c.ID,
			Payload: events.EventPayload{"tracked": tracked}}, nil
	})
	return res, err
}

// BarterResetResult reports the units released by ResetBarterProgress.
type BarterResetResult struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Released int    `json:"released"`
}

// ResetBarterProgress zeroes the counters of one barter. A barter with
// nothing collected yields domain.ErrNothingToDo.
func (e Engine) ResetBarterProgress(ctx context.Context, ref Ref) (BarterResetResult, error) {
	ref.Kind = domain.KindBarter
	var res BarterResetResult
	err := e.mutate(ctx, func(snap *domain.Snapshot) (*change, error) {
		c, err := e.lookup(snap, ref)
		if err != nil {
			return nil, err
		}
		b := &snap.Barters[c.Index]
		res = BarterResetResult{ID: b.ID, Name: b.Name, Released: graph.ResetBarterProgress(b)}
		if res.Released == 0 {
			return nil, domain.ErrNothingToDo
		}
		return &change{Type: events.BarterReset, EntityKind: string(domain.KindBarter), EntityID: b.ID,
			Payload: events.EventPayload{"released": res.Released}}, nil
	})
	return res, err
}

type LevelResult struct {
	Previous int `json:"previous"`
	Level    int `json:"level"`
}

// SetLevel sets the player level. "+n" and "-n" adjust it relative to the
// current value; anything else is an absolute level.
func (e Engine) SetLevel(ctx context.Context, text string) (LevelResult, error) {
	text = strings.TrimSpace(text)
	relative := strings.HasPrefix(text, "+") || strings.HasPrefix(text, "-")
	n, err := strconv.Atoi(text)
	if err != nil {
		return LevelResult{}, &domain.InvalidQuantityError{Text: text}
	}
	var res LevelResult
	err = e.mutate(ctx, func(snap *domain.Snapshot) (*change, error) {
		res.Previous = snap.Level
		res.Level = n
		if relative {
			res.Level = snap.Level + n
		}
		if res.Level < 0 {
			return nil, fmt.Errorf("level cannot be negative (got %d)", res.Level)
		}
		if res.Level == snap.Level {
			return nil, nil
		}
		snap.Level = res.Level
		return &change{Type: events.LevelChange, EntityKind: "snapshot",
			Payload: events.EventPayload{"previous": res.Previous, "level": res.Level}}, nil
	})
	return res, err
}

func statusOf(snap *domain.Snapshot, c domain.Candidate) domain.Status {
	switch c.Kind {
	case domain.KindQuest:
		return snap.Quests[c.Index].Status
	case domain.KindModule:
		return snap.Hideout[c.Index].Status
	}
	return ""
}

func candidateAt(snap *domain.Snapshot, kind domain.EntityKind, idx int) domain.Candidate {
	switch kind {
	case domain.KindQuest:
		q := snap.Quests[idx]
		return domain.Candidate{Kind: kind, ID: q.ID, Name: q.Title, Index: idx}
	case domain.KindModule:
		m := snap.Hideout[idx]
		return domain.Candidate{Kind: kind, ID: domain.ModuleRef(m.ID), Name: m.Name, Index: idx}
	}
	return domain.Candidate{Kind: kind, Index: idx}
}
