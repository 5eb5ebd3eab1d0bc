package engine

import (
	"context"
	"sort"
	"strings"

	"stashline/internal/aggregate"
	"stashline/internal/domain"
	"stashline/internal/normalize"
	"stashline/internal/repo"
	"stashline/internal/resolve"
)

type NeedRow struct {
	Item      string `json:"item"`
	ShortName string `json:"short_name"`
	Name      string `json:"name"`
	Find      int    `json:"find"`
	Collect   int    `json:"collect"`
	Total     int    `json:"total"`
}

// Needs aggregates the outstanding quantities of every item in scope,
// ordered by item name.
func (e Engine) Needs(ctx context.Context, scope domain.Scope) ([]NeedRow, error) {
	snap, err := e.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	needs := aggregate.Aggregate(snap, scope)
	rows := make([]NeedRow, 0, len(needs))
	for _, id := range needs.IDs() {
		n := needs[id]
		row := NeedRow{Item: id, ShortName: id, Name: id, Find: n.Find, Collect: n.Collect, Total: n.Total()}
		if it, ok := e.Catalog.Item(id); ok {
			row.ShortName = it.ShortName
			row.Name = it.Name
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return normalize.Name(rows[i].Name) < normalize.Name(rows[j].Name)
	})
	return rows, nil
}

// Resolve runs a read-only lookup.
func (e Engine) Resolve(ctx context.Context, kind domain.EntityKind, query string, mode resolve.Mode) (resolve.Match, error) {
	snap, err := e.LoadSnapshot(ctx)
	if err != nil {
		return resolve.Match{}, err
	}
	return e.resolver(snap).Resolve(kind, query, mode)
}

type Requirers struct {
	Item    domain.Candidate     `json:"item"`
	Quests  []aggregate.Consumer `json:"quests"`
	Modules []aggregate.Consumer `json:"modules"`
	Barters []aggregate.Consumer `json:"barters"`
}

// Requiring lists the active consumers still needing an item.
func (e Engine) Requiring(ctx context.Context, ref Ref) (Requirers, error) {
	snap, err := e.LoadSnapshot(ctx)
	if err != nil {
		return Requirers{}, err
	}
	ref.Kind = domain.KindItem
	c, err := e.lookup(snap, ref)
	if err != nil {
		return Requirers{}, err
	}
	return Requirers{
		Item:    c,
		Quests:  orEmpty(aggregate.QuestsRequiring(snap, c.ID)),
		Modules: orEmpty(aggregate.ModulesRequiring(snap, c.ID)),
		Barters: orEmpty(aggregate.BartersRequiring(snap, c.ID)),
	}, nil
}

func orEmpty(in []aggregate.Consumer) []aggregate.Consumer {
	if in == nil {
		return []aggregate.Consumer{}
	}
	return in
}

type QuestFilter struct {
	All       bool
	Available bool
	Kappa     bool
	Trader    string
	Map       string
}

type ObjectiveRow struct {
	Kind        domain.ObjectiveKind `json:"kind"`
	Target      string               `json:"target"`
	Have        int                  `json:"have"`
	Quantity    int                  `json:"quantity"`
	Location    string               `json:"location,omitempty"`
	Description string               `json:"description,omitempty"`
}

type QuestRow struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Giver      string         `json:"giver"`
	Status     domain.Status  `json:"status"`
	Tracked    bool           `json:"tracked"`
	Eligible   bool           `json:"eligible"`
	Kappa      bool           `json:"kappa"`
	Level      int            `json:"required_level"`
	Objectives []ObjectiveRow `json:"objectives"`
}

// ListQuests returns quest progress in snapshot order. Without All only
// active quests are listed.
func (e Engine) ListQuests(ctx context.Context, f QuestFilter) ([]QuestRow, error) {
	snap, err := e.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	g := e.graph(snap)
	trader := e.matchTrader(f.Trader)
	mapID := e.matchMap(f.Map)
	rows := []QuestRow{}
	for _, q := range snap.Quests {
		if !f.All && !q.Active() {
			continue
		}
		tmpl, _ := e.Catalog.Quest(q.ID)
		eligible := g.IsEligible(q.ID)
		if f.Available && !eligible {
			continue
		}
		if f.Kappa && !tmpl.KappaRequired {
			continue
		}
		if f.Trader != "" && tmpl.Giver != trader {
			continue
		}
		if f.Map != "" && !contains(tmpl.Locations(), mapID) {
			continue
		}
		row := QuestRow{
			ID:       q.ID,
			Title:    q.Title,
			Giver:    e.Catalog.TraderName(tmpl.Giver),
			Status:   q.Status,
			Tracked:  q.Tracked,
			Eligible: eligible,
			Kappa:    tmpl.KappaRequired,
			Level:    tmpl.RequiredLevel,
		}
		for i, o := range q.Objectives {
			obj := ObjectiveRow{Kind: o.Kind, Target: e.targetName(o.Target), Have: o.Have, Quantity: o.Quantity}
			if i < len(tmpl.Objectives) {
				obj.Location = tmpl.Objectives[i].Location
				obj.Description = tmpl.Objectives[i].Description
			}
			row.Objectives = append(row.Objectives, obj)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

type RequirementRow struct {
	Kind     domain.RequirementKind `json:"kind"`
	Target   string                 `json:"target"`
	Have     int                    `json:"have"`
	Quantity int                    `json:"quantity"`
}

type ModuleRow struct {
	ID           int              `json:"id"`
	Name         string           `json:"name"`
	Status       domain.Status    `json:"status"`
	Tracked      bool             `json:"tracked"`
	Eligible     bool             `json:"eligible"`
	Requirements []RequirementRow `json:"requirements"`
}

// ListHideout returns module progress; without all only active modules.
func (e Engine) ListHideout(ctx context.Context, all bool) ([]ModuleRow, error) {
	snap, err := e.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	g := e.graph(snap)
	rows := []ModuleRow{}
	for _, m := range snap.Hideout {
		if !all && !m.Active() {
			continue
		}
		row := ModuleRow{ID: m.ID, Name: m.Name, Status: m.Status, Tracked: m.Tracked, Eligible: g.ModuleEligible(m.ID)}
		row.Requirements = e.requirementRows(snap, m.Requirements)
		rows = append(rows, row)
	}
	return rows, nil
}

type BarterRow struct {
	ID      string           `json:"id"`
	Name    string           `json:"name"`
	Give    []RequirementRow `json:"give"`
	Receive []RequirementRow `json:"receive"`
}

func (e Engine) ListBarters(ctx context.Context) ([]BarterRow, error) {
	snap, err := e.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	rows := []BarterRow{}
	for _, b := range snap.Barters {
		row := BarterRow{ID: b.ID, Name: b.Name, Give: e.requirementRows(snap, b.Require), Receive: []RequirementRow{}}
		for _, r := range b.Receive {
			row.Receive = append(row.Receive, RequirementRow{Kind: domain.RequirementItem, Target: e.Catalog.ItemName(r.Item), Quantity: r.Quantity})
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// RecentEvents returns recent journal rows, newest first.
func (e Engine) RecentEvents(ctx context.Context, f repo.EventFilters) ([]domain.Event, error) {
	return e.Repo.LatestEvents(ctx, f)
}

type Status struct {
	CatalogVersion string `json:"catalog_version"`
	Level          int    `json:"level"`
	Quests         int    `json:"quests"`
	QuestsDone     int    `json:"quests_complete"`
	Modules        int    `json:"modules"`
	ModulesDone    int    `json:"modules_complete"`
	Barters        int    `json:"barters"`
	UpdatedAt      string `json:"updated_at"`
	Events         int    `json:"events"`
}

// Status summarizes the workspace.
func (e Engine) Status(ctx context.Context) (Status, error) {
	snap, err := e.LoadSnapshot(ctx)
	if err != nil {
		return Status{}, err
	}
	st := Status{
		CatalogVersion: e.Catalog.Version,
		Level:          snap.Level,
		Quests:         len(snap.Quests),
		Modules:        len(snap.Hideout),
		Barters:        len(snap.Barters),
	}
	for _, q := range snap.Quests {
		if q.Status == domain.StatusComplete {
			st.QuestsDone++
		}
	}
	for _, m := range snap.Hideout {
		if m.Status == domain.StatusComplete {
			st.ModulesDone++
		}
	}
	if st.UpdatedAt, err = e.Repo.SnapshotUpdatedAt(ctx); err != nil {
		return Status{}, err
	}
	if st.Events, err = e.Repo.CountEvents(ctx); err != nil {
		return Status{}, err
	}
	return st, nil
}

func (e Engine) requirementRows(snap *domain.Snapshot, reqs []domain.RequirementProgress) []RequirementRow {
	out := []RequirementRow{}
	for _, r := range reqs {
		row := RequirementRow{Kind: r.Kind, Have: r.Have, Quantity: r.Quantity}
		if r.Kind == domain.RequirementModule {
			row.Target = domain.ModuleRef(r.Module)
			if i := snap.ModuleIndex(r.Module); i >= 0 {
				row.Target = snap.Hideout[i].Name
			} else if m, ok := e.Catalog.Module(r.Module); ok {
				row.Target = m.Name()
			}
		} else {
			row.Target = e.Catalog.ItemName(r.Item)
		}
		out = append(out, row)
	}
	return out
}

func (e Engine) targetName(t domain.Target) string {
	switch t.Kind {
	case domain.TargetItem:
		return e.Catalog.ItemName(t.Item)
	case domain.TargetAnyOf:
		names := make([]string, len(t.AnyOf))
		for i, id := range t.AnyOf {
			names[i] = e.Catalog.ItemName(id)
		}
		return strings.Join(names, " | ")
	case domain.TargetTrader:
		return e.Catalog.TraderName(t.Trader)
	}
	return t.Label
}

// matchTrader accepts a trader id or a name under the normalizer.
func (e Engine) matchTrader(q string) string {
	if _, ok := e.Catalog.Trader(q); ok {
		return q
	}
	for _, t := range e.Catalog.Traders {
		if normalize.Equal(t.Name, q) {
			return t.ID
		}
	}
	return q
}

func (e Engine) matchMap(q string) string {
	if _, ok := e.Catalog.Map(q); ok {
		return q
	}
	for _, m := range e.Catalog.Maps {
		if normalize.Equal(m.Name, q) {
			return m.ID
		}
	}
	return q
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
