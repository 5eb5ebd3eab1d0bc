// Package resolve maps free-text queries onto quests, modules, barters and items.
package resolve

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"stashline/internal/catalog"
	"stashline/internal/domain"
	"stashline/internal/normalize"
)

type Mode string

const (
	Exact         Mode = "exact"
	PrefixFuzzy   Mode = "prefix"
	ContainsFuzzy Mode = "contains"
)

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "exact":
		return Exact, nil
	case "prefix", "fuzzy":
		return PrefixFuzzy, nil
	case "contains", "substring", "deep":
		return ContainsFuzzy, nil
	}
	return "", fmt.Errorf("unknown search mode %q (exact, prefix, contains)", s)
}

// Match is the ordered result of a successful resolution.
type Match struct {
	Kind       domain.EntityKind  `json:"kind"`
	Query      string             `json:"query"`
	Mode       Mode               `json:"mode"`
	Candidates []domain.Candidate `json:"candidates"`
}

// Resolver reads the catalog and snapshot; it never mutates either.
type Resolver struct {
	Catalog     *catalog.Catalog
	Snapshot    *domain.Snapshot
	Suggestions int
}

type entry struct {
	cand  domain.Candidate
	names []string
}

// Resolve returns the entities of kind whose name matches query under mode.
// Exact mode yields one candidate or an *domain.AmbiguousError; every mode
// yields *domain.NotFoundError when nothing matches.
func (r Resolver) Resolve(kind domain.EntityKind, query string, mode Mode) (Match, error) {
	q := normalize.Name(query)
	if q == "" {
		return Match{}, &domain.NotFoundError{Kind: kind, Query: query}
	}
	entries, err := r.entries(kind)
	if err != nil {
		return Match{}, err
	}
	var found []domain.Candidate
	for _, e := range entries {
		for _, n := range e.names {
			if matches(n, q, mode) {
				found = append(found, e.cand)
				break
			}
		}
	}
	if len(found) == 0 {
		return Match{}, &domain.NotFoundError{Kind: kind, Query: query, Suggestions: suggest(entries, q, r.Suggestions)}
	}
	if mode == Exact && len(found) > 1 {
		return Match{}, &domain.AmbiguousError{Query: query, Candidates: found}
	}
	return Match{Kind: kind, Query: query, Mode: mode, Candidates: found}, nil
}

// One resolves an exact reference. A positive pick selects among ambiguous
// candidates (1-based); without a pick ambiguity is returned to the caller.
func (r Resolver) One(kind domain.EntityKind, query string, pick int) (domain.Candidate, error) {
	m, err := r.Resolve(kind, query, Exact)
	if err != nil {
		var amb *domain.AmbiguousError
		if pick > 0 && errors.As(err, &amb) {
			return amb.Choose(pick)
		}
		return domain.Candidate{}, err
	}
	return m.Candidates[0], nil
}

// NameTaken reports which quest, module or barter already uses name. Catalog
// quests and modules count even before a refresh materializes them.
func (r Resolver) NameTaken(name string) (domain.EntityKind, bool) {
	for _, kind := range []domain.EntityKind{domain.KindQuest, domain.KindModule, domain.KindBarter} {
		entries, _ := r.entries(kind)
		for _, e := range entries {
			if normalize.Equal(e.cand.Name, name) {
				return kind, true
			}
		}
	}
	if r.Catalog == nil {
		return "", false
	}
	for _, q := range r.Catalog.Quests {
		if normalize.Equal(q.Title, name) {
			return domain.KindQuest, true
		}
	}
	for _, m := range r.Catalog.Hideout {
		if normalize.Equal(m.Name(), name) {
			return domain.KindModule, true
		}
	}
	return "", false
}

func matches(name, q string, mode Mode) bool {
	switch mode {
	case PrefixFuzzy:
		return strings.HasPrefix(name, q)
	case ContainsFuzzy:
		return strings.Contains(name, q)
	}
	return name == q
}

func (r Resolver) entries(kind domain.EntityKind) ([]entry, error) {
	var out []entry
	switch kind {
	case domain.KindQuest:
		for i, q := range r.snapshot().Quests {
			out = append(out, entry{
				cand:  domain.Candidate{Kind: kind, ID: q.ID, Name: q.Title, Index: i},
				names: []string{normalize.Name(q.Title)},
			})
		}
	case domain.KindModule:
		for i, m := range r.snapshot().Hideout {
			out = append(out, entry{
				cand:  domain.Candidate{Kind: kind, ID: domain.ModuleRef(m.ID), Name: m.Name, Index: i},
				names: []string{normalize.Name(m.Name)},
			})
		}
	case domain.KindBarter:
		for i, b := range r.snapshot().Barters {
			out = append(out, entry{
				cand:  domain.Candidate{Kind: kind, ID: b.ID, Name: b.Name, Index: i},
				names: []string{normalize.Name(b.Name)},
			})
		}
	case domain.KindItem:
		if r.Catalog == nil {
			return nil, nil
		}
		for i, it := range r.Catalog.Items {
			if domain.IsReserved(it.ID) {
				continue
			}
			name := it.Name
			if name == "" {
				name = it.ShortName
			}
			out = append(out, entry{
				cand:  domain.Candidate{Kind: kind, ID: it.ID, Name: name, Index: i},
				names: []string{normalize.Name(it.ShortName), normalize.Name(it.Name)},
			})
		}
	default:
		return nil, fmt.Errorf("unknown entity kind %q", kind)
	}
	return out, nil
}

func (r Resolver) snapshot() *domain.Snapshot {
	if r.Snapshot == nil {
		return domain.NewSnapshot()
	}
	return r.Snapshot
}

// suggest ranks near misses by edit distance, using a limit that grows with
// the candidate's length.
func suggest(entries []entry, q string, limit int) []string {
	if limit <= 0 {
		return nil
	}
	type scored struct {
		name string
		dist int
	}
	var hits []scored
	seen := map[string]bool{}
	for _, e := range entries {
		best := -1
		for _, n := range e.names {
			if n == "" {
				continue
			}
			d := levenshtein.ComputeDistance(q, n)
			if d > distanceLimit(len(n)) {
				continue
			}
			if best < 0 || d < best {
				best = d
			}
		}
		if best < 0 || seen[e.cand.Name] {
			continue
		}
		seen[e.cand.Name] = true
		hits = append(hits, scored{name: e.cand.Name, dist: best})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].dist == hits[j].dist {
			return hits[i].name < hits[j].name
		}
		return hits[i].dist < hits[j].dist
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.name
	}
	return out
}

func distanceLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
