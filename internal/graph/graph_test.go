package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stashline/internal/catalog"
	"stashline/internal/domain"
)

func questChain(t *testing.T, edges map[string][]string, order ...string) Graph {
	t.Helper()
	var doc catalog.Document
	snap := domain.NewSnapshot()
	for _, id := range order {
		doc.Quests = append(doc.Quests, domain.QuestTemplate{ID: id, Title: "Quest " + id, RequiredQuests: edges[id]})
		snap.Quests = append(snap.Quests, domain.QuestProgress{ID: id, Title: "Quest " + id, Status: domain.StatusIncomplete, Tracked: true})
	}
	cat, err := catalog.New(doc)
	require.NoError(t, err)
	return Graph{Catalog: cat, Snapshot: snap}
}

func TestRecursiveClosePreOrder(t *testing.T) {
	g := questChain(t, map[string][]string{"a": {"b", "d"}, "b": {"c"}}, "c", "b", "a", "d")
	got, err := g.RecursiveClose(domain.KindQuest, "a")
	require.NoError(t, err)
	// a(2), b(1), c(0), d(3)
	assert.Equal(t, []int{2, 1, 0, 3}, got)
}

func TestRecursiveCloseTerminatesOnCycles(t *testing.T) {
	g := questChain(t, map[string][]string{"a": {"b"}, "b": {"c"}, "c": {"a"}}, "a", "b", "c")
	got, err := g.RecursiveClose(domain.KindQuest, "a")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, got)
}

func TestCompleteWithPrerequisites(t *testing.T) {
	g := questChain(t, map[string][]string{"a": {"b"}, "b": {"c"}}, "a", "b", "c")
	g.Snapshot.Quests[2].Status = domain.StatusComplete

	changed, err := g.CompleteWithPrerequisites(domain.KindQuest, "a")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, changed)
	for _, q := range g.Snapshot.Quests {
		assert.Equal(t, domain.StatusComplete, q.Status, q.ID)
	}

	changed, err = g.CompleteWithPrerequisites(domain.KindQuest, "a")
	require.NoError(t, err)
	assert.Empty(t, changed)
}

func TestCompleteUnknownRootMutatesNothing(t *testing.T) {
	g := questChain(t, map[string][]string{"a": {"b"}}, "a", "b")
	_, err := g.CompleteWithPrerequisites(domain.KindQuest, "zzz")
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	for _, q := range g.Snapshot.Quests {
		assert.Equal(t, domain.StatusIncomplete, q.Status)
	}
}

func TestIsEligible(t *testing.T) {
	g := questChain(t, map[string][]string{"a": {"b"}}, "a", "b")
	assert.False(t, g.IsEligible("a"))
	assert.True(t, g.IsEligible("b"))
	g.Snapshot.Quests[1].Status = domain.StatusComplete
	assert.True(t, g.IsEligible("a"))

	cat, err := catalog.New(catalog.Document{Quests: []domain.QuestTemplate{{ID: "lvl", Title: "L", RequiredLevel: 10}}})
	require.NoError(t, err)
	lg := Graph{Catalog: cat, Snapshot: &domain.Snapshot{Level: 9}}
	assert.False(t, lg.IsEligible("lvl"))
	lg.Snapshot.Level = 10
	assert.True(t, lg.IsEligible("lvl"))
	assert.False(t, lg.IsEligible("unknown"))
}

func modules() Graph {
	snap := domain.NewSnapshot()
	snap.Hideout = []domain.ModuleProgress{
		{ID: 1, Name: "Lavatory - Level 1", Status: domain.StatusIncomplete, Tracked: true},
		{ID: 2, Name: "Lavatory - Level 2", Status: domain.StatusIncomplete, Tracked: true, Requirements: []domain.RequirementProgress{
			{Kind: domain.RequirementModule, Module: 1, Quantity: 1},
			{Kind: domain.RequirementModule, Module: 3, Quantity: 1},
		}},
		{ID: 3, Name: "Vents - Level 1", Status: domain.StatusIncomplete, Tracked: true},
	}
	cat, _ := catalog.New(catalog.Document{})
	return Graph{Catalog: cat, Snapshot: snap}
}

func TestModuleClosureAndEligibility(t *testing.T) {
	g := modules()
	assert.False(t, g.ModuleEligible(2))
	got, err := g.RecursiveClose(domain.KindModule, "2")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0, 2}, got)

	_, err = g.CompleteWithPrerequisites(domain.KindModule, "2")
	require.NoError(t, err)
	assert.True(t, g.ModuleEligible(2))
}

func TestSetCompletionAndTracking(t *testing.T) {
	g := modules()
	changed, err := g.SetCompletion(domain.KindModule, "3", true)
	require.NoError(t, err)
	assert.True(t, changed)
	changed, err = g.SetCompletion(domain.KindModule, "3", true)
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = g.SetTracked(domain.KindModule, "1", false)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.False(t, g.Snapshot.Hideout[0].Tracked)

	_, err = g.SetCompletion(domain.KindBarter, "x", true)
	require.Error(t, err)
}

func TestResetBarterProgress(t *testing.T) {
	b := domain.BarterProgress{Require: []domain.RequirementProgress{
		{Kind: domain.RequirementItem, Item: "a", Quantity: 3, Have: 2},
		{Kind: domain.RequirementItem, Item: "b", Quantity: 1, Have: 1},
	}}
	assert.Equal(t, 3, ResetBarterProgress(&b))
	for _, r := range b.Require {
		assert.Zero(t, r.Have)
	}
}
