package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"stashline/internal/domain"
)

func fixture() *domain.Snapshot {
	snap := domain.NewSnapshot()
	snap.Quests = []domain.QuestProgress{
		{ID: "q1", Title: "Active", Status: domain.StatusIncomplete, Tracked: true, Objectives: []domain.ObjectiveProgress{
			{Kind: domain.ObjectiveFind, Target: domain.ItemTarget("gpu"), Quantity: 2, Have: 1},
			{Kind: domain.ObjectiveCollect, Target: domain.ItemTarget("bolts"), Quantity: 4},
			{Kind: domain.ObjectiveCollect, Target: domain.AnyOfTarget("ak", "ak74"), Quantity: 1},
			{Kind: domain.ObjectiveKill, Target: domain.LabelTarget("Scavs"), Quantity: 5},
			{Kind: domain.ObjectiveCollect, Target: domain.ItemTarget(domain.RoublesID), Quantity: 1000},
		}},
		{ID: "q2", Title: "Done", Status: domain.StatusComplete, Tracked: true, Objectives: []domain.ObjectiveProgress{
			{Kind: domain.ObjectiveCollect, Target: domain.ItemTarget("bolts"), Quantity: 9},
		}},
		{ID: "q3", Title: "Untracked", Status: domain.StatusIncomplete, Tracked: false, Objectives: []domain.ObjectiveProgress{
			{Kind: domain.ObjectiveCollect, Target: domain.ItemTarget("bolts"), Quantity: 9},
		}},
	}
	snap.Hideout = []domain.ModuleProgress{
		{ID: 1, Name: "Lavatory - Level 1", Status: domain.StatusIncomplete, Tracked: true, Requirements: []domain.RequirementProgress{
			{Kind: domain.RequirementItem, Item: "bolts", Quantity: 3, Have: 1},
			{Kind: domain.RequirementModule, Module: 7, Quantity: 1},
			{Kind: domain.RequirementItem, Item: domain.DollarsID, Quantity: 100},
		}},
		{ID: 2, Name: "Lavatory - Level 2", Status: domain.StatusComplete, Tracked: true, Requirements: []domain.RequirementProgress{
			{Kind: domain.RequirementItem, Item: "gpu", Quantity: 5},
		}},
	}
	snap.Barters = []domain.BarterProgress{
		{ID: "b1", Name: "Swap", Require: []domain.RequirementProgress{
			{Kind: domain.RequirementItem, Item: "bolts", Quantity: 2},
		}},
	}
	return snap
}

func TestAggregateAll(t *testing.T) {
	needs := Aggregate(fixture(), domain.ScopeAll)
	assert.Equal(t, Need{Find: 1}, needs["gpu"])
	assert.Equal(t, Need{Collect: 4 + 2 + 2}, needs["bolts"])
	assert.Equal(t, Need{Collect: 1}, needs["ak"])
	assert.Equal(t, Need{Collect: 1}, needs["ak74"])
	assert.NotContains(t, needs, domain.RoublesID)
	assert.NotContains(t, needs, domain.DollarsID)
	assert.Equal(t, []string{"ak", "ak74", "bolts", "gpu"}, needs.IDs())
}

func TestAggregateScopes(t *testing.T) {
	snap := fixture()
	assert.Equal(t, Need{Collect: 4}, Aggregate(snap, domain.ScopeQuests)["bolts"])
	assert.Equal(t, Need{Collect: 2}, Aggregate(snap, domain.ScopeHideout)["bolts"])
	assert.Equal(t, Need{Collect: 2}, Aggregate(snap, domain.ScopeBarters)["bolts"])
	assert.NotContains(t, Aggregate(snap, domain.ScopeHideout), "gpu")
}

func TestAggregateScopesAreAdditive(t *testing.T) {
	snap := fixture()
	all := Aggregate(snap, domain.ScopeAll)
	for id, need := range all {
		var sum Need
		for _, s := range []domain.Scope{domain.ScopeQuests, domain.ScopeHideout, domain.ScopeBarters} {
			sum = sum.add(Aggregate(snap, s)[id])
		}
		assert.Equal(t, sum, need, id)
	}
}

func TestRequiringFilters(t *testing.T) {
	snap := fixture()
	qs := QuestsRequiring(snap, "bolts")
	if assert.Len(t, qs, 1) {
		assert.Equal(t, "q1", qs[0].ID)
		assert.Equal(t, Need{Collect: 4}, qs[0].Need)
	}
	assert.Len(t, QuestsRequiring(snap, "ak74"), 1)
	ms := ModulesRequiring(snap, "bolts")
	if assert.Len(t, ms, 1) {
		assert.Equal(t, "1", ms[0].ID)
		assert.Equal(t, 2, ms[0].Need.Collect)
	}
	assert.Empty(t, ModulesRequiring(snap, "gpu"))
	assert.Len(t, BartersRequiring(snap, "bolts"), 1)
	assert.Empty(t, QuestsRequiring(snap, domain.RoublesID))
}
