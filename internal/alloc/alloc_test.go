package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stashline/internal/domain"
)

func questWith(id string, objs ...domain.ObjectiveProgress) domain.QuestProgress {
	return domain.QuestProgress{ID: id, Title: "Quest " + id, Status: domain.StatusIncomplete, Tracked: true, Objectives: objs}
}

func moduleWith(id int, reqs ...domain.RequirementProgress) domain.ModuleProgress {
	return domain.ModuleProgress{ID: id, Name: domain.ModuleName("Station", id), Status: domain.StatusIncomplete, Tracked: true, Requirements: reqs}
}

func item(id string, qty int) domain.RequirementProgress {
	return domain.RequirementProgress{Kind: domain.RequirementItem, Item: id, Quantity: qty}
}

func find(id string, qty int) domain.ObjectiveProgress {
	return domain.ObjectiveProgress{Kind: domain.ObjectiveFind, Target: domain.ItemTarget(id), Quantity: qty}
}

func collectObj(id string, qty int) domain.ObjectiveProgress {
	return domain.ObjectiveProgress{Kind: domain.ObjectiveCollect, Target: domain.ItemTarget(id), Quantity: qty}
}

func allHaves(s *domain.Snapshot) []int {
	var out []int
	for _, q := range s.Quests {
		for _, o := range q.Objectives {
			out = append(out, o.Have)
		}
	}
	for _, m := range s.Hideout {
		for _, r := range m.Requirements {
			out = append(out, r.Have)
		}
	}
	for _, b := range s.Barters {
		for _, r := range b.Require {
			out = append(out, r.Have)
		}
	}
	return out
}

func assertBounds(t *testing.T, s *domain.Snapshot) {
	t.Helper()
	require.NoError(t, s.Validate())
}

func TestPriorityFindBeforeModule(t *testing.T) {
	snap := domain.NewSnapshot()
	snap.Quests = append(snap.Quests, questWith("q", find("r", 2)))
	snap.Hideout = append(snap.Hideout, moduleWith(1, item("r", 3)))

	res, err := Apply(snap, "r", 4, true)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Applied)
	assert.Equal(t, 0, res.Remainder)
	assert.Equal(t, 2, snap.Quests[0].Objectives[0].Have)
	assert.Equal(t, 2, snap.Hideout[0].Requirements[0].Have)
	require.Len(t, res.Touched, 2)
	assert.Equal(t, domain.KindQuest, res.Touched[0].Kind)
	assertBounds(t, snap)
}

func TestFindSlotsRequireFoundInRaid(t *testing.T) {
	snap := domain.NewSnapshot()
	snap.Quests = append(snap.Quests, questWith("q", find("r", 2), collectObj("r", 1)))

	res, err := Apply(snap, "r", 3, false)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Applied)
	assert.Equal(t, 2, res.Remainder)
	assert.Equal(t, 0, snap.Quests[0].Objectives[0].Have)
	assert.Equal(t, 1, snap.Quests[0].Objectives[1].Have)
}

func TestTierOrderCollectModuleBarter(t *testing.T) {
	snap := domain.NewSnapshot()
	snap.Barters = append(snap.Barters, domain.BarterProgress{ID: "b", Name: "B", Require: []domain.RequirementProgress{item("r", 5)}})
	snap.Hideout = append(snap.Hideout, moduleWith(1, item("r", 1)), moduleWith(2, item("r", 1)))
	snap.Quests = append(snap.Quests, questWith("q", collectObj("r", 1)))

	res, err := Apply(snap, "r", 4, false)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Applied)
	assert.Equal(t, []int{1, 1, 1, 1}, allHaves(snap))
}

func TestConservation(t *testing.T) {
	for _, d := range []int{1, 3, 6, 7, 50} {
		snap := domain.NewSnapshot()
		snap.Quests = append(snap.Quests, questWith("q", find("r", 2), collectObj("r", 1)))
		snap.Hideout = append(snap.Hideout, moduleWith(1, item("r", 3)))
		capacity := Capacity(snap, "r", true, false)
		require.Equal(t, 6, capacity)

		res, err := Apply(snap, "r", d, true)
		require.NoError(t, err)
		assert.Equal(t, min(d, capacity), res.Applied, "delta %d", d)
		assert.Equal(t, d-res.Applied, res.Remainder, "delta %d", d)
		assertBounds(t, snap)
	}
}

func TestRetractionRestoresState(t *testing.T) {
	snap := domain.NewSnapshot()
	snap.Quests = append(snap.Quests, questWith("q", collectObj("r", 2)))
	snap.Hideout = append(snap.Hideout, moduleWith(1, item("r", 4)))
	snap.Hideout[0].Requirements[0].Have = 1
	before := allHaves(snap)

	res, err := Apply(snap, "r", 5, false)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Applied)

	res, err = Apply(snap, "r", -5, false)
	require.NoError(t, err)
	assert.Equal(t, -5, res.Applied)
	assert.Equal(t, 0, res.Remainder)
	assert.Equal(t, before, allHaves(snap))
}

func TestRetractionBeyondHeld(t *testing.T) {
	snap := domain.NewSnapshot()
	snap.Hideout = append(snap.Hideout, moduleWith(1, item("r", 4)))
	snap.Hideout[0].Requirements[0].Have = 2

	res, err := Apply(snap, "r", -5, false)
	require.NoError(t, err)
	assert.Equal(t, -2, res.Applied)
	assert.Equal(t, -3, res.Remainder)
	assert.Equal(t, 0, snap.Hideout[0].Requirements[0].Have)
}

func TestZeroDeltaAndSaturation(t *testing.T) {
	snap := domain.NewSnapshot()
	snap.Hideout = append(snap.Hideout, moduleWith(1, item("r", 1)))
	snap.Hideout[0].Requirements[0].Have = 1

	res, err := Apply(snap, "r", 0, true)
	require.NoError(t, err)
	assert.Zero(t, res.Applied)

	res, err = Apply(snap, "r", 2, false)
	require.NoError(t, err)
	assert.Zero(t, res.Applied)
	assert.Equal(t, 2, res.Remainder)
	assert.Empty(t, res.Touched)
}

func TestInactiveConsumersAreSkipped(t *testing.T) {
	snap := domain.NewSnapshot()
	done := questWith("done", collectObj("r", 3))
	done.Status = domain.StatusComplete
	untracked := questWith("untracked", collectObj("r", 3))
	untracked.Tracked = false
	snap.Quests = append(snap.Quests, done, untracked, questWith("live", collectObj("r", 3)))

	res, err := Apply(snap, "r", 5, false)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Applied)
	assert.Equal(t, []int{0, 0, 3}, allHaves(snap))
}

func TestAnyOfObjectiveAcceptsEachAlternative(t *testing.T) {
	snap := domain.NewSnapshot()
	snap.Quests = append(snap.Quests, questWith("q", domain.ObjectiveProgress{
		Kind: domain.ObjectiveCollect, Target: domain.AnyOfTarget("ak", "ak74"), Quantity: 1,
	}))
	res, err := Apply(snap, "ak74", 1, false)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Applied)
}

func TestReservedResource(t *testing.T) {
	_, err := Apply(domain.NewSnapshot(), domain.EurosID, 10, false)
	require.ErrorIs(t, err, domain.ErrReservedResource)
}
