package resolve

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stashline/internal/catalog"
	"stashline/internal/domain"
)

func newResolver(t *testing.T) Resolver {
	t.Helper()
	cat, err := catalog.New(catalog.Document{Items: []domain.Resource{
		{ID: domain.RoublesID, ShortName: "RUB", Name: "Roubles"},
		{ID: "ak", ShortName: "AK", Name: "Kalashnikov AK"},
		{ID: "ak74", ShortName: "AK-74", Name: "Kalashnikov AK-74"},
		{ID: "gpu", ShortName: "GPU", Name: "Graphics card"},
		{ID: "gpu2", ShortName: "Graphics card", Name: "Graphics card (damaged)"},
	}})
	require.NoError(t, err)
	snap := domain.NewSnapshot()
	snap.Quests = []domain.QuestProgress{
		{ID: "q1", Title: "Gunsmith - Part 1"},
		{ID: "q2", Title: "Gunsmith - Part 2"},
		{ID: "q3", Title: "Shortage"},
	}
	snap.Hideout = []domain.ModuleProgress{{ID: 1, Name: "Lavatory - Level 1"}}
	snap.Barters = []domain.BarterProgress{{ID: "b-1", Name: "Salewa swap"}}
	return Resolver{Catalog: cat, Snapshot: snap, Suggestions: 3}
}

func names(m Match) []string {
	var out []string
	for _, c := range m.Candidates {
		out = append(out, c.Name)
	}
	return out
}

func TestExactIgnoresCaseAndPunctuation(t *testing.T) {
	r := newResolver(t)
	m, err := r.Resolve(domain.KindQuest, "gunsmith part 1", Exact)
	require.NoError(t, err)
	require.Len(t, m.Candidates, 1)
	assert.Equal(t, "q1", m.Candidates[0].ID)
	assert.Equal(t, 0, m.Candidates[0].Index)

	m, err = r.Resolve(domain.KindModule, "LAVATORY LEVEL 1", Exact)
	require.NoError(t, err)
	assert.Equal(t, "1", m.Candidates[0].ID)
}

func TestExactItemMatchesShortAndFullName(t *testing.T) {
	r := newResolver(t)
	m, err := r.Resolve(domain.KindItem, "ak74", Exact)
	require.NoError(t, err)
	assert.Equal(t, []string{"Kalashnikov AK-74"}, names(m))

	m, err = r.Resolve(domain.KindItem, "kalashnikov ak", Exact)
	require.NoError(t, err)
	assert.Equal(t, "ak", m.Candidates[0].ID)
}

func TestExactAmbiguousItem(t *testing.T) {
	r := newResolver(t)
	_, err := r.Resolve(domain.KindItem, "graphics card", Exact)
	var amb *domain.AmbiguousError
	require.True(t, errors.As(err, &amb))
	require.Len(t, amb.Candidates, 2)
	assert.Equal(t, "gpu", amb.Candidates[0].ID)
	assert.Equal(t, "gpu2", amb.Candidates[1].ID)

	c, err := r.One(domain.KindItem, "graphics card", 2)
	require.NoError(t, err)
	assert.Equal(t, "gpu2", c.ID)
}

func TestContainsFindsEverySubstring(t *testing.T) {
	r := newResolver(t)
	m, err := r.Resolve(domain.KindItem, "ak", ContainsFuzzy)
	require.NoError(t, err)
	assert.Equal(t, []string{"Kalashnikov AK", "Kalashnikov AK-74"}, names(m))
}

func TestPrefix(t *testing.T) {
	r := newResolver(t)
	m, err := r.Resolve(domain.KindQuest, "gunsmith", PrefixFuzzy)
	require.NoError(t, err)
	assert.Equal(t, []string{"Gunsmith - Part 1", "Gunsmith - Part 2"}, names(m))

	_, err = r.Resolve(domain.KindQuest, "part", PrefixFuzzy)
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestNotFoundSuggests(t *testing.T) {
	r := newResolver(t)
	_, err := r.Resolve(domain.KindQuest, "shortgae", Exact)
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, []string{"Shortage"}, nf.Suggestions)
	assert.Contains(t, err.Error(), `did you mean "Shortage"`)
}

func TestReservedItemsNeverResolve(t *testing.T) {
	r := newResolver(t)
	_, err := r.Resolve(domain.KindItem, "roubles", Exact)
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestNameTaken(t *testing.T) {
	r := newResolver(t)
	kind, taken := r.NameTaken("shortage")
	assert.True(t, taken)
	assert.Equal(t, domain.KindQuest, kind)
	kind, taken = r.NameTaken("SALEWA  swap.")
	assert.True(t, taken)
	assert.Equal(t, domain.KindBarter, kind)
	_, taken = r.NameTaken("something new")
	assert.False(t, taken)
}

func TestNameTakenCoversUnmaterializedCatalog(t *testing.T) {
	cat, err := catalog.New(catalog.Document{
		Quests:  []domain.QuestTemplate{{ID: "q9", Title: "Debut"}},
		Hideout: []domain.ModuleTemplate{{ID: 7, Station: "Workbench", Level: 1}},
	})
	require.NoError(t, err)
	r := Resolver{Catalog: cat, Snapshot: domain.NewSnapshot()}

	kind, taken := r.NameTaken("DEBUT.")
	assert.True(t, taken)
	assert.Equal(t, domain.KindQuest, kind)
	kind, taken = r.NameTaken("workbench level 1")
	assert.True(t, taken)
	assert.Equal(t, domain.KindModule, kind)
	_, taken = r.NameTaken("Workbench level 2")
	assert.False(t, taken)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("contains")
	require.NoError(t, err)
	assert.Equal(t, ContainsFuzzy, m)
	_, err = ParseMode("regex")
	require.Error(t, err)
}
