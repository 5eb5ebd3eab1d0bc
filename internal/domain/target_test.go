package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTarget(t *testing.T) {
	tests := []struct {
		name string
		kind ObjectiveKind
		raw  string
		want Target
	}{
		{"item string", ObjectiveFind, `"gpu"`, ItemTarget("gpu")},
		{"kill label", ObjectiveKill, `"Scavs"`, LabelTarget("Scavs")},
		{"any of", ObjectiveCollect, `["a","b"]`, AnyOfTarget("a", "b")},
		{"single element list", ObjectiveCollect, `["a"]`, ItemTarget("a")},
		{"trader number", ObjectiveOther, `7`, TraderTarget("7")},
		{"trader object", ObjectiveOther, `{"trader":"prapor"}`, TraderTarget("prapor")},
		{"canonical", ObjectiveFind, `{"kind":"item","item":"x"}`, ItemTarget("x")},
		{"null", ObjectiveKill, `null`, Target{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTarget(tt.kind, json.RawMessage(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTargetRejectsUnknownObject(t *testing.T) {
	_, err := ParseTarget(ObjectiveFind, json.RawMessage(`{"what":1}`))
	require.Error(t, err)
}

func TestTargetIncludes(t *testing.T) {
	assert.True(t, ItemTarget("a").Includes("a"))
	assert.False(t, ItemTarget("a").Includes("b"))
	assert.True(t, AnyOfTarget("a", "b").Includes("b"))
	assert.False(t, TraderTarget("a").Includes("a"))
	assert.Equal(t, "any:a|b", AnyOfTarget("a", "b").Key())
}

func TestSnapshotValidate(t *testing.T) {
	s := NewSnapshot()
	s.Quests = append(s.Quests, QuestProgress{ID: "q", Objectives: []ObjectiveProgress{
		{Kind: ObjectiveCollect, Target: ItemTarget("a"), Quantity: 2, Have: 3},
	}})
	require.Error(t, s.Validate())
	s.Quests[0].Objectives[0].Have = 2
	require.NoError(t, s.Validate())
}

func TestAmbiguousChoose(t *testing.T) {
	err := &AmbiguousError{Query: "ak", Candidates: []Candidate{{Name: "AK"}, {Name: "AK-74"}}}
	c, cerr := err.Choose(2)
	require.NoError(t, cerr)
	assert.Equal(t, "AK-74", c.Name)
	_, cerr = err.Choose(3)
	require.Error(t, cerr)
	assert.Contains(t, err.Error(), "2) AK-74")
}
