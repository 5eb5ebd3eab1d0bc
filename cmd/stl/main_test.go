package main

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stashline/internal/domain"
	"stashline/internal/engine"
)

func TestErrorKind(t *testing.T) {
	cases := map[string]error{
		"not_found":        &domain.NotFoundError{Kind: domain.KindItem, Query: "x"},
		"ambiguous":        fmt.Errorf("wrapped: %w", &domain.AmbiguousError{Query: "x"}),
		"invalid_quantity": &domain.InvalidQuantityError{Text: "x"},
		"duplicate_name":   &domain.DuplicateNameError{Name: "x", Kind: domain.KindQuest},
		"empty_name":       domain.ErrEmptyName,
		"nothing_to_do":    domain.ErrNothingToDo,
		"empty_catalog":    engine.ErrEmptyCatalog,
		"error":            fmt.Errorf("boom"),
	}
	for want, err := range cases {
		assert.Equal(t, want, errorKind(err))
	}
}

func TestRefFromArgs(t *testing.T) {
	ref, err := refFromArgs([]string{"quests", "Gunsmith", "-", "Part", "1"}, 2)
	require.NoError(t, err)
	assert.Equal(t, engine.Ref{Kind: domain.KindQuest, Query: "Gunsmith - Part 1", Pick: 2}, ref)

	_, err = refFromArgs([]string{"weapon", "AK"}, 0)
	assert.Error(t, err)
}

func TestParseItemPicks(t *testing.T) {
	picks, err := parseItemPicks([]string{"Graphics card=2", "a=b=1"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Graphics card": 2, "a=b": 1}, picks)

	picks, err = parseItemPicks(nil)
	require.NoError(t, err)
	assert.Nil(t, picks)

	for _, bad := range []string{"Graphics card", "=2", "GPU=0", "GPU=x"} {
		_, err := parseItemPicks([]string{bad})
		assert.Error(t, err, bad)
	}
}
