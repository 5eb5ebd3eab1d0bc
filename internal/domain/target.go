package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

type TargetKind string

const (
	TargetNone   TargetKind = ""
	TargetItem   TargetKind = "item"
	TargetAnyOf  TargetKind = "any_of"
	TargetTrader TargetKind = "trader"
	TargetLabel  TargetKind = "label"
)

// Target is what an objective points at. Exactly one payload field is set,
// selected by Kind.
type Target struct {
	Kind   TargetKind `json:"kind,omitempty"`
	Item   string     `json:"item,omitempty"`
	AnyOf  []string   `json:"any_of,omitempty"`
	Trader string     `json:"trader,omitempty"`
	Label  string     `json:"label,omitempty"`
}

func ItemTarget(id string) Target { return Target{Kind: TargetItem, Item: id} }

// AnyOfTarget collapses to an item target when only one id is given.
func AnyOfTarget(ids ...string) Target {
	if len(ids) == 1 {
		return ItemTarget(ids[0])
	}
	return Target{Kind: TargetAnyOf, AnyOf: slices.Clone(ids)}
}

func TraderTarget(id string) Target { return Target{Kind: TargetTrader, Trader: id} }

func LabelTarget(text string) Target { return Target{Kind: TargetLabel, Label: text} }

// Includes reports whether the target accepts the given resource.
func (t Target) Includes(resourceID string) bool {
	switch t.Kind {
	case TargetItem:
		return t.Item == resourceID
	case TargetAnyOf:
		return slices.Contains(t.AnyOf, resourceID)
	}
	return false
}

// Items returns the resource ids the target accepts.
func (t Target) Items() []string {
	switch t.Kind {
	case TargetItem:
		return []string{t.Item}
	case TargetAnyOf:
		return slices.Clone(t.AnyOf)
	}
	return nil
}

// Key is a stable identity used to pair objectives across template refreshes.
func (t Target) Key() string {
	switch t.Kind {
	case TargetItem:
		return "item:" + t.Item
	case TargetAnyOf:
		return "any:" + strings.Join(t.AnyOf, "|")
	case TargetTrader:
		return "trader:" + t.Trader
	case TargetLabel:
		return "label:" + t.Label
	}
	return ""
}

// ParseTarget resolves a raw catalog target into a Target. Raw targets are a
// string (item id, or free text for kill/other objectives), an array of item
// ids, a number or {"trader": id} object for traders, or the canonical form.
func ParseTarget(kind ObjectiveKind, raw json.RawMessage) (Target, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Target{}, nil
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Target{}, err
		}
		switch kind {
		case ObjectiveFind, ObjectiveCollect, ObjectivePlace:
			return ItemTarget(s), nil
		}
		return LabelTarget(s), nil
	case '[':
		var ids []string
		if err := json.Unmarshal(raw, &ids); err != nil {
			return Target{}, fmt.Errorf("target list: %w", err)
		}
		if len(ids) == 0 {
			return Target{}, nil
		}
		return AnyOfTarget(ids...), nil
	case '{':
		var obj struct {
			Kind   TargetKind      `json:"kind"`
			Item   string          `json:"item"`
			AnyOf  []string        `json:"any_of"`
			Trader json.RawMessage `json:"trader"`
			Label  string          `json:"label"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return Target{}, fmt.Errorf("target object: %w", err)
		}
		switch {
		case obj.Kind == TargetItem:
			return ItemTarget(obj.Item), nil
		case obj.Kind == TargetAnyOf:
			return AnyOfTarget(obj.AnyOf...), nil
		case obj.Kind == TargetLabel:
			return LabelTarget(obj.Label), nil
		case len(obj.Trader) > 0:
			id, err := traderID(obj.Trader)
			if err != nil {
				return Target{}, err
			}
			return TraderTarget(id), nil
		}
		return Target{}, fmt.Errorf("unrecognized target %s", raw)
	default:
		id, err := traderID(raw)
		if err != nil {
			return Target{}, err
		}
		return TraderTarget(id), nil
	}
}

// traderID accepts a trader reference given as a JSON string or number.
func traderID(raw json.RawMessage) (string, error) {
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("trader: %w", err)
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("trader: %w", err)
	}
	return n.String(), nil
}
