package domain

import (
	"fmt"
	"strings"
)

// Currency-like resources that never take part in requirement or allocation math.
const (
	RoublesID = "5449016a4bdc2d6f028b456f"
	DollarsID = "5696686a4bdc2da3298b456a"
	EurosID   = "569668774bdc2da2298b4568"
)

// IsReserved reports whether a resource id is excluded from tracking.
func IsReserved(id string) bool {
	switch id {
	case RoublesID, DollarsID, EurosID:
		return true
	}
	return false
}

type Resource struct {
	ID        string `json:"id"`
	ShortName string `json:"shortName"`
	Name      string `json:"name"`
}

type Trader struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Map struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ObjectiveKind string

const (
	ObjectiveFind    ObjectiveKind = "find"
	ObjectiveCollect ObjectiveKind = "collect"
	ObjectiveKill    ObjectiveKind = "kill"
	ObjectivePlace   ObjectiveKind = "place"
	ObjectiveOther   ObjectiveKind = "other"
)

// Valid reports whether k is a known objective kind.
func (k ObjectiveKind) Valid() bool {
	switch k {
	case ObjectiveFind, ObjectiveCollect, ObjectiveKill, ObjectivePlace, ObjectiveOther:
		return true
	}
	return false
}

// Countable reports whether objectives of this kind track a have counter.
func (k ObjectiveKind) Countable() bool {
	return k == ObjectiveFind || k == ObjectiveCollect
}

type ObjectiveTemplate struct {
	Kind         ObjectiveKind `json:"kind"`
	Target       Target        `json:"target"`
	Quantity     int           `json:"quantity"`
	Location     string        `json:"location,omitempty"`
	Counterparty string        `json:"counterparty,omitempty"`
	Description  string        `json:"description,omitempty"`
}

type QuestTemplate struct {
	ID             string              `json:"id"`
	Title          string              `json:"title"`
	Giver          string              `json:"giver"`
	RequiredQuests []string            `json:"requiredQuests,omitempty"`
	RequiredLevel  int                 `json:"requiredLevel"`
	KappaRequired  bool                `json:"kappaRequired"`
	Objectives     []ObjectiveTemplate `json:"objectives"`
}

// Locations returns the distinct map ids the quest's objectives point at.
func (q QuestTemplate) Locations() []string {
	var out []string
	seen := map[string]bool{}
	for _, o := range q.Objectives {
		if o.Location == "" || seen[o.Location] {
			continue
		}
		seen[o.Location] = true
		out = append(out, o.Location)
	}
	return out
}

type RequirementKind string

const (
	RequirementItem   RequirementKind = "item"
	RequirementModule RequirementKind = "module"
)

type RequirementTemplate struct {
	Kind     RequirementKind `json:"kind"`
	Item     string          `json:"item,omitempty"`
	Module   int             `json:"module,omitempty"`
	Quantity int             `json:"quantity"`
}

type ModuleTemplate struct {
	ID           int                   `json:"id"`
	Station      string                `json:"station"`
	Level        int                   `json:"level"`
	Requirements []RequirementTemplate `json:"requirements"`
}

// Name is the display and lookup name of a module level.
func (m ModuleTemplate) Name() string {
	return ModuleName(m.Station, m.Level)
}

// ModuleName formats "<station> - Level <n>".
func ModuleName(station string, level int) string {
	return fmt.Sprintf("%s - Level %d", station, level)
}

// EntityKind names the resolvable entity families.
type EntityKind string

const (
	KindQuest  EntityKind = "quest"
	KindModule EntityKind = "module"
	KindBarter EntityKind = "barter"
	KindItem   EntityKind = "item"
)

// ParseKind accepts the kind names and a few common aliases.
func ParseKind(s string) (EntityKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "quest", "quests", "task", "tasks":
		return KindQuest, nil
	case "module", "modules", "hideout", "station":
		return KindModule, nil
	case "barter", "barters", "trade", "trades":
		return KindBarter, nil
	case "item", "items", "resource", "resources":
		return KindItem, nil
	}
	return "", fmt.Errorf("unknown entity kind %q (quest, module, barter, item)", s)
}

// Scope selects which consumer families an operation covers.
type Scope string

const (
	ScopeQuests  Scope = "quests"
	ScopeHideout Scope = "hideout"
	ScopeBarters Scope = "barters"
	ScopeAll     Scope = "all"
)

// ParseScope maps user input onto a Scope; empty means all.
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return ScopeAll, nil
	case "quest", "quests":
		return ScopeQuests, nil
	case "hideout", "module", "modules":
		return ScopeHideout, nil
	case "barter", "barters":
		return ScopeBarters, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidScope, s)
}

// Covers reports whether the scope includes the given family.
func (s Scope) Covers(family Scope) bool {
	return s == ScopeAll || s == family
}

type Event struct {
	ID         int64  `json:"id"`
	TS         string `json:"ts"`
	Type       string `json:"type"`
	EntityKind string `json:"entity_kind"`
	EntityID   string `json:"entity_id,omitempty"`
	Payload    string `json:"payload_json"`
}
