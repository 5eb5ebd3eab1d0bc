package domain

import (
	"fmt"
	"strconv"
)

type Status string

const (
	StatusIncomplete Status = "incomplete"
	StatusComplete   Status = "complete"
)

type ObjectiveProgress struct {
	Kind     ObjectiveKind `json:"kind"`
	Target   Target        `json:"target"`
	Quantity int           `json:"quantity"`
	Have     int           `json:"have,omitempty"`
}

// Remaining is the outstanding quantity for countable objectives, else zero.
func (o ObjectiveProgress) Remaining() int {
	if !o.Kind.Countable() {
		return 0
	}
	return o.Quantity - o.Have
}

type QuestProgress struct {
	ID         string              `json:"id"`
	Title      string              `json:"title"`
	Status     Status              `json:"status"`
	Tracked    bool                `json:"tracked"`
	Objectives []ObjectiveProgress `json:"objectives"`
}

// Active quests take part in aggregation and allocation.
func (q QuestProgress) Active() bool {
	return q.Status == StatusIncomplete && q.Tracked
}

type RequirementProgress struct {
	Kind     RequirementKind `json:"kind"`
	Item     string          `json:"item,omitempty"`
	Module   int             `json:"module,omitempty"`
	Quantity int             `json:"quantity"`
	Have     int             `json:"have"`
}

// Remaining is the outstanding item quantity; module requirements report zero.
func (r RequirementProgress) Remaining() int {
	if r.Kind != RequirementItem {
		return 0
	}
	return r.Quantity - r.Have
}

type ModuleProgress struct {
	ID           int                   `json:"id"`
	Name         string                `json:"name"`
	Station      string                `json:"station"`
	Level        int                   `json:"level"`
	Status       Status                `json:"status"`
	Tracked      bool                  `json:"tracked"`
	Requirements []RequirementProgress `json:"require"`
}

func (m ModuleProgress) Active() bool {
	return m.Status == StatusIncomplete && m.Tracked
}

type ReceiveEntry struct {
	Item     string `json:"item"`
	Quantity int    `json:"quantity"`
}

// BarterProgress is a user-defined trade. Barters live in their own id
// namespace; the name is only for display and lookup.
type BarterProgress struct {
	ID      string                `json:"id"`
	Name    string                `json:"name"`
	Require []RequirementProgress `json:"require"`
	Receive []ReceiveEntry        `json:"receive"`
}

// Snapshot is the whole mutable progress state of one user.
type Snapshot struct {
	Quests  []QuestProgress  `json:"quests"`
	Hideout []ModuleProgress `json:"hideout"`
	Barters []BarterProgress `json:"barters"`
	Level   int              `json:"level"`
}

// NewSnapshot returns the empty snapshot written on first use.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Quests:  []QuestProgress{},
		Hideout: []ModuleProgress{},
		Barters: []BarterProgress{},
	}
}

// Normalize replaces nil slices so the persisted document always carries arrays.
func (s *Snapshot) Normalize() {
	if s.Quests == nil {
		s.Quests = []QuestProgress{}
	}
	if s.Hideout == nil {
		s.Hideout = []ModuleProgress{}
	}
	if s.Barters == nil {
		s.Barters = []BarterProgress{}
	}
}

func (s *Snapshot) QuestIndex(id string) int {
	for i := range s.Quests {
		if s.Quests[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Snapshot) ModuleIndex(id int) int {
	for i := range s.Hideout {
		if s.Hideout[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Snapshot) BarterIndex(id string) int {
	for i := range s.Barters {
		if s.Barters[i].ID == id {
			return i
		}
	}
	return -1
}

// Validate checks the have bounds of every counter and the level.
func (s *Snapshot) Validate() error {
	if s.Level < 0 {
		return fmt.Errorf("level %d is negative", s.Level)
	}
	for _, q := range s.Quests {
		for i, o := range q.Objectives {
			if o.Have < 0 || o.Have > o.Quantity {
				return fmt.Errorf("quest %s objective %d: have %d outside [0,%d]", q.ID, i, o.Have, o.Quantity)
			}
			if o.Have != 0 && !o.Kind.Countable() {
				return fmt.Errorf("quest %s objective %d: %s objectives have no counter", q.ID, i, o.Kind)
			}
		}
	}
	for _, m := range s.Hideout {
		if err := validateRequirements(m.Name, m.Requirements); err != nil {
			return err
		}
	}
	for _, b := range s.Barters {
		if b.Name == "" {
			return fmt.Errorf("barter %s has no name", b.ID)
		}
		if err := validateRequirements(b.Name, b.Require); err != nil {
			return err
		}
	}
	return nil
}

func validateRequirements(owner string, reqs []RequirementProgress) error {
	for i, r := range reqs {
		if r.Have < 0 || r.Have > r.Quantity {
			return fmt.Errorf("%s requirement %d: have %d outside [0,%d]", owner, i, r.Have, r.Quantity)
		}
	}
	return nil
}

// ModuleRef renders a module id the way events and results carry entity ids.
func ModuleRef(id int) string {
	return strconv.Itoa(id)
}
