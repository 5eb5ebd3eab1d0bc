// Package catalog loads the read-only reference data: items, traders, maps,
// quest templates and hideout module templates.
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"stashline/internal/domain"
)

//go:embed catalog.schema.json
var schemaJSON string

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return jsonschema.CompileString("catalog.schema.json", schemaJSON)
})

// Catalog is immutable after construction.
type Catalog struct {
	Version string
	Items   []domain.Resource
	Traders []domain.Trader
	Maps    []domain.Map
	Quests  []domain.QuestTemplate
	Hideout []domain.ModuleTemplate

	items   map[string]int
	traders map[string]int
	maps    map[string]int
	quests  map[string]int
	modules map[int]int
}

// Document is the decoded catalog file.
type Document struct {
	Version string                  `json:"version"`
	Items   []domain.Resource       `json:"items"`
	Traders []domain.Trader         `json:"traders"`
	Maps    []domain.Map            `json:"maps"`
	Quests  []domain.QuestTemplate  `json:"quests"`
	Hideout []domain.ModuleTemplate `json:"hideout"`
}

type rawObjective struct {
	Kind         domain.ObjectiveKind `json:"kind"`
	Target       json.RawMessage      `json:"target"`
	Quantity     int                  `json:"quantity"`
	Location     string               `json:"location"`
	Counterparty string               `json:"counterparty"`
	Description  string               `json:"description"`
}

type rawQuest struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Giver          string         `json:"giver"`
	RequiredQuests []string       `json:"requiredQuests"`
	RequiredLevel  int            `json:"requiredLevel"`
	KappaRequired  bool           `json:"kappaRequired"`
	Objectives     []rawObjective `json:"objectives"`
}

type rawDocument struct {
	Version string                  `json:"version"`
	Items   []domain.Resource       `json:"items"`
	Traders []domain.Trader         `json:"traders"`
	Maps    []domain.Map            `json:"maps"`
	Quests  []rawQuest              `json:"quests"`
	Hideout []domain.ModuleTemplate `json:"hideout"`
}

// Empty returns a catalog with no entries.
func Empty() *Catalog {
	c, _ := New(Document{})
	return c
}

// Load reads a catalog file. Files ending in .zst are zstd-compressed.
func Load(path string) (*Catalog, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// LoadOptional returns an empty catalog when the file does not exist.
func LoadOptional(path string) (*Catalog, bool, error) {
	c, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Empty(), false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return c, true, nil
}

func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if !strings.HasSuffix(path, ".zst") {
		return io.ReadAll(f)
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return io.ReadAll(dec)
}

// Parse validates raw JSON against the catalog schema and builds the indexes.
func Parse(data []byte) (*Catalog, error) {
	schema, err := compileSchema()
	if err != nil {
		return nil, fmt.Errorf("compile catalog schema: %w", err)
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("invalid catalog json: %w", err)
	}
	if err := schema.Validate(generic); err != nil {
		return nil, fmt.Errorf("catalog schema: %w", err)
	}
	var raw rawDocument
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	doc := Document{
		Version: raw.Version,
		Items:   raw.Items,
		Traders: raw.Traders,
		Maps:    raw.Maps,
		Hideout: raw.Hideout,
	}
	for _, rq := range raw.Quests {
		q := domain.QuestTemplate{
			ID:             rq.ID,
			Title:          rq.Title,
			Giver:          rq.Giver,
			RequiredQuests: rq.RequiredQuests,
			RequiredLevel:  rq.RequiredLevel,
			KappaRequired:  rq.KappaRequired,
		}
		for i, ro := range rq.Objectives {
			target, err := domain.ParseTarget(ro.Kind, ro.Target)
			if err != nil {
				return nil, fmt.Errorf("quest %s objective %d: %w", rq.ID, i, err)
			}
			qty := ro.Quantity
			if qty == 0 {
				qty = 1
			}
			q.Objectives = append(q.Objectives, domain.ObjectiveTemplate{
				Kind:         ro.Kind,
				Target:       target,
				Quantity:     qty,
				Location:     ro.Location,
				Counterparty: ro.Counterparty,
				Description:  ro.Description,
			})
		}
		doc.Quests = append(doc.Quests, q)
	}
	return New(doc)
}

// New indexes a document and checks its referential integrity.
func New(doc Document) (*Catalog, error) {
	c := &Catalog{
		Version: doc.Version,
		Items:   doc.Items,
		Traders: doc.Traders,
		Maps:    doc.Maps,
		Quests:  doc.Quests,
		Hideout: doc.Hideout,
		items:   make(map[string]int, len(doc.Items)),
		traders: make(map[string]int, len(doc.Traders)),
		maps:    make(map[string]int, len(doc.Maps)),
		quests:  make(map[string]int, len(doc.Quests)),
		modules: make(map[int]int, len(doc.Hideout)),
	}
	for i, it := range c.Items {
		if _, dup := c.items[it.ID]; dup {
			return nil, fmt.Errorf("duplicate item id %s", it.ID)
		}
		c.items[it.ID] = i
	}
	for i, t := range c.Traders {
		c.traders[t.ID] = i
	}
	for i, m := range c.Maps {
		c.maps[m.ID] = i
	}
	for i, q := range c.Quests {
		if _, dup := c.quests[q.ID]; dup {
			return nil, fmt.Errorf("duplicate quest id %s", q.ID)
		}
		c.quests[q.ID] = i
	}
	for i, m := range c.Hideout {
		if _, dup := c.modules[m.ID]; dup {
			return nil, fmt.Errorf("duplicate module id %d", m.ID)
		}
		c.modules[m.ID] = i
	}
	for _, q := range c.Quests {
		for _, req := range q.RequiredQuests {
			if _, ok := c.quests[req]; !ok {
				return nil, fmt.Errorf("quest %s requires unknown quest %s", q.ID, req)
			}
		}
		for i, o := range q.Objectives {
			if !o.Kind.Valid() {
				return nil, fmt.Errorf("quest %s objective %d: unknown kind %q", q.ID, i, o.Kind)
			}
			if o.Quantity < 1 {
				return nil, fmt.Errorf("quest %s objective %d: quantity must be positive", q.ID, i)
			}
		}
	}
	for _, m := range c.Hideout {
		for _, r := range m.Requirements {
			switch r.Kind {
			case domain.RequirementItem:
				if r.Item == "" {
					return nil, fmt.Errorf("module %s: item requirement without item", m.Name())
				}
			case domain.RequirementModule:
				if _, ok := c.modules[r.Module]; !ok {
					return nil, fmt.Errorf("module %s requires unknown module %d", m.Name(), r.Module)
				}
			default:
				return nil, fmt.Errorf("module %s: unknown requirement kind %q", m.Name(), r.Kind)
			}
			if r.Quantity < 1 {
				return nil, fmt.Errorf("module %s: quantity must be positive", m.Name())
			}
		}
	}
	return c, nil
}

// IsEmpty reports whether the catalog carries no templates.
func (c *Catalog) IsEmpty() bool {
	return len(c.Quests) == 0 && len(c.Hideout) == 0 && len(c.Items) == 0
}

func (c *Catalog) Item(id string) (domain.Resource, bool) {
	i, ok := c.items[id]
	if !ok {
		return domain.Resource{}, false
	}
	return c.Items[i], true
}

// ItemName returns the short name of an item, falling back to its id.
func (c *Catalog) ItemName(id string) string {
	if it, ok := c.Item(id); ok && it.ShortName != "" {
		return it.ShortName
	}
	return id
}

func (c *Catalog) Quest(id string) (domain.QuestTemplate, bool) {
	i, ok := c.quests[id]
	if !ok {
		return domain.QuestTemplate{}, false
	}
	return c.Quests[i], true
}

func (c *Catalog) Module(id int) (domain.ModuleTemplate, bool) {
	i, ok := c.modules[id]
	if !ok {
		return domain.ModuleTemplate{}, false
	}
	return c.Hideout[i], true
}

func (c *Catalog) Trader(id string) (domain.Trader, bool) {
	i, ok := c.traders[id]
	if !ok {
		return domain.Trader{}, false
	}
	return c.Traders[i], true
}

// TraderName falls back to the id for unknown traders.
func (c *Catalog) TraderName(id string) string {
	if t, ok := c.Trader(id); ok {
		return t.Name
	}
	return id
}

func (c *Catalog) Map(id string) (domain.Map, bool) {
	i, ok := c.maps[id]
	if !ok {
		return domain.Map{}, false
	}
	return c.Maps[i], true
}
