package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"stashline/internal/domain"
	"stashline/internal/events"
	"stashline/internal/normalize"
)

// ItemToken is one "<qty> <item>" or "<item>=<qty>" barter entry.
type ItemToken struct {
	Query    string
	Quantity int
}

// ParseItemToken splits a barter token into item text and quantity. A token
// without a quantity means one unit.
func ParseItemToken(text string) (ItemToken, error) {
	t := strings.TrimSpace(text)
	if t == "" {
		return ItemToken{}, &domain.InvalidQuantityError{Text: text}
	}
	if name, qty, ok := strings.Cut(t, "="); ok {
		n, err := ParseQuantity(qty)
		if err != nil || n == 0 {
			return ItemToken{}, &domain.InvalidQuantityError{Text: qty}
		}
		return ItemToken{Query: strings.TrimSpace(name), Quantity: n}, nil
	}
	if head, rest, ok := strings.Cut(t, " "); ok {
		if n, err := ParseQuantity(head); err == nil {
			if n == 0 {
				return ItemToken{}, &domain.InvalidQuantityError{Text: head}
			}
			return ItemToken{Query: strings.TrimSpace(rest), Quantity: n}, nil
		}
	}
	return ItemToken{Query: t, Quantity: 1}, nil
}

type BarterDefinition struct {
	Name    string
	Give    []string
	Receive []string
	// Pick maps an item query (compared under the normalizer) to the 1-based
	// candidate that resolves its ambiguity; other tokens must resolve exactly.
	Pick map[string]int
}

// DefineBarter adds a user-defined trade. Every item token must resolve
// exactly; any failure aborts the whole definition.
func (e Engine) DefineBarter(ctx context.Context, def BarterDefinition) (domain.BarterProgress, error) {
	name := strings.TrimSpace(def.Name)
	if normalize.Name(name) == "" {
		return domain.BarterProgress{}, domain.ErrEmptyName
	}
	if len(def.Give) == 0 {
		return domain.BarterProgress{}, fmt.Errorf("barter %q needs at least one item to give", name)
	}
	var out domain.BarterProgress
	err := e.mutate(ctx, func(snap *domain.Snapshot) (*change, error) {
		res := e.resolver(snap)
		if kind, taken := res.NameTaken(name); taken {
			return nil, &domain.DuplicateNameError{Name: name, Kind: kind}
		}
		b := domain.BarterProgress{
			ID:      uuid.NewSHA1(uuid.NameSpaceOID, []byte("barter|"+normalize.Name(name)+"|"+e.now().UTC().String())).String(),
			Name:    name,
			Require: []domain.RequirementProgress{},
			Receive: []domain.ReceiveEntry{},
		}
		for _, tok := range def.Give {
			id, qty, err := e.resolveToken(snap, tok, def.Pick)
			if err != nil {
				return nil, err
			}
			b.Require = append(b.Require, domain.RequirementProgress{Kind: domain.RequirementItem, Item: id, Quantity: qty})
		}
		for _, tok := range def.Receive {
			id, qty, err := e.resolveToken(snap, tok, def.Pick)
			if err != nil {
				return nil, err
			}
			b.Receive = append(b.Receive, domain.ReceiveEntry{Item: id, Quantity: qty})
		}
		snap.Barters = append(snap.Barters, b)
		out = b
		return &change{Type: events.BarterDefine, EntityKind: string(domain.KindBarter), EntityID: b.ID,
			Payload: events.EventPayload{"name": b.Name, "give": len(b.Require), "receive": len(b.Receive)}}, nil
	})
	if err != nil {
		return domain.BarterProgress{}, err
	}
	return out, nil
}

func (e Engine) resolveToken(snap *domain.Snapshot, text string, picks map[string]int) (string, int, error) {
	tok, err := ParseItemToken(text)
	if err != nil {
		return "", 0, err
	}
	pick := 0
	for q, n := range picks {
		if normalize.Equal(q, tok.Query) {
			pick = n
			break
		}
	}
	c, err := e.resolver(snap).One(domain.KindItem, tok.Query, pick)
	if err != nil {
		return "", 0, err
	}
	return c.ID, tok.Quantity, nil
}

// RemoveBarter deletes one barter and its progress.
func (e Engine) RemoveBarter(ctx context.Context, ref Ref) (domain.Candidate, error) {
	ref.Kind = domain.KindBarter
	var out domain.Candidate
	err := e.mutate(ctx, func(snap *domain.Snapshot) (*change, error) {
		c, err := e.lookup(snap, ref)
		if err != nil {
			return nil, err
		}
		snap.Barters = append(snap.Barters[:c.Index], snap.Barters[c.Index+1:]...)
		out = c
		return &change{Type: events.BarterRemove, EntityKind: string(domain.KindBarter), EntityID: c.ID,
			Payload: events.EventPayload{"name": c.Name}}, nil
	})
	return out, err
}
