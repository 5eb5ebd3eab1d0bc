package engine

import (
	"context"
	"strconv"
	"strings"

	"stashline/internal/alloc"
	"stashline/internal/domain"
	"stashline/internal/events"
)

// ParseQuantity accepts "3", "x3" and "3x".
func ParseQuantity(text string) (int, error) {
	t := strings.ToLower(strings.TrimSpace(text))
	t = strings.TrimSuffix(strings.TrimPrefix(t, "x"), "x")
	n, err := strconv.Atoi(t)
	if err != nil || n < 0 || strings.HasPrefix(t, "+") {
		return 0, &domain.InvalidQuantityError{Text: text}
	}
	return n, nil
}

type AllocateOptions struct {
	Item        Ref
	Quantity    string
	FoundInRaid bool
	Retract     bool
}

type AllocateResult struct {
	alloc.Result
	Item        domain.Candidate `json:"item"`
	FoundInRaid bool             `json:"found_in_raid"`
	// Open is what active consumers can still take after the allocation,
	// or still hold after a retraction.
	Open int `json:"open"`
}

// Allocate distributes a collected (or retracted) quantity of one item
// across its consumers. A zero-effect allocation returns
// domain.ErrNothingToDo and writes nothing.
func (e Engine) Allocate(ctx context.Context, opts AllocateOptions) (AllocateResult, error) {
	qty, err := ParseQuantity(opts.Quantity)
	if err != nil {
		return AllocateResult{}, err
	}
	delta := qty
	if opts.Retract {
		delta = -qty
	}
	opts.Item.Kind = domain.KindItem
	var res AllocateResult
	err = e.mutate(ctx, func(snap *domain.Snapshot) (*change, error) {
		c, err := e.lookup(snap, opts.Item)
		if err != nil {
			return nil, err
		}
		r, err := alloc.Apply(snap, c.ID, delta, opts.FoundInRaid)
		if err != nil {
			return nil, err
		}
		res = AllocateResult{Result: r, Item: c, FoundInRaid: opts.FoundInRaid,
			Open: alloc.Capacity(snap, c.ID, opts.FoundInRaid, opts.Retract)}
		if r.Applied == 0 {
			return nil, domain.ErrNothingToDo
		}
		return &change{Type: events.Allocate, EntityKind: string(domain.KindItem), EntityID: c.ID,
			Payload: events.EventPayload{
				"delta":         delta,
				"applied":       r.Applied,
				"remainder":     r.Remainder,
				"found_in_raid": opts.FoundInRaid,
			}}, nil
	})
	if err == nil {
		e.log().Debug("allocated", "item", res.Item.Name, "applied", res.Applied, "remainder", res.Remainder)
	}
	return res, err
}
