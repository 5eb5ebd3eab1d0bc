package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyName        = errors.New("name must not be empty")
	ErrNothingToDo      = errors.New("nothing to do")
	ErrReservedResource = errors.New("resource is not trackable")
	ErrInvalidScope     = errors.New("invalid scope")
)

// NotFoundError is returned when a query resolves to nothing.
type NotFoundError struct {
	Kind        EntityKind
	Query       string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("no %s matches %q", e.Kind, e.Query)
	if len(e.Suggestions) > 0 {
		msg += "; did you mean " + strings.Join(quoteAll(e.Suggestions), ", ") + "?"
	}
	return msg
}

// Candidate is one entity a query may refer to.
type Candidate struct {
	Kind  EntityKind `json:"kind"`
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Index int        `json:"index"`
}

// AmbiguousError carries the ordered candidates of an exact query that
// matched more than one entity. Callers pick one by position.
type AmbiguousError struct {
	Query      string
	Candidates []Candidate
}

func (e *AmbiguousError) Error() string {
	names := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		names[i] = fmt.Sprintf("%d) %s", i+1, c.Name)
	}
	return fmt.Sprintf("%q is ambiguous: %s", e.Query, strings.Join(names, "; "))
}

// Choose returns the 1-based pick from the candidate list.
func (e *AmbiguousError) Choose(pick int) (Candidate, error) {
	if pick < 1 || pick > len(e.Candidates) {
		return Candidate{}, fmt.Errorf("pick %d out of range 1..%d", pick, len(e.Candidates))
	}
	return e.Candidates[pick-1], nil
}

type InvalidQuantityError struct {
	Text string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid quantity %q", e.Text)
}

type DuplicateNameError struct {
	Name string
	Kind EntityKind
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("name %q is already used by a %s", e.Name, e.Kind)
}

func quoteAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = fmt.Sprintf("%q", s)
	}
	return out
}
