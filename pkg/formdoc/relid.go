package formdoc

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const relIDPrefix = "rId"

// maxRelID bounds numeric relationship ids. Word rejects ids that do not fit
// an int32.
const maxRelID = math.MaxInt32

var errRelIDsExhausted = errors.New("relationship id space exhausted")

// RelIDAllocator hands out relationship ids that are unique within one
// relationship set. It starts after the highest numeric rIdN already present
// and checks every candidate against the ids it has seen.
type RelIDAllocator struct {
	used  map[string]struct{}
	next  int
	limit int
}

// NewRelIDAllocator seeds an allocator with the ids already present in rels
func NewRelIDAllocator(rels *Relationships) *RelIDAllocator {
	a := &RelIDAllocator{
		used:  make(map[string]struct{}),
		next:  1,
		limit: maxRelID,
	}
	if rels != nil {
		for _, rel := range rels.Relationship {
			a.observe(rel.ID)
		}
	}
	return a
}

func (a *RelIDAllocator) observe(id string) {
	a.used[id] = struct{}{}
	if n, ok := parseRelID(id); ok && n >= a.next {
		a.next = n + 1
	}
}

// Reserve marks id as taken. It fails when the id is already in use.
func (a *RelIDAllocator) Reserve(id string) error {
	if _, taken := a.used[id]; taken {
		return &IdentifierCollisionError{ID: id, Cause: errors.New("id already in use")}
	}
	a.observe(id)
	return nil
}

// Next returns a fresh id and marks it as used.
func (a *RelIDAllocator) Next() (string, error) {
	for a.next <= a.limit {
		id := relIDPrefix + strconv.Itoa(a.next)
		a.next++
		if _, taken := a.used[id]; taken {
			continue
		}
		a.used[id] = struct{}{}
		return id, nil
	}
	return "", &IdentifierCollisionError{
		ID:    fmt.Sprintf("%s%d", relIDPrefix, a.limit+1),
		Cause: errRelIDsExhausted,
	}
}

func parseRelID(id string) (int, bool) {
	if !strings.HasPrefix(id, relIDPrefix) {
		return 0, false
	}
	n, err := strconv.Atoi(id[len(relIDPrefix):])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
