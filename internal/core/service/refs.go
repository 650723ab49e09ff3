package service

import (
	"fmt"

	"github.com/ebdruplab/semactl/internal/core/domain"
	apperrors "github.com/ebdruplab/semactl/internal/errors"
)

// refTable maps resource names to their remote IDs, scoped per category and
// rebuilt on every run. Seeded from remote listings and extended by each
// create, it is what turns the manifest's *_name references into the numeric
// IDs the API wants.
type refTable struct {
	ids map[domain.Category]map[string]int
}

func newRefTable() *refTable {
	return &refTable{ids: map[domain.Category]map[string]int{}}
}

// put records a name→ID binding. The first binding for a name wins; remote
// duplicates keep the ID of the earliest listed resource.
func (t *refTable) put(category domain.Category, name string, id int) {
	byName, ok := t.ids[category]
	if !ok {
		byName = map[string]int{}
		t.ids[category] = byName
	}
	if _, exists := byName[name]; !exists {
		byName[name] = id
	}
}

func (t *refTable) lookup(category domain.Category, name string) (int, bool) {
	id, ok := t.ids[category][name]
	return id, ok
}

// resolve returns the ID for a required reference.
func (t *refTable) resolve(category domain.Category, name string) (int, error) {
	id, ok := t.lookup(category, name)
	if !ok {
		return 0, apperrors.NewUserFacing(apperrors.CodeReferenceError,
			fmt.Sprintf("cannot resolve %s reference %q", category, name),
			fmt.Sprintf("Declare a %s named %q in the manifest or fix the reference.", category, name))
	}
	return id, nil
}

// resolveOptional returns nil for an empty name and resolves otherwise.
func (t *refTable) resolveOptional(category domain.Category, name string) (*int, error) {
	if name == "" {
		return nil, nil
	}
	id, err := t.resolve(category, name)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
