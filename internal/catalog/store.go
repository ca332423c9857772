package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"abilityctl/internal/api"
	"abilityctl/internal/routing"
)

// Store is the read side of the ability and executor CRUD store.
type Store interface {
	ListAbilities(ctx context.Context) ([]api.Ability, error)
	GetAbility(ctx context.Context, id string) (*api.Ability, error)
	ListExecutors(ctx context.Context) ([]api.Executor, error)
}

// Document is the serialized form of a catalog.
type Document struct {
	Abilities []api.Ability  `json:"abilities" yaml:"abilities"`
	Executors []api.Executor `json:"executors" yaml:"executors"`
}

// Validate checks identity invariants: ids are present and unique, and a
// capability key is unique within its provider.
func (d Document) Validate() error {
	var errs api.ValidationErrors

	abilityIDs := make(map[string]bool, len(d.Abilities))
	capabilityKeys := make(map[string]string, len(d.Abilities))
	for i, a := range d.Abilities {
		if strings.TrimSpace(a.ID) == "" {
			errs = append(errs, api.NewValidationError(fmt.Sprintf("abilities[%d].id", i), "id is required"))
			continue
		}
		if abilityIDs[a.ID] {
			errs = append(errs, api.NewValidationError(fmt.Sprintf("abilities[%d].id", i), "duplicate ability id %q", a.ID))
		}
		abilityIDs[a.ID] = true

		if a.CapabilityKey == "" {
			continue
		}
		key := routing.NormalizeToken(a.Provider) + "/" + a.CapabilityKey
		if owner, dup := capabilityKeys[key]; dup {
			errs = append(errs, api.NewValidationError(fmt.Sprintf("abilities[%d].capabilityKey", i),
				"capability key %q of provider %q is already used by ability %s", a.CapabilityKey, a.Provider, owner))
			continue
		}
		capabilityKeys[key] = a.ID
	}

	executorIDs := make(map[string]bool, len(d.Executors))
	for i, e := range d.Executors {
		if strings.TrimSpace(e.ID) == "" {
			errs = append(errs, api.NewValidationError(fmt.Sprintf("executors[%d].id", i), "id is required"))
			continue
		}
		if executorIDs[e.ID] {
			errs = append(errs, api.NewValidationError(fmt.Sprintf("executors[%d].id", i), "duplicate executor id %q", e.ID))
		}
		executorIDs[e.ID] = true
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// MemoryStore serves a validated Document from memory. It is safe for
// concurrent use; Replace swaps the whole catalog at once.
type MemoryStore struct {
	mu  sync.RWMutex
	idx *indexed
}

// NewMemoryStore validates doc and serves it.
func NewMemoryStore(doc Document) (*MemoryStore, error) {
	s := &MemoryStore{}
	if err := s.Replace(doc); err != nil {
		return nil, err
	}
	return s, nil
}

// Replace validates doc and makes it the served catalog.
func (s *MemoryStore) Replace(doc Document) error {
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("%w: %w", api.ErrInvalidDocument, err)
	}
	idx := index(doc)
	s.mu.Lock()
	s.idx = idx
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) ListAbilities(_ context.Context) ([]api.Ability, error) {
	idx := s.current()
	return append([]api.Ability(nil), idx.abilities...), nil
}

func (s *MemoryStore) GetAbility(_ context.Context, id string) (*api.Ability, error) {
	idx := s.current()
	i, ok := idx.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", api.ErrAbilityNotFound, id)
	}
	a := idx.abilities[i]
	return &a, nil
}

func (s *MemoryStore) ListExecutors(_ context.Context) ([]api.Executor, error) {
	idx := s.current()
	return append([]api.Executor(nil), idx.executors...), nil
}

func (s *MemoryStore) current() *indexed {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.idx == nil {
		return &indexed{byID: map[string]int{}}
	}
	return s.idx
}

type indexed struct {
	abilities []api.Ability
	executors []api.Executor
	byID      map[string]int
}

// index orders abilities by provider then capability key for stable
// listings. Executor order is kept: it is the fallback resolution order.
func index(doc Document) *indexed {
	idx := &indexed{
		abilities: append([]api.Ability(nil), doc.Abilities...),
		executors: append([]api.Executor(nil), doc.Executors...),
		byID:      make(map[string]int, len(doc.Abilities)),
	}
	sort.SliceStable(idx.abilities, func(i, j int) bool {
		a, b := idx.abilities[i], idx.abilities[j]
		if a.Provider != b.Provider {
			return a.Provider < b.Provider
		}
		return a.CapabilityKey < b.CapabilityKey
	})
	for i, a := range idx.abilities {
		idx.byID[a.ID] = i
	}
	return idx
}
