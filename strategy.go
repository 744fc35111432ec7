package subclip

import (
	"context"
	"errors"
	"math"
	"sort"
)

var (
	ErrDuplicateStrategy = errors.New("duplicate strategy name")
	ErrInvalidStrategy   = errors.New("invalid strategy")
	ErrUnknownStrategy   = errors.New("unknown strategy")
)

var (
	PriorityHighest int16 = math.MinInt16
	PriorityDefault int16 = 0
	PriorityLowest  int16 = math.MaxInt16
)

// An AttemptFunc tries to obtain media for a classified reference. A zero
// Outcome with a nil error means the strategy definitively found nothing; a
// non-nil error means the strategy could not currently run (network failure,
// malformed response) and should wrap ErrStrategyFailed.
type AttemptFunc = func(ctx context.Context, ref ContentReference, report ProgressFunc) (Outcome, error)

// A Strategy is one self-contained technique for obtaining media from a source
// URL. Strategies are tried in ascending Priority order, one at a time.
type Strategy struct {
	Name    string
	Attempt AttemptFunc
	// Priority of the strategy, lower (including negative) means attempting earlier.
	Priority int16
}

func (s Strategy) WithName(name string) Strategy {
	s.Name = name
	return s
}

func (s Strategy) WithPriority(priority int16) Strategy {
	s.Priority = priority
	return s
}

// A StrategyRegistry is an ordered collection of Strategy instances which the
// orchestrator runs against a reference until one yields a result.
type StrategyRegistry struct {
	strategies  []*Strategy
	strategyMap map[string]*Strategy
}

// Add registers a Strategy. Strategy.Name and Strategy.Attempt must be set, and
// Strategy.Name must be unique within the StrategyRegistry.
func (r *StrategyRegistry) Add(s Strategy) error {
	if r.strategyMap == nil {
		r.strategyMap = make(map[string]*Strategy)
	}
	if s.Name == "" || s.Attempt == nil {
		return ErrInvalidStrategy
	}
	if _, ok := r.strategyMap[s.Name]; ok {
		return ErrDuplicateStrategy
	}
	r.strategyMap[s.Name] = &s
	r.strategies = append(r.strategies, r.strategyMap[s.Name])
	r.sortByPriority()
	return nil
}

// MustAdd wraps Add but panics if there is an error.
func (r *StrategyRegistry) MustAdd(s Strategy) {
	if err := r.Add(s); err != nil {
		panic(err)
	}
}

// GetPriority gets the priority of the named Strategy. If ErrUnknownStrategy is
// returned, the returned priority is the default priority.
func (r *StrategyRegistry) GetPriority(name string) (int16, error) {
	if s, ok := r.strategyMap[name]; ok {
		return s.Priority, nil
	} else {
		return 0, ErrUnknownStrategy
	}
}

// SetPriority adjusts the priority of a named Strategy.
func (r *StrategyRegistry) SetPriority(name string, priority int16) error {
	if s, ok := r.strategyMap[name]; ok {
		s.Priority = priority
		r.sortByPriority()
		return nil
	} else {
		return ErrUnknownStrategy
	}
}

// List returns the names of registered strategies in priority order.
func (r *StrategyRegistry) List() []string {
	names := make([]string, 0, len(r.strategies))
	for _, s := range r.strategies {
		names = append(names, s.Name)
	}
	return names
}

// Ordered returns the registered strategies in priority order. The returned
// slice must not be modified.
func (r *StrategyRegistry) Ordered() []*Strategy {
	return r.strategies
}

func (r *StrategyRegistry) sortByPriority() {
	sort.SliceStable(r.strategies, func(i, j int) bool {
		return r.strategies[i].Priority < r.strategies[j].Priority
	})
}
