// Package grouping splits a roster into a fixed number of evenly sized groups.
package grouping

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"

	"teamsort/internal/domain"
	id "teamsort/pkg/domain"
)

// DefaultGroupCount is used when configuration does not override it.
const DefaultGroupCount = 4

// Strategy selects how members are ordered before round-robin dealing.
type Strategy string

const (
	// StrategyRandom shuffles the roster and deals member i to group i mod N.
	// It looks at nothing but roster size.
	StrategyRandom Strategy = "random"
	// StrategyBalanced orders members by trait bucket then category before
	// dealing, so each group receives as even a trait mix as sizes allow.
	StrategyBalanced Strategy = "balanced"
)

// IsValid reports whether s is a known strategy.
func (s Strategy) IsValid() bool {
	return s == StrategyRandom || s == StrategyBalanced
}

// Placement decides what happens to earlier members when the roster grows.
type Placement string

const (
	// PlacementRecompute rebuilds every group from scratch on each change.
	PlacementRecompute Placement = "recompute"
	// PlacementSticky keeps existing placements and seats newcomers in the
	// smallest group.
	PlacementSticky Placement = "sticky"
)

// IsValid reports whether p is a known placement policy.
func (p Placement) IsValid() bool {
	return p == PlacementRecompute || p == PlacementSticky
}

// Partitioner is safe for concurrent use; its random source is guarded.
type Partitioner struct {
	groupCount int
	strategy   Strategy
	placement  Placement

	mu  sync.Mutex
	rng *rand.Rand
}

type Option func(*Partitioner)

func WithStrategy(s Strategy) Option {
	return func(p *Partitioner) {
		p.strategy = s
	}
}

func WithPlacement(pl Placement) Option {
	return func(p *Partitioner) {
		p.placement = pl
	}
}

// WithSeed makes shuffles reproducible.
func WithSeed(seed uint64) Option {
	return func(p *Partitioner) {
		p.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// New builds a partitioner producing groupCount groups.
func New(groupCount int, opts ...Option) (*Partitioner, error) {
	if groupCount < 1 {
		return nil, fmt.Errorf("group count must be at least 1, got %d", groupCount)
	}
	p := &Partitioner{
		groupCount: groupCount,
		strategy:   StrategyRandom,
		placement:  PlacementRecompute,
	}
	for _, opt := range opts {
		opt(p)
	}
	if !p.strategy.IsValid() {
		return nil, fmt.Errorf("unknown partition strategy %q", p.strategy)
	}
	if !p.placement.IsValid() {
		return nil, fmt.Errorf("unknown placement policy %q", p.placement)
	}
	if p.rng == nil {
		p.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return p, nil
}

// GroupCount is N.
func (p *Partitioner) GroupCount() int { return p.groupCount }

// Strategy reports the configured ordering strategy.
func (p *Partitioner) Strategy() Strategy { return p.strategy }

// Placement reports the configured placement policy.
func (p *Partitioner) Placement() Placement { return p.placement }

// Partition builds a fresh partition of roster. The input is not modified.
func (p *Partitioner) Partition(roster []domain.Identity) domain.Partition {
	ordered := p.order(roster)
	groups := domain.NewEmptyPartition(p.groupCount)
	for i, member := range ordered {
		g := &groups[i%p.groupCount]
		g.Members = append(g.Members, member)
	}
	return groups
}

// Place recomputes the partition for roster according to the placement
// policy. previous is the partition before the roster changed.
func (p *Partitioner) Place(previous domain.Partition, roster []domain.Identity) domain.Partition {
	if p.placement != PlacementSticky || len(previous) != p.groupCount {
		return p.Partition(roster)
	}

	present := make(map[id.IdentityID]domain.Identity, len(roster))
	for _, m := range roster {
		present[m.ID] = m
	}

	groups := domain.NewEmptyPartition(p.groupCount)
	seated := make(map[id.IdentityID]struct{}, len(roster))
	for i, g := range previous {
		for _, m := range g.Members {
			if current, ok := present[m.ID]; ok {
				groups[i].Members = append(groups[i].Members, current)
				seated[m.ID] = struct{}{}
			}
		}
	}

	for _, m := range roster {
		if _, ok := seated[m.ID]; ok {
			continue
		}
		smallest := 0
		for i := 1; i < len(groups); i++ {
			if len(groups[i].Members) < len(groups[smallest].Members) {
				smallest = i
			}
		}
		groups[smallest].Members = append(groups[smallest].Members, m)
	}
	return groups
}

func (p *Partitioner) order(roster []domain.Identity) []domain.Identity {
	shuffled := domain.CloneRoster(roster)
	p.mu.Lock()
	p.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	p.mu.Unlock()

	if p.strategy == StrategyBalanced {
		slices.SortStableFunc(shuffled, func(a, b domain.Identity) int {
			if d := traitRank(a.Trait) - traitRank(b.Trait); d != 0 {
				return d
			}
			if a.PrimaryCategory != b.PrimaryCategory {
				if a.PrimaryCategory < b.PrimaryCategory {
					return -1
				}
				return 1
			}
			return 0
		})
	}
	return shuffled
}

func traitRank(t domain.Trait) int {
	if i := slices.Index(domain.Traits, t); i >= 0 {
		return i
	}
	return len(domain.Traits)
}
