package grouping

import (
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamsort/internal/domain"
	id "teamsort/pkg/domain"
)

func roster(n int) []domain.Identity {
	out := make([]domain.Identity, n)
	for i := range out {
		out[i] = domain.Identity{
			ID:                id.NewIdentityID(),
			Name:              fmt.Sprintf("member-%d", i),
			PrimaryCategory:   domain.Categories[i%len(domain.Categories)].Value,
			SecondaryCategory: domain.CategoryOther,
			Trait:             domain.Traits[i%len(domain.Traits)],
		}
	}
	return out
}

func assertCoversRoster(t *testing.T, members []domain.Identity, p domain.Partition, groupCount int) {
	t.Helper()
	require.Len(t, p, groupCount)

	m := len(members)
	lo, hi := m/groupCount, (m+groupCount-1)/groupCount
	total := 0
	for _, g := range p {
		size := len(g.Members)
		require.GreaterOrEqual(t, size, lo, "group %s too small", g.ID)
		require.LessOrEqual(t, size, hi, "group %s too large", g.ID)
		total += size
	}
	require.Equal(t, m, total)

	seen := make(map[id.IdentityID]int, m)
	for _, g := range p {
		for _, member := range g.Members {
			seen[member.ID]++
		}
	}
	for _, member := range members {
		require.Equal(t, 1, seen[member.ID], "member %s must appear exactly once", member.Name)
	}
}

func TestPartition_SizeAndCoverageInvariants(t *testing.T) {
	for _, strategy := range []Strategy{StrategyRandom, StrategyBalanced} {
		for n := 1; n <= 7; n++ {
			p, err := New(n, WithStrategy(strategy), WithSeed(42))
			require.NoError(t, err)
			for m := 0; m <= 40; m++ {
				members := roster(m)
				assertCoversRoster(t, members, p.Partition(members), n)
			}
		}
	}
}

func TestPartition_NineIntoFour(t *testing.T) {
	p, err := New(4, WithSeed(1))
	require.NoError(t, err)

	sizes := p.Partition(roster(9)).Sizes()
	slices.Sort(sizes)
	assert.Equal(t, []int{2, 2, 2, 3}, sizes)
}

func TestPartition_EmptyRosterYieldsNamedEmptyGroups(t *testing.T) {
	p, err := New(DefaultGroupCount)
	require.NoError(t, err)

	groups := p.Partition(nil)
	require.Len(t, groups, 4)
	for i, g := range groups {
		assert.Equal(t, domain.GroupID(fmt.Sprintf("group-%d", i+1)), g.ID)
		assert.NotNil(t, g.Members)
		assert.Empty(t, g.Members)
	}
}

func TestPartition_SeedIsReproducible(t *testing.T) {
	members := roster(12)
	a, err := New(3, WithSeed(99))
	require.NoError(t, err)
	b, err := New(3, WithSeed(99))
	require.NoError(t, err)

	assert.Equal(t, a.Partition(members), b.Partition(members))
}

func TestPartition_DoesNotMutateInput(t *testing.T) {
	members := roster(8)
	before := domain.CloneRoster(members)
	p, err := New(3, WithSeed(5))
	require.NoError(t, err)

	p.Partition(members)
	assert.Equal(t, before, members)
}

func TestPartition_BalancedSpreadsTraits(t *testing.T) {
	members := roster(16) // four of each trait
	p, err := New(4, WithStrategy(StrategyBalanced), WithSeed(3))
	require.NoError(t, err)

	for _, g := range p.Partition(members) {
		mix := g.TraitMix()
		for _, trait := range domain.Traits {
			assert.Equal(t, 1, mix[trait], "group %s trait %s", g.ID, trait)
		}
	}
}

func TestPlace_Sticky(t *testing.T) {
	p, err := New(3, WithPlacement(PlacementSticky), WithSeed(8))
	require.NoError(t, err)

	members := roster(5)
	first := p.Place(nil, members)
	assertCoversRoster(t, members, first, 3)

	placement := map[id.IdentityID]domain.GroupID{}
	for _, g := range first {
		for _, m := range g.Members {
			placement[m.ID] = g.ID
		}
	}

	grown := append(domain.CloneRoster(members), roster(4)...)
	second := p.Place(first, grown)
	assertCoversRoster(t, grown, second, 3)

	for _, g := range second {
		for _, m := range g.Members {
			if prev, ok := placement[m.ID]; ok {
				assert.Equal(t, prev, g.ID, "member %s moved groups", m.Name)
			}
		}
	}
}

func TestPlace_RecomputeIgnoresPrevious(t *testing.T) {
	p, err := New(2, WithSeed(10))
	require.NoError(t, err)

	members := roster(6)
	previous := p.Partition(members[:4])
	next := p.Place(previous, members)
	assertCoversRoster(t, members, next, 2)
}

func TestNew_Validation(t *testing.T) {
	_, err := New(0)
	assert.Error(t, err)

	_, err = New(4, WithStrategy("alphabetical"))
	assert.Error(t, err)

	_, err = New(4, WithPlacement("frozen"))
	assert.Error(t, err)

	p, err := New(4)
	require.NoError(t, err)
	assert.Equal(t, StrategyRandom, p.Strategy())
	assert.Equal(t, PlacementRecompute, p.Placement())
	assert.Equal(t, 4, p.GroupCount())
}
