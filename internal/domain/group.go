package domain

import "fmt"

// GroupID is the stable identifier of a group within a partition.
type GroupID string

// Group is one named bucket of a partition.
type Group struct {
	ID      GroupID    `json:"id"`
	Name    string     `json:"name"`
	Members []Identity `json:"members"`
}

// Partition is the full division of a roster into groups.
type Partition []Group

// NewEmptyPartition builds n empty groups named "Group 1".."Group n".
func NewEmptyPartition(n int) Partition {
	groups := make(Partition, n)
	for i := range groups {
		groups[i] = Group{
			ID:      GroupID(fmt.Sprintf("group-%d", i+1)),
			Name:    fmt.Sprintf("Group %d", i+1),
			Members: []Identity{},
		}
	}
	return groups
}

// Clone deep-copies the partition.
func (p Partition) Clone() Partition {
	if p == nil {
		return nil
	}
	out := make(Partition, len(p))
	for i, g := range p {
		out[i] = Group{ID: g.ID, Name: g.Name, Members: CloneRoster(g.Members)}
		if out[i].Members == nil {
			out[i].Members = []Identity{}
		}
	}
	return out
}

// Sizes returns the member count of each group in order.
func (p Partition) Sizes() []int {
	sizes := make([]int, len(p))
	for i, g := range p {
		sizes[i] = len(g.Members)
	}
	return sizes
}

// MemberCount is the total number of members across groups.
func (p Partition) MemberCount() int {
	n := 0
	for _, g := range p {
		n += len(g.Members)
	}
	return n
}

// TraitMix counts members per trait inside one group.
func (g Group) TraitMix() TraitCounts {
	counts := make(TraitCounts, len(Traits))
	for _, m := range g.Members {
		counts[m.Trait]++
	}
	return counts
}
