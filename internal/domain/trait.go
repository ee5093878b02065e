package domain

import (
	"encoding/json"
	"fmt"
)

// Trait is one of the four DISC axes. An identity's trait label is the axis
// on which it scored highest.
type Trait string

const (
	TraitUnset Trait = ""
	TraitD     Trait = "D"
	TraitI     Trait = "I"
	TraitS     Trait = "S"
	TraitC     Trait = "C"
)

// Traits lists the axes in canonical order. The same order is the tie-break
// priority when two axes share the maximum score: D > I > S > C.
var Traits = []Trait{TraitD, TraitI, TraitS, TraitC}

// IsValid reports whether t is one of the four axes.
func (t Trait) IsValid() bool {
	switch t {
	case TraitD, TraitI, TraitS, TraitC:
		return true
	}
	return false
}

// ParseTrait validates an axis tag.
func ParseTrait(s string) (Trait, error) {
	t := Trait(s)
	if !t.IsValid() {
		return TraitUnset, fmt.Errorf("unknown trait axis %q", s)
	}
	return t, nil
}

func (t Trait) String() string { return string(t) }

// Scores holds the accumulated total per axis.
type Scores struct {
	D int `json:"D"`
	I int `json:"I"`
	S int `json:"S"`
	C int `json:"C"`
}

// Get returns the total for one axis. Unknown axes read as zero.
func (s Scores) Get(t Trait) int {
	switch t {
	case TraitD:
		return s.D
	case TraitI:
		return s.I
	case TraitS:
		return s.S
	case TraitC:
		return s.C
	}
	return 0
}

// Add returns a copy of s with weight added to axis t.
func (s Scores) Add(t Trait, weight int) Scores {
	switch t {
	case TraitD:
		s.D += weight
	case TraitI:
		s.I += weight
	case TraitS:
		s.S += weight
	case TraitC:
		s.C += weight
	}
	return s
}

// Total is the sum over all four axes.
func (s Scores) Total() int {
	return s.D + s.I + s.S + s.C
}

// Dominant returns the axis with the highest total. Ties go to the axis that
// appears first in Traits.
func (s Scores) Dominant() Trait {
	best := Traits[0]
	for _, t := range Traits[1:] {
		if s.Get(t) > s.Get(best) {
			best = t
		}
	}
	return best
}

// TraitCounts tallies identities per trait label.
type TraitCounts map[Trait]int

// MarshalJSON always emits all four axes so renderers get a stable shape.
func (c TraitCounts) MarshalJSON() ([]byte, error) {
	out := make(map[string]int, len(Traits))
	for _, t := range Traits {
		out[string(t)] = c[t]
	}
	return json.Marshal(out)
}
