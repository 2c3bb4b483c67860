// Package model defines the port structures extracted from an XDC file.
package model

import (
	"sort"
	"strings"
)

// Direction is the signal flow of a port, as annotated in the XDC source.
// The zero value means the direction was not specified.
type Direction string

const (
	DirUnspecified Direction = ""
	DirIn          Direction = "in"
	DirOut         Direction = "out"
	DirInout       Direction = "inout"
)

// ParseDirection normalizes an annotation token ("IN", "Out", "inout", ...)
// to a Direction. Unknown tokens map to DirUnspecified.
func ParseDirection(tok string) Direction {
	switch strings.ToLower(tok) {
	case "in":
		return DirIn
	case "out":
		return DirOut
	case "inout":
		return DirInout
	}
	return DirUnspecified
}

// Scalar is a single-bit port.
type Scalar struct {
	Name string
	Dir  Direction
}

// BusBit is one declared index of a bus together with the direction its
// declaration carried, if any.
type BusBit struct {
	Index int
	Dir   Direction
}

// Bus is a named group of indexed bits forming a vector port.
// Bits are kept in declaration order; indices are distinct.
type Bus struct {
	Name string
	Bits []BusBit
}

// Range returns the (high, low) bounds of the bus: the maximum and minimum of
// the declared indices. Gaps between indices are not validated; the range
// silently covers them, so indices {0, 2} yield (2, 0).
func (b Bus) Range() (high, low int) {
	high, low = b.Bits[0].Index, b.Bits[0].Index
	for _, bit := range b.Bits[1:] {
		if bit.Index > high {
			high = bit.Index
		}
		if bit.Index < low {
			low = bit.Index
		}
	}
	return high, low
}

// ResolvedDirection returns the direction that applies to the whole bus: the
// most frequent non-empty direction among its bits. Ties go to the direction
// declared first. If no bit carries a direction the result is DirUnspecified.
func (b Bus) ResolvedDirection() Direction {
	counts := map[Direction]int{}
	var order []Direction
	for _, bit := range b.Bits {
		if bit.Dir == DirUnspecified {
			continue
		}
		if counts[bit.Dir] == 0 {
			order = append(order, bit.Dir)
		}
		counts[bit.Dir]++
	}

	best := DirUnspecified
	bestCount := 0
	for _, d := range order {
		if counts[d] > bestCount {
			best, bestCount = d, counts[d]
		}
	}
	return best
}

// PortSet accumulates scalar and bus ports during extraction. Registration is
// first-wins: a scalar name or a (bus, index) pair is recorded at most once,
// and later duplicates are no-ops. After extraction the set is read-only.
type PortSet struct {
	scalars map[string]Direction
	buses   map[string][]BusBit
}

// NewPortSet creates an empty PortSet.
func NewPortSet() *PortSet {
	return &PortSet{
		scalars: map[string]Direction{},
		buses:   map[string][]BusBit{},
	}
}

// AddScalar records a scalar port. It reports false if the name was already
// registered (the earlier declaration wins).
func (p *PortSet) AddScalar(name string, dir Direction) bool {
	if _, ok := p.scalars[name]; ok {
		return false
	}
	p.scalars[name] = dir
	return true
}

// AddBusBit records one index of a bus. It reports false if that index was
// already registered for the base name (the earlier declaration wins).
func (p *PortSet) AddBusBit(base string, index int, dir Direction) bool {
	for _, bit := range p.buses[base] {
		if bit.Index == index {
			return false
		}
	}
	p.buses[base] = append(p.buses[base], BusBit{Index: index, Dir: dir})
	return true
}

// Scalars returns all scalar ports in alphabetical order.
func (p *PortSet) Scalars() []Scalar {
	out := make([]Scalar, 0, len(p.scalars))
	for name, dir := range p.scalars {
		out = append(out, Scalar{Name: name, Dir: dir})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Buses returns all buses in alphabetical order, bits in declaration order.
func (p *PortSet) Buses() []Bus {
	out := make([]Bus, 0, len(p.buses))
	for name, bits := range p.buses {
		out = append(out, Bus{Name: name, Bits: bits})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Empty reports whether no port was extracted.
func (p *PortSet) Empty() bool {
	return len(p.scalars) == 0 && len(p.buses) == 0
}
