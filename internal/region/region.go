// Package region classifies a bank's address window into typed regions.
package region

import (
	"fmt"
	"slices"
)

// WindowSize is the size of a bank's addressable window.
const WindowSize = 0x4000

// Kind classifies the content of a region.
type Kind uint8

const (
	// Code marks a region containing instructions.
	Code Kind = iota
	// Data marks a region containing raw bytes.
	Data
	// Text marks a region containing printable byte runs mixed with raw bytes.
	Text
)

// String returns the kind name as used in symbol files.
func (k Kind) String() string {
	switch k {
	case Code:
		return "code"
	case Data:
		return "data"
	case Text:
		return "text"
	default:
		return fmt.Sprintf("kind(%d)", k)
	}
}

// Region is a contiguous typed span inside a bank window.
type Region struct {
	Start  uint16
	Length int
	Kind   Kind
}

// End returns the address after the last byte of the region.
func (r Region) End() int {
	return int(r.Start) + r.Length
}

// Map collects region hints for one bank window and resolves them into a
// partition of the window. Hints may overlap; a hint re-using the start
// address of an earlier hint replaces it.
type Map struct {
	base  uint16
	hints map[uint16]Region
}

// NewMap returns a map for the window [base, base+WindowSize).
func NewMap(base uint16) *Map {
	return &Map{
		base:  base,
		hints: map[uint16]Region{},
	}
}

// Add records a region hint. Hints starting outside the bank window are
// ignored.
func (m *Map) Add(address uint16, kind Kind, length int) {
	if int(address) < int(m.base) || int(address) >= int(m.base)+WindowSize {
		return
	}
	m.hints[address] = Region{Start: address, Length: length, Kind: kind}
}

// Resolve turns the recorded hints into an ordered partition of the window.
// A hint that runs into the start of the next hint is truncated there, the
// earlier-starting hint keeping the contested span up to that point. Gaps
// between hints and the spans before the first and after the last hint are
// filled with code regions. Region ends are clamped to the window and empty
// regions are dropped, so the result covers every window address exactly
// once.
func (m *Map) Resolve() []Region {
	starts := make([]uint16, 0, len(m.hints))
	for start := range m.hints {
		starts = append(starts, start)
	}
	slices.Sort(starts)

	windowEnd := int(m.base) + WindowSize
	resolved := make([]Region, 0, len(starts)+1)
	next := int(m.base)

	for i, start := range starts {
		hint := m.hints[start]

		if int(start) > next {
			resolved = append(resolved, Region{
				Start:  uint16(next),
				Length: int(start) - next,
				Kind:   Code,
			})
		}

		end := hint.End()
		if i < len(starts)-1 && int(starts[i+1]) < end {
			end = int(starts[i+1])
		}
		if end > windowEnd {
			end = windowEnd
		}

		if end > int(start) {
			resolved = append(resolved, Region{
				Start:  start,
				Length: end - int(start),
				Kind:   hint.Kind,
			})
			next = end
		}
	}

	if next < windowEnd {
		resolved = append(resolved, Region{
			Start:  uint16(next),
			Length: windowEnd - next,
			Kind:   Code,
		})
	}

	return resolved
}
