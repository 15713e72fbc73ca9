package fdtd

import (
	"fmt"
	"sort"
)

// MaterialKind tags a region of the grid.
type MaterialKind int

const (
	Vacuum MaterialKind = iota
	Glass
	Water
)

func (k MaterialKind) String() string {
	switch k {
	case Vacuum:
		return "vacuum"
	case Glass:
		return "glass"
	case Water:
		return "water"
	default:
		return fmt.Sprintf("MaterialKind(%d)", int(k))
	}
}

// Region is the half-open cell range [Start, End) filled with one material.
type Region struct {
	Start, End int
	Kind       MaterialKind
}

// DefaultRegions returns the vacuum / glass / water / vacuum layout of the
// 400-cell explorer.
func DefaultRegions() []Region {
	return []Region{
		{Start: 0, End: 100, Kind: Vacuum},
		{Start: 100, End: 250, Kind: Glass},
		{Start: 250, End: 350, Kind: Water},
		{Start: 350, End: 400, Kind: Vacuum},
	}
}

// validateRegions checks that regions cover [0, cells) with no gaps or
// overlaps and returns them sorted by Start.
func validateRegions(regions []Region, cells int) ([]Region, error) {
	if len(regions) == 0 {
		return nil, fmt.Errorf("%w: empty region list", ErrRegions)
	}
	sorted := append([]Region(nil), regions...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })
	next := 0
	for _, r := range sorted {
		if r.End <= r.Start {
			return nil, fmt.Errorf("%w: empty %s region [%d,%d)", ErrRegions, r.Kind, r.Start, r.End)
		}
		if r.Kind < Vacuum || r.Kind > Water {
			return nil, fmt.Errorf("%w: %s", ErrRegions, r.Kind)
		}
		if r.Start != next {
			return nil, fmt.Errorf("%w: %s region starts at %d, expected %d", ErrRegions, r.Kind, r.Start, next)
		}
		next = r.End
	}
	if next != cells {
		return nil, fmt.Errorf("%w: regions end at %d, grid has %d cells", ErrRegions, next, cells)
	}
	return sorted, nil
}
