package fdtd

// Cell is the material seen by one E-field sample.
type Cell struct {
	EpsR  float64
	Sigma float64
}

// Coefficients are the per-cell E update factors derived from the material:
//
//	E[i] = CA[i]*E[i] + CB[i]*(H[i]-H[i-1])
//
// and the uniform H update factor CH. The slices belong to the MaterialMap
// and must be treated as read-only.
type Coefficients struct {
	CA, CB   []float64
	CH       float64
	Revision uint64
}

// MaterialMap holds the per-cell (εr, σ) array and its update coefficients.
// It is only ever written by Rebuild.
type MaterialMap struct {
	grid     Grid
	regions  []Region
	owner    []MaterialKind
	cells    []Cell
	ca, cb   []float64
	revision uint64
}

// NewMaterialMap validates regions against grid and builds the map for p.
func NewMaterialMap(grid Grid, regions []Region, p Parameters) (*MaterialMap, error) {
	sorted, err := validateRegions(regions, grid.Cells())
	if err != nil {
		return nil, err
	}
	n := grid.Cells()
	m := &MaterialMap{
		grid:    grid,
		regions: sorted,
		owner:   make([]MaterialKind, n),
		cells:   make([]Cell, n),
		ca:      make([]float64, n),
		cb:      make([]float64, n),
	}
	for _, r := range sorted {
		for i := r.Start; i < r.End; i++ {
			m.owner[i] = r.Kind
		}
	}
	m.Rebuild(p)
	return m, nil
}

// CellFor returns the material of a cell of the given kind under p.
func CellFor(kind MaterialKind, p Parameters) Cell {
	switch kind {
	case Glass:
		return Cell{EpsR: p.GlassEpsR}
	case Water:
		return Cell{EpsR: p.WaterEpsR, Sigma: p.WaterSigma}
	default:
		return Cell{EpsR: 1}
	}
}

// Rebuild recomputes every cell and coefficient from the region list and p.
// Values are applied as given: out-of-range input is the caller's contract
// violation, not something the map corrects.
func (m *MaterialMap) Rebuild(p Parameters) {
	dt, dx := m.grid.DT(), m.grid.DX()
	for i, kind := range m.owner {
		c := CellFor(kind, p)
		m.cells[i] = c
		eps := Eps0 * c.EpsR
		loss := c.Sigma * dt / (2 * eps)
		m.ca[i] = (1 - loss) / (1 + loss)
		m.cb[i] = dt / (eps * dx) / (1 + loss)
	}
	m.revision++
}

// Cells returns a copy of the per-cell material array.
func (m *MaterialMap) Cells() []Cell {
	return append([]Cell(nil), m.cells...)
}

// At returns the material of cell i.
func (m *MaterialMap) At(i int) Cell { return m.cells[i] }

// Kind returns the region kind owning cell i.
func (m *MaterialMap) Kind(i int) MaterialKind { return m.owner[i] }

// Regions returns a copy of the sorted region list.
func (m *MaterialMap) Regions() []Region {
	return append([]Region(nil), m.regions...)
}

// Coefficients exposes the current update factors.
func (m *MaterialMap) Coefficients() Coefficients {
	return Coefficients{
		CA:       m.ca,
		CB:       m.cb,
		CH:       m.grid.DT() / (Mu0 * m.grid.DX()),
		Revision: m.revision,
	}
}
