package fdtd

// Fields holds the staggered leapfrog state. H[i] sits between E[i] and
// E[i+1], so len(H) == len(E)-1.
type Fields struct {
	E    []float64
	H    []float64
	Step int64
}

func newFields(cells int) Fields {
	return Fields{E: make([]float64, cells), H: make([]float64, cells-1)}
}

// Clone deep-copies the field arrays.
func (f Fields) Clone() Fields {
	return Fields{
		E:    append([]float64(nil), f.E...),
		H:    append([]float64(nil), f.H...),
		Step: f.Step,
	}
}

// advance performs one leapfrog update in place: H from the E curl, then E
// from the H curl through the lossy coefficients, then the soft source.
// E[0] and E[len-1] stay zero, a perfectly reflecting wall at each end.
func advance(f *Fields, c Coefficients, drive float64, sourceCell int) {
	e, h := f.E, f.H
	last := len(e) - 1
	for i := range h {
		h[i] += c.CH * (e[i+1] - e[i])
	}
	ca, cb := c.CA, c.CB
	for i := 1; i < last; i++ {
		e[i] = ca[i]*e[i] + cb[i]*(h[i]-h[i-1])
	}
	e[sourceCell] += drive
	e[0] = 0
	e[last] = 0
}
