package fdtd

import (
	"math"
	"testing"
)

func testSource(t *testing.T) Source {
	t.Helper()
	e, err := New(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	return e.Source()
}

func TestSourceValue(t *testing.T) {
	s := testSource(t)
	if v := s.ValueAt(0); v != 0 {
		t.Fatalf("ValueAt(0) = %v, carrier starts at zero phase", v)
	}
	t25 := s.Time(25)
	want := 1.5 * math.Sin(2*math.Pi*1.5e9*t25)
	if got := s.ValueAt(25); math.Abs(got-want) > 1e-12 {
		t.Fatalf("ValueAt(25) = %v, want %v", got, want)
	}
	if math.Abs(s.PeakDelay()-t25) > 1e-24 {
		t.Fatalf("PeakDelay = %v, want %v", s.PeakDelay(), t25)
	}
}

func TestSourceHasFiniteSupport(t *testing.T) {
	s := testSource(t)
	last := s.LastActiveStep()
	if last < 72 || last > 73 {
		t.Fatalf("LastActiveStep = %d, want 25+6*8", last)
	}
	if !s.Active(last) || s.Active(last+1) {
		t.Fatalf("support edge wrong around step %d", last)
	}
	for step := last + 1; step < last+5000; step++ {
		if v := s.ValueAt(step); v != 0 {
			t.Fatalf("ValueAt(%d) = %v after the pulse", step, v)
		}
	}
}

func TestSourceIsReplayable(t *testing.T) {
	s := testSource(t)
	first := make([]float64, 80)
	for i := range first {
		first[i] = s.ValueAt(int64(i))
	}
	for i := len(first) - 1; i >= 0; i-- {
		if v := s.ValueAt(int64(i)); v != first[i] {
			t.Fatalf("ValueAt(%d) changed on replay: %v vs %v", i, v, first[i])
		}
	}
}
