package fdtd

// Batch describes a run of consecutive steps handed to a Kernel.
type Batch struct {
	SourceCell int
	// Drive[k] is the source value injected on the k-th step of the batch.
	Drive []float64
	// Taps are cells sampled after every step.
	Taps []int
	// Samples is filled by the kernel: Samples[k*len(Taps)+j] is E[Taps[j]]
	// after step k.
	Samples []float64
}

// Steps is the number of updates in the batch.
func (b *Batch) Steps() int { return len(b.Drive) }

// Kernel advances Fields by a whole batch. Kernels must not touch
// Fields.Step; the engine owns the step counter.
type Kernel interface {
	Name() string
	Advance(f *Fields, c Coefficients, b *Batch) error
	Close()
}

// CPUKernel is the reference kernel. It cannot fail.
type CPUKernel struct{}

func (CPUKernel) Name() string { return "cpu" }

func (CPUKernel) Advance(f *Fields, c Coefficients, b *Batch) error {
	taps := len(b.Taps)
	for k, drive := range b.Drive {
		advance(f, c, drive, b.SourceCell)
		row := b.Samples[k*taps : (k+1)*taps]
		for j, cell := range b.Taps {
			row[j] = f.E[cell]
		}
	}
	return nil
}

func (CPUKernel) Close() {}
