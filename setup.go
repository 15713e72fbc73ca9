package main

import (
	"fmt"
	"log"

	"emwave/fdtd"
)

// scaleRegions keeps the 100/150/100/50 proportions of the 400-cell layout
// for any cell count.
func scaleRegions(cells int) []fdtd.Region {
	base := fdtd.DefaultRegions()
	if cells == 400 {
		return base
	}
	out := make([]fdtd.Region, len(base))
	prev := 0
	for i, r := range base {
		end := r.End * cells / 400
		if i == len(base)-1 {
			end = cells
		}
		out[i] = fdtd.Region{Start: prev, End: end, Kind: r.Kind}
		prev = end
	}
	return out
}

// initialParameters reads the slider flags, clamping each to its range.
func initialParameters() fdtd.Parameters {
	p := fdtd.Parameters{
		GlassEpsR:  *glassEpsFlag,
		WaterEpsR:  *waterEpsFlag,
		WaterSigma: *waterSigmaFlag,
	}
	for _, param := range fdtd.Params {
		v := p.Get(param)
		if c := param.Range().Clamp(v); c != v {
			log.Printf("Clamping -%s %.3g to %.3g", param, v, c)
			p = p.With(param, c)
		}
	}
	return p
}

func engineConfig(p fdtd.Parameters) fdtd.Config {
	cfg := fdtd.DefaultConfig()
	cfg.Cells = *cellsFlag
	cfg.DX = *dxFlag
	cfg.Regions = scaleRegions(*cellsFlag)
	cfg.SourceCell = *sourceCellFlag
	cfg.Frequency = *freqFlag
	cfg.Amplitude = *amplitudeFlag
	cfg.Parameters = p
	return cfg
}

// newEngine builds an engine from the flags with a probe attached. ch may
// be nil; passing the previous engine's channel keeps queued slider moves.
func newEngine(p fdtd.Parameters, ch *fdtd.ParameterChannel) (*fdtd.Engine, *fdtd.Probe, error) {
	cfg := engineConfig(p)
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("engine configuration: %w", err)
	}
	opts := []fdtd.Option{fdtd.WithChannel(ch)}
	if *useOpenCLFlag {
		k, err := newOpenCLKernel(cfg.Cells)
		if err != nil {
			return nil, nil, fmt.Errorf("OpenCL initialization failed: %w", err)
		}
		log.Printf("OpenCL kernel enabled (device: %s)", k.DeviceName())
		opts = append(opts, fdtd.WithKernel(k))
	}
	e, err := fdtd.New(cfg, opts...)
	if err != nil {
		return nil, nil, err
	}
	probe, err := e.AddProbe(*probeCellFlag)
	if err != nil {
		e.Close()
		return nil, nil, err
	}
	g := e.Grid()
	log.Printf("Engine ready: %d cells, dx=%.3g m, dt=%.4g s, Courant %.2f, %s, probe at %d, kernel %s",
		g.Cells(), g.DX(), g.DT(), g.Courant(), p, probe.Cell(), e.KernelName())
	return e, probe, nil
}
