package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/guptarohit/asciigraph"

	"emwave/fdtd"
)

// runHeadless advances -frames frames as fast as possible, then reports
// the probe peak, prints the final field and writes any requested exports.
func runHeadless() error {
	p := initialParameters()
	engine, probe, err := newEngine(p, nil)
	if err != nil {
		return err
	}
	defer engine.Close()

	steps := clampSteps(*stepsPerFrameFlag)
	start := time.Now()
	for i := 0; i < *framesFlag; i++ {
		if err := engine.Frame(steps); err != nil {
			return err
		}
	}
	st := engine.Status()
	elapsed := time.Since(start)
	log.Printf("Ran %d frames (%d steps) in %s, t=%.3f ns, energy %.3e J/m^2",
		*framesFlag, st.Step, elapsed.Round(time.Millisecond), st.Time*1e9, st.Energy)

	if step, v, ok := probe.PeakAbs(); ok {
		log.Printf("Probe @%d peak %+.4f V/m at step %d (t=%.3f ns)",
			probe.Cell(), v, step, engine.Source().Time(step)*1e9)
	} else {
		log.Printf("Probe @%d recorded no samples", probe.Cell())
	}

	fmt.Fprintln(os.Stdout, summaryPlot(engine.Snapshot(), st, engine.Regions()))

	if *exportPNGFlag != "" {
		if err := exportSnapshotPNG(engine, *exportPNGFlag); err != nil {
			return err
		}
		log.Printf("Wrote %s", *exportPNGFlag)
	}
	if *exportHTMLFlag != "" {
		if err := exportHTMLFile(engine, probe, *exportHTMLFlag); err != nil {
			return err
		}
		log.Printf("Wrote %s", *exportHTMLFlag)
	}
	return nil
}

func summaryPlot(snap []float64, st fdtd.Status, regions []fdtd.Region) string {
	return asciigraph.Plot(snap,
		asciigraph.Width(tuiPlotWidth),
		asciigraph.Height(tuiPlotHeight),
		asciigraph.LowerBound(-plotYLimit),
		asciigraph.UpperBound(plotYLimit),
		asciigraph.Caption(plotTitle(st)+"\n"+regionCaption(regions, len(snap))))
}
