package main

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"emwave/fdtd"
)

const (
	pngWidth  = 12 * vg.Inch
	pngHeight = 5 * vg.Inch
)

// exportSnapshotPNG plots the current E field over shaded material regions.
func exportSnapshotPNG(e *fdtd.Engine, path string) error {
	snap := e.Snapshot()
	st := e.Status()

	p := plot.New()
	p.Title.Text = plotTitle(st)
	p.X.Label.Text = "Space (cell index)"
	p.Y.Label.Text = "Ez (V/m)"
	p.X.Min, p.X.Max = 0, float64(len(snap)-1)
	p.Y.Min, p.Y.Max = -plotYLimit, plotYLimit
	p.Add(plotter.NewGrid())

	for _, r := range e.Regions() {
		clr, ok := regionColor(r.Kind)
		if !ok {
			continue
		}
		x0, x1 := float64(r.Start), float64(r.End-1)
		poly, err := plotter.NewPolygon(plotter.XYs{
			{X: x0, Y: -plotYLimit}, {X: x1, Y: -plotYLimit},
			{X: x1, Y: plotYLimit}, {X: x0, Y: plotYLimit},
		})
		if err != nil {
			return fmt.Errorf("shading %s region: %w", r.Kind, err)
		}
		poly.Color = clr
		poly.LineStyle.Width = 0
		p.Add(poly)
		p.Legend.Add(r.Kind.String(), poly)
	}

	pts := make(plotter.XYs, len(snap))
	for i, v := range snap {
		pts[i].X = float64(i)
		pts[i].Y = v
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("field line: %w", err)
	}
	line.LineStyle.Color = fieldColor
	line.LineStyle.Width = vg.Points(1.5)
	p.Add(line)
	p.Legend.Add("Ez", line)
	p.Legend.Top = true

	if err := p.Save(pngWidth, pngHeight, path); err != nil {
		return fmt.Errorf("saving %q: %w", path, err)
	}
	return nil
}

// exportHTML writes an echarts page with the field snapshot and the probe
// trace over time.
func exportHTML(w io.Writer, e *fdtd.Engine, probe *fdtd.Probe) error {
	snap := e.Snapshot()
	st := e.Status()

	field := charts.NewLine()
	field.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "FDTD Explorer",
			Theme:     types.ThemeWesteros,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Ez snapshot",
			Subtitle: plotTitle(st),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "cell"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Ez (V/m)", Min: -plotYLimit, Max: plotYLimit}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			XAxisIndex: []int{0},
		}),
	)
	cells := make([]int, len(snap))
	fieldData := make([]opts.LineData, len(snap))
	for i, v := range snap {
		cells[i] = i
		fieldData[i] = opts.LineData{Value: v}
	}
	field.SetXAxis(cells).AddSeries("Ez", fieldData)

	samples, first := probe.Samples()
	dt := e.Grid().DT()
	trace := charts.NewLine()
	trace.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Probe at cell %d", probe.Cell()),
			Subtitle: fmt.Sprintf("%d samples from step %d", len(samples), first),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "t (ns)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Ez (V/m)"}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			XAxisIndex: []int{0},
		}),
	)
	times := make([]string, len(samples))
	traceData := make([]opts.LineData, len(samples))
	for i, v := range samples {
		times[i] = fmt.Sprintf("%.4f", float64(first+int64(i))*dt*1e9)
		traceData[i] = opts.LineData{Value: v}
	}
	trace.SetXAxis(times).AddSeries("Ez", traceData)

	page := components.NewPage()
	page.PageTitle = "FDTD Explorer"
	page.AddCharts(field, trace)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("rendering charts: %w", err)
	}
	return nil
}

func exportHTMLFile(e *fdtd.Engine, probe *fdtd.Probe, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %q: %w", path, err)
	}
	if err := exportHTML(f, e, probe); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
