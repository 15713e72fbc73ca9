package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"emwave/fdtd"
)

const (
	tuiPlotWidth  = 100
	tuiPlotHeight = 14
	tuiBarWidth   = 24
)

var (
	tuiHeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	tuiLabelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	tuiActiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	tuiGraphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49"))
	tuiErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	tuiHelpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type tuiTickMsg time.Time

type tuiErrMsg struct{ err error }

// tuiModel renders whatever the runner goroutine last published. Key
// presses only queue parameter changes; the runner applies them at its
// next frame boundary.
type tuiModel struct {
	engine  *fdtd.Engine
	probe   *fdtd.Probe
	channel *fdtd.ParameterChannel
	paused  *atomic.Bool

	values   [len(fdtd.Params)]float64
	selected int

	history *energyHistory
	err     error
}

// energyHistory is appended to by the runner and read by View.
type energyHistory struct {
	mu     sync.Mutex
	values []float64
}

func (h *energyHistory) add(v float64) {
	h.mu.Lock()
	h.values = appendBounded(h.values, v, energyHistoryLen)
	h.mu.Unlock()
}

func (h *energyHistory) snapshot() []float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]float64(nil), h.values...)
}

func newTUIModel(engine *fdtd.Engine, probe *fdtd.Probe, p fdtd.Parameters) tuiModel {
	m := tuiModel{
		engine:  engine,
		probe:   probe,
		channel: engine.Channel(),
		paused:  new(atomic.Bool),
		history: &energyHistory{},
	}
	for i, param := range fdtd.Params {
		m.values[i] = p.Get(param)
	}
	return m
}

func tuiTick() tea.Cmd {
	return tea.Tick(tuiRefresh, func(t time.Time) tea.Msg { return tuiTickMsg(t) })
}

func (m tuiModel) Init() tea.Cmd { return tuiTick() }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.paused.Store(!m.paused.Load())
		case "up", "k":
			m.selected = (m.selected + len(m.values) - 1) % len(m.values)
		case "down", "j", "tab":
			m.selected = (m.selected + 1) % len(m.values)
		case "right", "l":
			m.nudge(1)
		case "left", "h":
			m.nudge(-1)
		case "L", "shift+right":
			m.nudge(sliderCoarseFactor)
		case "H", "shift+left":
			m.nudge(-sliderCoarseFactor)
		}
	case tuiErrMsg:
		m.err = msg.err
		return m, tea.Quit
	case tuiTickMsg:
		return m, tuiTick()
	}
	return m, nil
}

// nudge moves the selected parameter by n slider steps and queues it.
func (m *tuiModel) nudge(n int) {
	param := fdtd.Params[m.selected]
	r := param.Range()
	v := r.Clamp(roundTo(m.values[m.selected]+float64(n)*r.Step, r.Step))
	if v == m.values[m.selected] {
		return
	}
	m.values[m.selected] = v
	if err := m.channel.Submit(param, v); err != nil {
		m.err = err
	}
}

func (m tuiModel) View() string {
	st := m.engine.Status()
	snap := m.engine.Snapshot()

	var s strings.Builder
	s.WriteString(tuiHeaderStyle.Render(plotTitle(st)) + "\n")

	field := asciigraph.Plot(snap,
		asciigraph.Width(tuiPlotWidth),
		asciigraph.Height(tuiPlotHeight),
		asciigraph.LowerBound(-plotYLimit),
		asciigraph.UpperBound(plotYLimit),
		asciigraph.Caption(regionCaption(m.engine.Regions(), len(snap))))
	s.WriteString(tuiGraphStyle.Render(field) + "\n\n")

	if hist := m.history.snapshot(); len(hist) > 1 {
		energy := asciigraph.Plot(hist,
			asciigraph.Width(tuiPlotWidth/2),
			asciigraph.Height(4),
			asciigraph.Caption(fmt.Sprintf("energy %.3e J/m^2", st.Energy)))
		s.WriteString(tuiGraphStyle.Render(energy) + "\n\n")
	}

	applied := st.Parameters
	for i, param := range fdtd.Params {
		r := param.Range()
		filled := int(r.Fraction(m.values[i]) * tuiBarWidth)
		bar := "[" + strings.Repeat("=", filled) + strings.Repeat("-", tuiBarWidth-filled) + "]"
		line := fmt.Sprintf("%-18s %s %6.2f", param.Label(), bar, m.values[i])
		if applied.Get(param) != m.values[i] {
			line += " (pending)"
		}
		if i == m.selected {
			s.WriteString(tuiActiveStyle.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + tuiLabelStyle.Render(line) + "\n")
		}
	}
	s.WriteString(tuiLabelStyle.Render(fmt.Sprintf("\nprobe @%d: %+.4f  kernel: %s",
		m.probe.Cell(), m.probe.Latest(), m.engine.KernelName())) + "\n")
	if m.paused.Load() {
		s.WriteString(tuiActiveStyle.Render("PAUSED") + "\n")
	}
	if m.err != nil {
		s.WriteString(tuiErrorStyle.Render(m.err.Error()) + "\n")
	}
	s.WriteString(tuiHelpStyle.Render("up/down select  left/right adjust (shift x10)  space pause  q quit\nBoth grid ends are perfectly reflecting walls."))
	return s.String()
}

// regionCaption labels where each material starts along the plot's x axis.
func regionCaption(regions []fdtd.Region, cells int) string {
	parts := make([]string, 0, len(regions))
	for _, r := range regions {
		parts = append(parts, fmt.Sprintf("%s %d-%d", r.Kind, r.Start, r.End-1))
	}
	return fmt.Sprintf("Ez over %d cells: %s", cells, strings.Join(parts, " | "))
}

// runTUI runs the engine on a background frame runner and the bubbletea
// program in the foreground.
func runTUI() error {
	p := initialParameters()
	engine, probe, err := newEngine(p, nil)
	if err != nil {
		return err
	}
	defer engine.Close()

	model := newTUIModel(engine, probe, p)
	prog := tea.NewProgram(model, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stepsPerFrame := clampSteps(*stepsPerFrameFlag)
	runner := &frameRunner{
		engine: engine,
		tps:    tuiTPS,
		steps: func() int {
			if model.paused.Load() {
				return 0
			}
			return stepsPerFrame
		},
		onFrame: func(st fdtd.Status) { model.history.add(st.Energy) },
	}
	runErr := make(chan error, 1)
	go func() {
		err := runner.run(ctx)
		if err != nil {
			prog.Send(tuiErrMsg{err})
		}
		runErr <- err
	}()

	final, err := prog.Run()
	cancel()
	if err != nil {
		return fmt.Errorf("terminal frontend: %w", err)
	}
	if err := <-runErr; err != nil {
		return err
	}
	if fm, ok := final.(tuiModel); ok && fm.err != nil {
		log.Printf("Terminal frontend stopped: %v", fm.err)
	}
	return nil
}
