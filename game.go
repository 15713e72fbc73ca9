package main

import (
	"log"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"

	"emwave/fdtd"
)

// Game is the window frontend: it owns the slider state, feeds parameter
// changes into the engine's channel and drives one engine frame per tick.
type Game struct {
	engine  *fdtd.Engine
	probe   *fdtd.Probe
	channel *fdtd.ParameterChannel

	// values mirror the sliders; they are what the user asked for, not
	// necessarily what the engine has applied yet.
	values   [len(fdtd.Params)]float64
	selected int
	dragging int

	paused          bool
	stepsPerFrame   int
	lastSimDuration time.Duration
	energyHistory   []float64
	loggedParams    fdtd.Parameters

	autoSweep        bool
	autoSweepUntil   time.Time
	autoSweepRand    *rand.Rand
	autoSweepTarget  float64
	autoSweepFrames  int
	autoSweepControl int

	audioCtx    *audio.Context
	audioStream *probeAudioStream
	audioPlayer *audio.Player
}

// newGame builds the engine from flags and starts optional audio.
func newGame() (*Game, error) {
	p := initialParameters()
	ch := fdtd.NewParameterChannel()
	engine, probe, err := newEngine(p, ch)
	if err != nil {
		return nil, err
	}
	g := &Game{
		engine:        engine,
		probe:         probe,
		channel:       ch,
		dragging:      -1,
		stepsPerFrame: clampSteps(*stepsPerFrameFlag),
		autoSweepRand: rand.New(rand.NewSource(time.Now().UnixNano())),
		loggedParams:  p,
	}
	for i, param := range fdtd.Params {
		g.values[i] = p.Get(param)
	}
	if *enableAudioFlag {
		ctx := audio.NewContext(audioSampleRate)
		g.audioCtx = ctx
		g.audioStream = newProbeAudioStream()
		if player, err := ctx.NewPlayer(g.audioStream); err != nil {
			log.Printf("Audio player creation failed: %v", err)
		} else {
			g.audioPlayer = player
			g.audioPlayer.SetBufferSize(audioPlayerBufferLatency)
			g.audioPlayer.Play()
		}
	}
	return g, nil
}

// Update handles input, then runs one engine frame: pending parameters are
// applied and stepsPerFrame steps are taken as a single unit.
func (g *Game) Update() error {
	g.handleControls()

	steps := g.stepsPerFrame
	if g.paused {
		steps = 0
	}
	simStart := time.Now()
	if err := g.engine.Frame(steps); err != nil {
		return err
	}
	g.lastSimDuration = time.Since(simStart)

	st := g.engine.Status()
	g.energyHistory = appendBounded(g.energyHistory, st.Energy, energyHistoryLen)
	if st.Parameters != g.loggedParams && g.channel.Pending() == 0 && g.dragging < 0 {
		g.loggedParams = st.Parameters
		log.Printf("Materials now %s", st.Parameters)
	}
	if g.audioStream != nil {
		g.audioStream.SetSample(float32(g.probe.Latest() * audioGain))
	}
	return nil
}

// setValue clamps v into the slider range and queues it for the engine.
func (g *Game) setValue(i int, v float64) {
	param := fdtd.Params[i]
	r := param.Range()
	v = r.Clamp(roundTo(v, r.Step))
	if v == g.values[i] {
		return
	}
	g.values[i] = v
	if err := g.channel.Submit(param, v); err != nil {
		log.Printf("Dropping %s update: %v", param, err)
	}
}

// resetEngine discards the running simulation and starts a new one at the
// current slider positions.
func (g *Game) resetEngine() {
	var p fdtd.Parameters
	for i, param := range fdtd.Params {
		p = p.With(param, g.values[i])
	}
	engine, probe, err := newEngine(p, g.channel)
	if err != nil {
		log.Printf("Reset failed, keeping the running engine: %v", err)
		return
	}
	g.engine.Close()
	g.engine, g.probe = engine, probe
	g.energyHistory = g.energyHistory[:0]
	g.loggedParams = p
	log.Printf("Engine reset (%s)", p)
}

func appendBounded(s []float64, v float64, n int) []float64 {
	s = append(s, v)
	if len(s) > n {
		s = s[len(s)-n:]
	}
	return s
}
