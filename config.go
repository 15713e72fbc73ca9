package main

import "time"

// Window, cadence and UI constants for the FDTD explorer. Physical defaults
// live in fdtd.DefaultConfig; these only shape how it is driven and shown.
const (
	screenW, screenH = 1200, 700

	defaultTPS           = 33.0 // ~30 ms per frame
	defaultStepsPerFrame = 4
	stepsPerFrameStep    = 1
	minStepsPerFrame     = 1
	maxStepsPerFrame     = 200

	defaultProbeCell = 300

	plotLeft, plotTop     = 300, 60
	plotRight, plotBottom = screenW - 20, screenH - 60
	plotYLimit            = 1.5

	sliderLeft, sliderTop = 20, 90
	sliderWidth           = 250
	sliderHeight          = 14
	sliderSpacing         = 90
	sliderKeyDelay        = 15
	sliderKeyInterval     = 2
	sliderCoarseFactor    = 10

	energyHistoryLen = 240
	tuiTPS           = 30.0
	tuiRefresh       = time.Second / 15

	pgoRecordDuration = 15 * time.Second
	sweepMinFrames    = 10
	sweepMaxFrames    = 60

	audioSampleRate          = 48000
	audioPlayerBufferLatency = 80 * time.Millisecond
	audioGain                = 0.6
)
