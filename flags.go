package main

import "flag"

// Command-line flags. Geometry and source flags feed fdtd.Config; the rest
// pick the frontend and its optional features.
var (
	cellsFlag      = flag.Int("cells", 400, "number of grid cells (regions scale with it)")
	dxFlag         = flag.Float64("dx", 0.8e-3, "cell spacing in meters")
	sourceCellFlag = flag.Int("source-cell", 50, "cell receiving the pulse")
	freqFlag       = flag.Float64("freq", 1.5e9, "carrier frequency in Hz")
	amplitudeFlag  = flag.Float64("amplitude", 1.5, "source amplitude")

	// glassEpsFlag, waterEpsFlag and waterSigmaFlag set the initial slider
	// positions; they are clamped to the slider ranges.
	glassEpsFlag   = flag.Float64("glass-eps", 4, "initial glass relative permittivity (1-9)")
	waterEpsFlag   = flag.Float64("water-eps", 4, "initial water relative permittivity (1-15)")
	waterSigmaFlag = flag.Float64("water-sigma", 0.15, "initial water conductivity in S/m (0-1)")

	stepsPerFrameFlag = flag.Int("steps-per-frame", defaultStepsPerFrame, "field updates per rendered frame")
	tpsFlag           = flag.Float64("tps", defaultTPS, "frames per second")
	probeCellFlag     = flag.Int("probe", defaultProbeCell, "cell whose field is traced, sonified and exported")

	tuiFlag        = flag.Bool("tui", false, "run the terminal frontend instead of a window")
	headlessFlag   = flag.Bool("headless", false, "run without any frontend and print a summary")
	framesFlag     = flag.Int("frames", 300, "frames to run in headless mode")
	exportPNGFlag  = flag.String("export-png", "", "write the final field snapshot as a PNG plot (headless)")
	exportHTMLFlag = flag.String("export-html", "", "write snapshot and probe trace charts as HTML (headless)")

	// useOpenCLFlag runs frame batches on an OpenCL device; single steps
	// stay on the CPU.
	useOpenCLFlag = flag.Bool("opencl", false, "advance frames with the OpenCL kernel (build with -tags opencl)")

	// enableAudioFlag plays the probe field as audio.
	enableAudioFlag = flag.Bool("enable-audio", false, "play the probe cell field as audio")

	// debugFlag enables the FPS and simulation overlay.
	debugFlag = flag.Bool("debug", false, "show FPS, energy and kernel overlay")

	// recordDefaultPGO sweeps the sliders while capturing default.pgo.
	recordDefaultPGO = flag.Bool("record-default-pgo", false, "sweep sliders for 15s while capturing default.pgo")
)
