package main

import (
	"flag"
	"log"
	"runtime"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	flag.Parse()
	runtime.GOMAXPROCS(runtime.NumCPU())

	var err error
	switch {
	case *headlessFlag:
		err = runHeadless()
	case *tuiFlag:
		err = runTUI()
	default:
		err = runWindow()
	}
	if err != nil {
		log.Fatalf("emwave: %v", err)
	}
}

func runWindow() error {
	g, err := newGame()
	if err != nil {
		return err
	}
	defer g.engine.Close()

	if *recordDefaultPGO {
		stop, err := startCPUProfile("default.pgo")
		if err != nil {
			return err
		}
		defer stop()
		g.enableAutoSweep(pgoRecordDuration)
		time.AfterFunc(pgoRecordDuration, func() {
			stop()
			log.Printf("Wrote default.pgo after %s", pgoRecordDuration)
		})
		log.Printf("Recording default.pgo for %s while sweeping sliders", pgoRecordDuration)
	}

	ebiten.SetWindowSize(screenW, screenH)
	ebiten.SetWindowTitle("Interactive FDTD Material Explorer")
	ebiten.SetTPS(int(*tpsFlag))
	return ebiten.RunGame(g)
}
