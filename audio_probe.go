package main

import "sync"

// probeAudioStream plays the field at the probe cell as a held 16-bit
// stereo sample, refreshed once per frame.
type probeAudioStream struct {
	mu     sync.Mutex
	sample float32
	dc     float32
}

func newProbeAudioStream() *probeAudioStream {
	return &probeAudioStream{}
}

// SetSample clips v to [-1,1] and strips the slow DC drift left behind in
// lossy regions.
func (s *probeAudioStream) SetSample(v float32) {
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	s.mu.Lock()
	const alpha = 0.001
	s.dc += alpha * (v - s.dc)
	s.sample = v - s.dc
	s.mu.Unlock()
}

func (s *probeAudioStream) Read(p []byte) (int, error) {
	// Whole stereo frames only (4 bytes per frame).
	frameBytes := len(p) - len(p)%4
	if frameBytes == 0 {
		return 0, nil
	}
	s.mu.Lock()
	sample := s.sample
	s.mu.Unlock()

	v := int16(sample * 32767)
	for i := 0; i < frameBytes; i += 4 {
		p[i] = byte(v)
		p[i+1] = byte(v >> 8)
		p[i+2] = p[i]
		p[i+3] = p[i+1]
	}
	return frameBytes, nil
}

func (s *probeAudioStream) Close() error {
	return nil
}
