package main

import (
	"encoding/binary"
	"testing"
)

func TestProbeAudioStreamWritesStereoFrames(t *testing.T) {
	s := newProbeAudioStream()
	s.SetSample(2) // clipped to 1
	buf := make([]byte, 10)
	n, err := s.Read(buf)
	if err != nil || n != 8 {
		t.Fatalf("Read = %d, %v; want 8 bytes", n, err)
	}
	left := int16(binary.LittleEndian.Uint16(buf[0:2]))
	right := int16(binary.LittleEndian.Uint16(buf[2:4]))
	if left != right || left <= 30000 {
		t.Fatalf("frame = %d/%d, want equal near full scale", left, right)
	}
	if n, _ := s.Read(make([]byte, 3)); n != 0 {
		t.Fatalf("partial frame read %d bytes", n)
	}
}
