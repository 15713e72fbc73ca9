//go:build !opencl

package main

import (
	"errors"

	"emwave/fdtd"
)

type openCLKernel struct{}

func newOpenCLKernel(int) (*openCLKernel, error) {
	return nil, errors.New("OpenCL support is not enabled; rebuild with -tags opencl")
}

func (k *openCLKernel) Name() string { return "opencl" }

func (k *openCLKernel) Advance(*fdtd.Fields, fdtd.Coefficients, *fdtd.Batch) error {
	return errors.New("OpenCL kernel unavailable")
}

func (k *openCLKernel) Close() {}

func (k *openCLKernel) DeviceName() string { return "" }
