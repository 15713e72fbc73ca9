//go:build opencl

package main

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"github.com/jgillich/go-opencl/cl"

	"emwave/fdtd"
)

const fdtdKernelSource = `__kernel void update_h(
    const int cells,
    const float ch,
    __global const float* e,
    __global float* h)
{
    int i = get_global_id(0);
    if (i >= cells - 1) {
        return;
    }
    h[i] += ch * (e[i + 1] - e[i]);
}

__kernel void update_e(
    const int cells,
    __global const float* ca,
    __global const float* cb,
    __global const float* h,
    __global float* e)
{
    int i = get_global_id(0);
    if (i <= 0 || i >= cells - 1) {
        return;
    }
    e[i] = ca[i] * e[i] + cb[i] * (h[i] - h[i - 1]);
}

__kernel void inject(
    const int cell,
    const float drive,
    __global float* e)
{
    if (get_global_id(0) == 0) {
        e[cell] += drive;
    }
}

__kernel void record_taps(
    const int tap_count,
    const int offset,
    __global const int* taps,
    __global const float* e,
    __global float* out)
{
    int j = get_global_id(0);
    if (j >= tap_count) {
        return;
    }
    out[offset + j] = e[taps[j]];
}`

// openCLKernel advances frame batches on an OpenCL device in float32. Host
// fields are uploaded at the start of every batch and read back at the end,
// so CPU single steps and GPU batches can be mixed freely.
type openCLKernel struct {
	context *cl.Context
	queue   *cl.CommandQueue
	program *cl.Program
	hKernel *cl.Kernel
	eKernel *cl.Kernel
	srcKern *cl.Kernel
	tapKern *cl.Kernel

	eBuf, hBuf   *cl.MemObject
	caBuf, cbBuf *cl.MemObject
	tapIdxBuf    *cl.MemObject
	tapOutBuf    *cl.MemObject
	tapOutCap    int
	tapIdxCap    int

	cells      int
	deviceName string
	revision   uint64
	synced     bool

	hostE, hostH   []float32
	hostCA, hostCB []float32
	hostTaps       []int32
	hostOut        []float32
}

func pickDevice() (*cl.Device, error) {
	platforms, err := cl.GetPlatforms()
	if err != nil {
		msg := "querying OpenCL platforms"
		if strings.Contains(err.Error(), "-1001") {
			msg += ": no ICD loader reported any platforms; install OpenCL drivers and verify with `clinfo`"
		}
		return nil, fmt.Errorf("%s: %w", msg, err)
	}
	if len(platforms) == 0 {
		return nil, errors.New("no OpenCL platforms available; ensure a vendor driver is installed and detected by `clinfo`")
	}
	for _, kind := range []cl.DeviceType{cl.DeviceTypeGPU, cl.DeviceTypeCPU} {
		for _, p := range platforms {
			devices, derr := p.GetDevices(kind)
			if derr != nil && derr != cl.ErrDeviceNotFound {
				continue
			}
			if len(devices) > 0 {
				return devices[0], nil
			}
		}
	}
	return nil, errors.New("no suitable OpenCL devices found")
}

func newOpenCLKernel(cells int) (*openCLKernel, error) {
	device, err := pickDevice()
	if err != nil {
		return nil, err
	}
	k := &openCLKernel{
		cells:      cells,
		deviceName: device.Name(),
		hostE:      make([]float32, cells),
		hostH:      make([]float32, cells-1),
		hostCA:     make([]float32, cells),
		hostCB:     make([]float32, cells),
	}
	if err := k.init(device); err != nil {
		k.Close()
		return nil, err
	}
	return k, nil
}

func (k *openCLKernel) init(device *cl.Device) error {
	var err error
	if k.context, err = cl.CreateContext([]*cl.Device{device}); err != nil {
		return fmt.Errorf("creating OpenCL context: %w", err)
	}
	if k.queue, err = k.context.CreateCommandQueue(device, 0); err != nil {
		return fmt.Errorf("creating OpenCL command queue: %w", err)
	}
	if k.program, err = k.context.CreateProgramWithSource([]string{fdtdKernelSource}); err != nil {
		return fmt.Errorf("creating OpenCL program: %w", err)
	}
	if err := k.program.BuildProgram([]*cl.Device{device}, ""); err != nil {
		if buildErr, ok := err.(cl.BuildError); ok {
			return fmt.Errorf("building OpenCL program: %s", string(buildErr))
		}
		return fmt.Errorf("building OpenCL program: %w", err)
	}
	for _, kk := range []struct {
		dst  **cl.Kernel
		name string
	}{
		{&k.hKernel, "update_h"},
		{&k.eKernel, "update_e"},
		{&k.srcKern, "inject"},
		{&k.tapKern, "record_taps"},
	} {
		if *kk.dst, err = k.program.CreateKernel(kk.name); err != nil {
			return fmt.Errorf("creating %s kernel: %w", kk.name, err)
		}
	}
	f32 := int(unsafe.Sizeof(float32(0)))
	for _, b := range []struct {
		dst  **cl.MemObject
		size int
		name string
	}{
		{&k.eBuf, k.cells * f32, "E"},
		{&k.hBuf, (k.cells - 1) * f32, "H"},
		{&k.caBuf, k.cells * f32, "CA"},
		{&k.cbBuf, k.cells * f32, "CB"},
	} {
		if *b.dst, err = k.context.CreateEmptyBuffer(cl.MemReadWrite, b.size); err != nil {
			return fmt.Errorf("allocating %s buffer: %w", b.name, err)
		}
	}
	if err := k.hKernel.SetArgs(int32(k.cells), float32(0), k.eBuf, k.hBuf); err != nil {
		return fmt.Errorf("setting update_h arguments: %w", err)
	}
	if err := k.eKernel.SetArgs(int32(k.cells), k.caBuf, k.cbBuf, k.hBuf, k.eBuf); err != nil {
		return fmt.Errorf("setting update_e arguments: %w", err)
	}
	if err := k.srcKern.SetArgs(int32(0), float32(0), k.eBuf); err != nil {
		return fmt.Errorf("setting inject arguments: %w", err)
	}
	return nil
}

func (k *openCLKernel) Name() string { return "opencl" }

func (k *openCLKernel) DeviceName() string { return k.deviceName }

// ensureTapBuffers grows the tap index and output buffers to fit a batch.
func (k *openCLKernel) ensureTapBuffers(taps, samples int) error {
	i32 := int(unsafe.Sizeof(int32(0)))
	f32 := int(unsafe.Sizeof(float32(0)))
	if taps > k.tapIdxCap {
		if k.tapIdxBuf != nil {
			k.tapIdxBuf.Release()
		}
		buf, err := k.context.CreateEmptyBuffer(cl.MemReadOnly, taps*i32)
		if err != nil {
			k.tapIdxBuf, k.tapIdxCap = nil, 0
			return fmt.Errorf("allocating tap index buffer: %w", err)
		}
		k.tapIdxBuf, k.tapIdxCap = buf, taps
	}
	if samples > k.tapOutCap {
		if k.tapOutBuf != nil {
			k.tapOutBuf.Release()
		}
		buf, err := k.context.CreateEmptyBuffer(cl.MemWriteOnly, samples*f32)
		if err != nil {
			k.tapOutBuf, k.tapOutCap = nil, 0
			return fmt.Errorf("allocating tap output buffer: %w", err)
		}
		k.tapOutBuf, k.tapOutCap = buf, samples
	}
	return nil
}

func (k *openCLKernel) uploadCoefficients(c fdtd.Coefficients) error {
	if k.synced && c.Revision == k.revision {
		return nil
	}
	toFloat32(k.hostCA, c.CA)
	toFloat32(k.hostCB, c.CB)
	if _, err := k.queue.EnqueueWriteBufferFloat32(k.caBuf, false, 0, k.hostCA, nil); err != nil {
		return fmt.Errorf("writing CA buffer: %w", err)
	}
	if _, err := k.queue.EnqueueWriteBufferFloat32(k.cbBuf, false, 0, k.hostCB, nil); err != nil {
		return fmt.Errorf("writing CB buffer: %w", err)
	}
	if err := k.hKernel.SetArgFloat32(1, float32(c.CH)); err != nil {
		return fmt.Errorf("setting CH: %w", err)
	}
	k.revision = c.Revision
	k.synced = true
	return nil
}

func (k *openCLKernel) Advance(f *fdtd.Fields, c fdtd.Coefficients, b *fdtd.Batch) error {
	if len(f.E) != k.cells || len(f.H) != k.cells-1 {
		return fmt.Errorf("field size %d/%d does not match kernel grid %d", len(f.E), len(f.H), k.cells)
	}
	steps, taps := b.Steps(), len(b.Taps)
	if steps == 0 {
		return nil
	}
	if err := k.uploadCoefficients(c); err != nil {
		return err
	}
	toFloat32(k.hostE, f.E)
	toFloat32(k.hostH, f.H)
	if _, err := k.queue.EnqueueWriteBufferFloat32(k.eBuf, false, 0, k.hostE, nil); err != nil {
		return fmt.Errorf("writing E buffer: %w", err)
	}
	if _, err := k.queue.EnqueueWriteBufferFloat32(k.hBuf, false, 0, k.hostH, nil); err != nil {
		return fmt.Errorf("writing H buffer: %w", err)
	}
	if err := k.srcKern.SetArgInt32(0, int32(b.SourceCell)); err != nil {
		return fmt.Errorf("setting source cell: %w", err)
	}
	if taps > 0 {
		if err := k.ensureTapBuffers(taps, steps*taps); err != nil {
			return err
		}
		k.hostTaps = k.hostTaps[:0]
		for _, cell := range b.Taps {
			k.hostTaps = append(k.hostTaps, int32(cell))
		}
		ptr := unsafe.Pointer(&k.hostTaps[0])
		byteLen := taps * int(unsafe.Sizeof(int32(0)))
		if _, err := k.queue.EnqueueWriteBuffer(k.tapIdxBuf, false, 0, byteLen, ptr, nil); err != nil {
			return fmt.Errorf("writing tap index buffer: %w", err)
		}
		if err := k.tapKern.SetArgs(int32(taps), int32(0), k.tapIdxBuf, k.eBuf, k.tapOutBuf); err != nil {
			return fmt.Errorf("setting record_taps arguments: %w", err)
		}
	}

	fieldRange := []int{k.cells}
	for step, drive := range b.Drive {
		if _, err := k.queue.EnqueueNDRangeKernel(k.hKernel, nil, fieldRange, nil, nil); err != nil {
			return fmt.Errorf("enqueueing update_h: %w", err)
		}
		if _, err := k.queue.EnqueueNDRangeKernel(k.eKernel, nil, fieldRange, nil, nil); err != nil {
			return fmt.Errorf("enqueueing update_e: %w", err)
		}
		if err := k.srcKern.SetArgFloat32(1, float32(drive)); err != nil {
			return fmt.Errorf("setting drive: %w", err)
		}
		if _, err := k.queue.EnqueueNDRangeKernel(k.srcKern, nil, []int{1}, nil, nil); err != nil {
			return fmt.Errorf("enqueueing inject: %w", err)
		}
		if taps > 0 {
			if err := k.tapKern.SetArgInt32(1, int32(step*taps)); err != nil {
				return fmt.Errorf("setting tap offset: %w", err)
			}
			if _, err := k.queue.EnqueueNDRangeKernel(k.tapKern, nil, []int{taps}, nil, nil); err != nil {
				return fmt.Errorf("enqueueing record_taps: %w", err)
			}
		}
	}

	if _, err := k.queue.EnqueueReadBufferFloat32(k.eBuf, true, 0, k.hostE, nil); err != nil {
		return fmt.Errorf("reading E buffer: %w", err)
	}
	if _, err := k.queue.EnqueueReadBufferFloat32(k.hBuf, true, 0, k.hostH, nil); err != nil {
		return fmt.Errorf("reading H buffer: %w", err)
	}
	toFloat64(f.E, k.hostE)
	toFloat64(f.H, k.hostH)
	if taps > 0 {
		n := steps * taps
		if cap(k.hostOut) < n {
			k.hostOut = make([]float32, n)
		}
		k.hostOut = k.hostOut[:n]
		if _, err := k.queue.EnqueueReadBufferFloat32(k.tapOutBuf, true, 0, k.hostOut, nil); err != nil {
			return fmt.Errorf("reading tap samples: %w", err)
		}
		toFloat64(b.Samples, k.hostOut)
	}
	return nil
}

func toFloat32(dst []float32, src []float64) {
	for i, v := range src {
		dst[i] = float32(v)
	}
}

func toFloat64(dst []float64, src []float32) {
	for i, v := range src {
		dst[i] = float64(v)
	}
}

func (k *openCLKernel) Close() {
	for _, b := range []**cl.MemObject{&k.tapOutBuf, &k.tapIdxBuf, &k.cbBuf, &k.caBuf, &k.hBuf, &k.eBuf} {
		if *b != nil {
			(*b).Release()
			*b = nil
		}
	}
	for _, kk := range []**cl.Kernel{&k.tapKern, &k.srcKern, &k.eKernel, &k.hKernel} {
		if *kk != nil {
			(*kk).Release()
			*kk = nil
		}
	}
	if k.program != nil {
		k.program.Release()
		k.program = nil
	}
	if k.queue != nil {
		k.queue.Release()
		k.queue = nil
	}
	if k.context != nil {
		k.context.Release()
		k.context = nil
	}
}
