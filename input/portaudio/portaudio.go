//go:build cgo

// Package portaudio implements a capture backend on top of the
// PortAudio bindings.
package portaudio

import (
	"context"
	"fmt"
	"time"

	"github.com/auricle/cortex/input"
	"github.com/gordonklaus/portaudio"
	"github.com/pkg/errors"
)

var GlobalBackend = &Backend{}

func init() {
	input.RegisterBackend("portaudio", GlobalBackend)
}

// Backend represents the PortAudio backend. A zero-value instance is a
// valid instance.
type Backend struct {
	devices []*portaudio.DeviceInfo
}

func (b *Backend) Init() error {
	return portaudio.Initialize()
}

func (b *Backend) Close() error {
	return portaudio.Terminate()
}

func (b *Backend) Devices() ([]input.Device, error) {
	if b.devices == nil {
		devices, err := portaudio.Devices()
		if err != nil {
			return nil, err
		}
		b.devices = devices
	}

	gDevices := make([]input.Device, 0, len(b.devices))
	for _, device := range b.devices {
		if device.MaxInputChannels < 1 {
			continue
		}
		gDevices = append(gDevices, Device{device})
	}

	return gDevices, nil
}

func (b *Backend) DefaultDevice() (input.Device, error) {
	defaultHost, err := portaudio.DefaultHostApi()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get default host API")
	}

	if defaultHost.DefaultInputDevice == nil {
		return nil, errors.New("no default input device found")
	}

	return Device{defaultHost.DefaultInputDevice}, nil
}

func (b *Backend) Start(cfg input.SessionConfig) (input.Session, error) {
	return NewSession(cfg)
}

// Device represents a PortAudio device.
type Device struct {
	*portaudio.DeviceInfo
}

// String returns the device name.
func (d Device) String() string {
	return d.Name
}

// Session is an input source that pulls from PortAudio.
type Session struct {
	stream *portaudio.Stream
	cfg    input.SessionConfig

	sampleBuf []float32 // buffer shared with portaudio
	block     []input.Sample

	blockDuration time.Duration
}

// NewSession opens a mono input stream on the configured device.
func NewSession(cfg input.SessionConfig) (*Session, error) {
	dv, ok := cfg.Device.(Device)
	if !ok {
		return nil, fmt.Errorf("device is of unknown type %T", cfg.Device)
	}

	param := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   dv.DeviceInfo,
			Latency:  dv.DefaultLowInputLatency,
			Channels: 1,
		},
		SampleRate:      cfg.SampleRate,
		FramesPerBuffer: cfg.SampleSize,
	}

	buffer := make([]float32, cfg.SampleSize)

	stream, err := portaudio.OpenStream(param, buffer)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open stream")
	}

	// Free up the device.
	cfg.Device = nil

	return &Session{
		stream:    stream,
		cfg:       cfg,
		sampleBuf: buffer,
		block:     make([]input.Sample, cfg.SampleSize),
		blockDuration: time.Duration(
			float64(cfg.SampleSize) / cfg.SampleRate * float64(time.Second)),
	}, nil
}

// Start begins audio capture.
func (s *Session) Start(context.Context) error {
	return s.stream.Start()
}

// readyRead returns the number of frames ready to read.
func (s *Session) readyRead() int {
	ready, _ := s.stream.AvailableToRead()
	return ready
}

// Read waits until a full block is buffered, then drains it. Waiting
// far past one block duration surfaces as input.ErrReadTimedOut so the
// capture loop stays responsive to cancellation.
func (s *Session) Read(ctx context.Context) ([]input.Sample, error) {
	deadline := time.Now().Add(s.blockDuration * 6)

	for s.readyRead() < s.cfg.SampleSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if time.Now().After(deadline) {
			return nil, input.ErrReadTimedOut
		}
		time.Sleep(time.Millisecond)
	}

	err := s.stream.Read()
	if err != nil && err != portaudio.InputOverflowed {
		return nil, err
	}

	for i, smpl := range s.sampleBuf {
		s.block[i] = input.Sample(smpl)
	}

	return s.block, nil
}

// Stop stops the session and closes the stream.
func (s *Session) Stop() error {
	err := s.stream.Stop()
	s.stream.Close()
	return err
}
