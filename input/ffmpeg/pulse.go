package ffmpeg

import (
	"fmt"

	"github.com/auricle/cortex/input"
	"github.com/auricle/cortex/input/parec"
)

func init() {
	input.RegisterBackend("ffmpeg-pulse", Pulse{})
}

// Pulse is the pulse input for FFmpeg. Device discovery is shared with
// the parec backend.
type Pulse struct {
	parec.Backend
}

func (p Pulse) Start(cfg input.SessionConfig) (input.Session, error) {
	dv, ok := cfg.Device.(parec.PulseDevice)
	if !ok {
		return nil, fmt.Errorf("invalid device type %T", cfg.Device)
	}

	return NewSession(dv, cfg)
}
