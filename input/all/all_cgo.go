//go:build cgo

package all

import (
	// The PortAudio backend requires cgo.
	_ "github.com/auricle/cortex/input/portaudio"
)
