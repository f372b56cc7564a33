// Package ffmpeg implements capture backends that spawn ffmpeg and
// read mono float32 samples from its stdout.
package ffmpeg

import (
	"fmt"

	"github.com/auricle/cortex/input"
	"github.com/auricle/cortex/input/common/execread"
)

type FFmpegBackend interface {
	InputArgs() []string
}

func NewSession(b FFmpegBackend, cfg input.SessionConfig) (*execread.Session, error) {
	args := []string{"ffmpeg", "-hide_banner", "-loglevel", "panic"}
	args = append(args, b.InputArgs()...)
	args = append(args,
		"-ar", fmt.Sprintf("%.0f", cfg.SampleRate),
		"-ac", "1",
		"-f", "f32le",
		"-",
	)

	return execread.NewSession(args, cfg), nil
}
