//go:build darwin

package ffmpeg

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/auricle/cortex/input"
	"github.com/pkg/errors"
)

func init() {
	input.RegisterBackend("ffmpeg-avfoundation", AVFoundation{})
}

// AVFoundation is the avfoundation input for FFmpeg.
type AVFoundation struct{}

func (p AVFoundation) Init() error {
	return nil
}

func (p AVFoundation) Close() error {
	return nil
}

// Devices asks ffmpeg to enumerate avfoundation audio devices and
// scrapes the listing from its log output. Only the audio section
// matters here; capture is mono audio.
func (p AVFoundation) Devices() ([]input.Device, error) {
	cmd := exec.Command(
		"ffmpeg", "-hide_banner", "-loglevel", "info",
		"-f", "avfoundation", "-list_devices", "true",
		"-i", "",
	)

	// ffmpeg exits non-zero after listing, so only the output matters.
	out, _ := cmd.CombinedOutput()

	return parseDeviceListing(bytes.NewReader(out))
}

// parseDeviceListing extracts the audio devices from an ffmpeg
// -list_devices log. Device lines look like
//
//	[AVFoundation indev @ 0x...] [0] Built-in Microphone
func parseDeviceListing(r io.Reader) ([]input.Device, error) {
	var inAudio bool
	var devices []input.Device

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "[AVFoundation") {
			if _, rest, ok := strings.Cut(line, "] "); ok {
				line = rest
			}
		}

		switch {
		case line == "AVFoundation audio devices:":
			inAudio = true
			continue
		case !strings.HasPrefix(line, "["):
			inAudio = false
			continue
		case !inAudio:
			continue
		}

		idx, name, ok := strings.Cut(line, " ")
		if !ok {
			continue
		}

		n, err := strconv.Atoi(strings.Trim(idx, "[]"))
		if err != nil {
			return nil, errors.Wrapf(err, "bad device index %q", idx)
		}

		devices = append(devices, AVFoundationDevice{Index: n, Name: name})
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(devices) == 0 {
		return nil, errors.New("no avfoundation audio devices found")
	}

	return devices, nil
}

func (p AVFoundation) DefaultDevice() (input.Device, error) {
	return AVFoundationDevice{-1, "default"}, nil
}

func (p AVFoundation) Start(cfg input.SessionConfig) (input.Session, error) {
	dv, ok := cfg.Device.(AVFoundationDevice)
	if !ok {
		return nil, fmt.Errorf("invalid device type %T", cfg.Device)
	}

	return NewSession(dv, cfg)
}

type AVFoundationDevice struct {
	Index int
	Name  string
}

func (d AVFoundationDevice) InputArgs() []string {
	input := "none:default"
	if d.Index > -1 {
		input = fmt.Sprintf("none:%d", d.Index)
	}
	return []string{"-f", "avfoundation", "-i", input}
}

func (d AVFoundationDevice) String() string {
	return fmt.Sprintf("%d:%s", d.Index, d.Name)
}
