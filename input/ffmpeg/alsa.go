package ffmpeg

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/auricle/cortex/input"
	"github.com/pkg/errors"
)

func init() {
	input.RegisterBackend("ffmpeg-alsa", ALSA{})
}

type ALSA struct{}

func (p ALSA) Init() error {
	return nil
}

func (p ALSA) Close() error {
	return nil
}

func (p ALSA) Devices() ([]input.Device, error) {
	f, err := os.Open("/proc/asound/pcm")
	if err != nil {
		return nil, errors.Wrap(err, "failed to open pcm")
	}
	defer f.Close()

	var devices []input.Device

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		prefix, _, ok := strings.Cut(scanner.Text(), ":")
		if !ok {
			continue
		}

		d, err := ParseALSADevice(prefix)
		if err != nil {
			return nil, err
		}

		devices = append(devices, d)
	}

	return devices, scanner.Err()
}

func (p ALSA) DefaultDevice() (input.Device, error) {
	return ALSADevice("default"), nil
}

func (p ALSA) Start(cfg input.SessionConfig) (input.Session, error) {
	dv, ok := cfg.Device.(ALSADevice)
	if !ok {
		return nil, fmt.Errorf("invalid device type %T", cfg.Device)
	}

	return NewSession(dv, cfg)
}

// ALSADevice is an alsa "hw:C,D" device string.
type ALSADevice string

// ParseALSADevice turns the zero-padded "CC-DD" prefix of a
// /proc/asound/pcm line into the "hw:C,D" form ffmpeg expects.
func ParseALSADevice(pcmPrefix string) (ALSADevice, error) {
	var card, dev int
	if _, err := fmt.Sscanf(pcmPrefix, "%d-%d", &card, &dev); err != nil {
		return "", errors.Wrapf(err, "malformed pcm entry %q", pcmPrefix)
	}

	return ALSADevice(fmt.Sprintf("hw:%d,%d", card, dev)), nil
}

func (d ALSADevice) InputArgs() []string {
	return []string{"-f", "alsa", "-i", string(d)}
}

func (d ALSADevice) String() string {
	return string(d)
}
