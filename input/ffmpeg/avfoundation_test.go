//go:build darwin

package ffmpeg

import (
	"strings"
	"testing"
)

const deviceListing = `[AVFoundation indev @ 0x7f8] AVFoundation video devices:
[AVFoundation indev @ 0x7f8] [0] FaceTime HD Camera
[AVFoundation indev @ 0x7f8] AVFoundation audio devices:
[AVFoundation indev @ 0x7f8] [0] Built-in Microphone
[AVFoundation indev @ 0x7f8] [1] USB Audio Device
: Input/output error
`

func TestParseDeviceListing(t *testing.T) {
	devices, err := parseDeviceListing(strings.NewReader(deviceListing))
	if err != nil {
		t.Fatalf("parseDeviceListing returned %v", err)
	}

	want := []AVFoundationDevice{
		{Index: 0, Name: "Built-in Microphone"},
		{Index: 1, Name: "USB Audio Device"},
	}

	if len(devices) != len(want) {
		t.Fatalf("got %d devices, want %d", len(devices), len(want))
	}
	for i, w := range want {
		if devices[i] != w {
			t.Errorf("device %d = %v, want %v", i, devices[i], w)
		}
	}
}

func TestParseDeviceListingEmpty(t *testing.T) {
	if _, err := parseDeviceListing(strings.NewReader(": Input/output error\n")); err == nil {
		t.Fatal("expected an error for a listing with no audio devices")
	}
}
