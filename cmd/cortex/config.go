package main

import (
	"errors"
)

// config holds everything the flags can set.
type config struct {
	// backend is the backend name from list-backends
	backend string
	// device is the device name from list-devices
	device string
	// sampleRate is the rate at which samples are read
	sampleRate float64
	// sampleSize is the number of samples per training window
	sampleSize int
	// displaySeconds is how much raw audio the waveform snapshot keeps
	displaySeconds int
	// mapWidth/mapHeight fix the SOM grid for the process lifetime
	mapWidth  int
	mapHeight int
	// sigma is the gaussian neighborhood radius
	sigma float64
	// learnRate is the per-step learning rate
	learnRate float64
	// seed initializes the map weights
	seed int64
	// resultsDir receives final and autosaved weight files
	resultsDir string
	// autosaveSeconds between weight snapshots; 0 disables autosave
	autosaveSeconds int
}

// newZeroConfig returns the defaults, matching a 20x20 map fed 2048
// sample windows at 44.1 kHz.
func newZeroConfig() config {
	return config{
		sampleRate:      44100,
		sampleSize:      2048,
		displaySeconds:  4,
		mapWidth:        20,
		mapHeight:       20,
		sigma:           3.0,
		learnRate:       0.5,
		seed:            1,
		resultsDir:      "auditory_som_results",
		autosaveSeconds: 0,
	}
}

// Sanitize cleans things up
func (cfg *config) Sanitize() error {

	if cfg.sampleRate < float64(cfg.sampleSize) {
		return errors.New("sample rate lower than sample size")
	}

	if cfg.sampleSize < 4 {
		return errors.New("sample size too small (4+ required)")
	}

	if cfg.displaySeconds < 1 {
		return errors.New("display window too small (1s+ required)")
	}

	if cfg.mapWidth < 1 || cfg.mapHeight < 1 {
		return errors.New("map dimensions must be positive")
	}

	if cfg.sigma <= 0 {
		return errors.New("sigma must be positive")
	}

	if cfg.learnRate <= 0 || cfg.learnRate > 1 {
		return errors.New("learning rate must be in (0, 1]")
	}

	return nil
}
