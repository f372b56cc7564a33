package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/auricle/cortex"
	"github.com/auricle/cortex/input"

	_ "github.com/auricle/cortex/input/all"

	"github.com/integrii/flaggy"
	"github.com/pkg/errors"
)

// AppName is the app name
const AppName = "cortex"

// AppDesc is the app description
const AppDesc = "live auditory cortex - online SOM training on microphone input"

// AppSite is the app website
const AppSite = "https://github.com/auricle/cortex"

var version = "unknown"

func main() {
	log.SetFlags(0)

	cfg := newZeroConfig()

	if doFlags(&cfg) {
		return
	}

	chk(cfg.Sanitize(), "invalid config")

	chk(run(&cfg), "failed to run cortex")
}

// run builds the pipeline and trains until the stream ends or a signal
// arrives. A device that cannot be opened surfaces as an error, which
// chk turns into a non-zero exit.
func run(cfg *config) error {

	// INPUT SETUP

	backend, err := input.InitBackend(cfg.backend)
	if err != nil {
		return err
	}
	defer backend.Close()

	sessConfig := input.SessionConfig{
		SampleRate: cfg.sampleRate,
		SampleSize: cfg.sampleSize,
	}

	if sessConfig.Device, err = input.GetDevice(backend, cfg.device); err != nil {
		return err
	}

	session, err := backend.Start(sessConfig)
	if err != nil {
		return errors.Wrap(err, "failed to start the input backend")
	}

	// PIPELINE SETUP

	c := cortex.New(cortex.Config{
		SampleRate:     cfg.sampleRate,
		SampleSize:     cfg.sampleSize,
		DisplaySeconds: cfg.displaySeconds,
		MapWidth:       cfg.mapWidth,
		MapHeight:      cfg.mapHeight,
		Sigma:          cfg.sigma,
		LearnRate:      cfg.learnRate,
		Seed:           cfg.seed,
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		<-sigCh
		log.Println("interrupt - stopping capture")
		c.RequestStop()
	}()

	if cfg.autosaveSeconds > 0 {
		go c.Autosave(cfg.resultsDir, time.Duration(cfg.autosaveSeconds)*time.Second)
	}

	log.Println("listening - press ctrl-c to stop")

	if err := c.Run(session); err != nil {
		return err
	}

	if c.Failed() {
		return errors.New("training pipeline failed; see log")
	}

	// FINALIZE

	steps := c.TrainedSteps()
	log.Printf("stopped after %d training steps", steps)

	weightsPath := filepath.Join(cfg.resultsDir, "final_som_weights.npy")
	if err := c.SaveWeights(weightsPath); err != nil {
		log.Printf("warning: failed to save final weights: %v", err)
	} else {
		log.Printf("final weights saved to %s", weightsPath)
	}

	if steps > 0 {
		historyPath := filepath.Join(cfg.resultsDir, "feature_history.npy")
		if err := c.SaveHistory(historyPath); err != nil {
			log.Printf("warning: failed to save feature history: %v", err)
		} else {
			log.Printf("feature history saved to %s", historyPath)
		}
	}

	return nil
}

func doFlags(cfg *config) bool {

	parser := flaggy.NewParser(AppName)
	parser.Description = AppDesc
	parser.AdditionalHelpPrepend = AppSite
	parser.Version = version

	listBackendsCmd := flaggy.Subcommand{
		Name:                 "list-backends",
		ShortName:            "lb",
		Description:          "list all supported backends",
		AdditionalHelpAppend: "\nuse the full name after the '-'",
	}

	parser.AttachSubcommand(&listBackendsCmd, 1)

	listDevicesCmd := flaggy.Subcommand{
		Name:                 "list-devices",
		ShortName:            "ld",
		Description:          "list all devices for a backend",
		AdditionalHelpAppend: "\nuse the full name after the '-'",
	}

	parser.AttachSubcommand(&listDevicesCmd, 1)

	parser.String(&cfg.backend, "b", "backend", "backend name")
	parser.String(&cfg.device, "d", "device", "device name")
	parser.Float64(&cfg.sampleRate, "r", "rate", "sample rate")
	parser.Int(&cfg.sampleSize, "n", "samples", "samples per training window")
	parser.Int(&cfg.displaySeconds, "ws", "window", "seconds of audio kept for waveform readers")
	parser.Int(&cfg.mapWidth, "mx", "map-width", "SOM grid width")
	parser.Int(&cfg.mapHeight, "my", "map-height", "SOM grid height")
	parser.Float64(&cfg.sigma, "sg", "sigma", "SOM neighborhood radius")
	parser.Float64(&cfg.learnRate, "lr", "learn-rate", "SOM learning rate (0, 1]")
	parser.Int64(&cfg.seed, "sd", "seed", "weight initialization seed")
	parser.String(&cfg.resultsDir, "o", "out", "directory for saved weights")
	parser.Int(&cfg.autosaveSeconds, "as", "autosave", "seconds between autosaves (0 disables)")

	chk(parser.Parse(), "failed to parse arguments")

	if cfg.backend == "" {
		cfg.backend = input.DefaultBackend()
	}

	switch {
	case listBackendsCmd.Used:
		for _, backend := range input.Backends {
			fmt.Printf("- %s\n", backend.Name)
		}

		return true

	case listDevicesCmd.Used:
		backend, err := input.InitBackend(cfg.backend)
		chk(err, "failed to init backend")
		defer backend.Close()

		devices, err := backend.Devices()
		chk(err, "failed to get devices")

		// We don't really need the default device to be indicated.
		defaultDevice, _ := backend.DefaultDevice()

		fmt.Printf("all devices for %q backend. '*' marks default\n", cfg.backend)

		for idx := range devices {
			star := ' '
			if defaultDevice != nil && devices[idx].String() == defaultDevice.String() {
				star = '*'
			}

			fmt.Printf("- %v %c\n", devices[idx], star)
		}

		return true
	}

	return false
}

func chk(err error, wrap string) {
	if err != nil {
		log.Fatalln(wrap+":", err)
	}
}
