// Command dispenser runs the dispensing station control loop headless,
// driving real hardware over a serial link or a simulated rig.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/anishk2/liqd-dispensing-mach/pkg/bridge"
	"github.com/anishk2/liqd-dispensing-mach/pkg/config"
	"github.com/anishk2/liqd-dispensing-mach/pkg/eeprom"
	"github.com/anishk2/liqd-dispensing-mach/pkg/hal"
	"github.com/anishk2/liqd-dispensing-mach/pkg/machine"
	"github.com/anishk2/liqd-dispensing-mach/pkg/mock"
)

func main() {
	var (
		portFlag   = flag.String("p", "", "Serial port override (e.g., COM3 or /dev/ttyACM0)")
		configFlag = flag.String("config", "config.yaml", "Configuration file path")
		eepromFlag = flag.String("eeprom", "", "Threshold store image path override")
		mockFlag   = flag.Bool("mock", false, "Use a simulated rig instead of a serial port")
		debugFlag  = flag.Bool("debug", false, "Enable debug logging")
	)
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if *portFlag != "" {
		cfg.Serial.Port = *portFlag
	}
	if *eepromFlag != "" {
		cfg.Store.Image = *eepromFlag
	}

	logger := hal.NewDefaultLogger(*debugFlag)
	defer logger.Sync()

	// Open the threshold store
	img, err := eeprom.OpenImage(cfg.Store.Image, cfg.Store.Size)
	if err != nil {
		logger.Fatalf("Failed to open threshold store %s: %v", cfg.Store.Image, err)
	}
	store := eeprom.NewStore(img)

	// Attach the rig
	var rig hal.Rig
	if *mockFlag {
		logger.Info("using simulated rig")
		rig = mock.New(&cfg.Mock).HAL()
	} else {
		link := bridge.New(cfg.Serial.Port, bridge.WithLogger(logger))
		if err := link.Connect(); err != nil {
			logger.Fatalf("Failed to connect to %s: %v", cfg.Serial.Port, err)
		}
		defer link.Close()
		logger.Infof("connected to %s", cfg.Serial.Port)
		rig = link.HAL()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		logger.Info("shutting down")
		cancel()
	}()

	ctl := machine.New(rig, store, cfg.Machine, machine.WithLogger(logger))
	ctl.Boot(ctx)
	ctl.Run(ctx)

	if err := img.Err(); err != nil {
		logger.Errorf("threshold store flush failed: %v", err)
	}
}
