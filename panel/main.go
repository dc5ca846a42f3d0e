// Command panel is a desktop simulator of the dispensing station front
// panel: the 16x2 LCD, both buttons, the pump relay and indicator lamps,
// and a weight slider standing in for the vessel on the load cell.
package main

import (
	"context"
	"flag"
	"fmt"
	"image/color"
	"log"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/anishk2/liqd-dispensing-mach/pkg/config"
	"github.com/anishk2/liqd-dispensing-mach/pkg/eeprom"
	"github.com/anishk2/liqd-dispensing-mach/pkg/hal"
	"github.com/anishk2/liqd-dispensing-mach/pkg/machine"
	"github.com/anishk2/liqd-dispensing-mach/pkg/mock"
)

func main() {
	var (
		configFlag = flag.String("config", "config.yaml", "Configuration file path")
		eepromFlag = flag.String("eeprom", "", "Threshold store image path override")
		debugFlag  = flag.Bool("debug", false, "Enable debug logging")
	)
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *eepromFlag != "" {
		cfg.Store.Image = *eepromFlag
	}

	logger := hal.NewDefaultLogger(*debugFlag)
	defer logger.Sync()

	img, err := eeprom.OpenImage(cfg.Store.Image, cfg.Store.Size)
	if err != nil {
		logger.Fatalf("Failed to open threshold store %s: %v", cfg.Store.Image, err)
	}

	// Create Fyne application
	application := app.NewWithID("com.anishk2.liqd-panel")

	window := application.NewWindow("Dispensing Station Panel")
	window.Resize(fyne.NewSize(420, 360))
	window.CenterOnScreen()

	state := &panelState{
		cfg:    cfg,
		rig:    mock.New(&cfg.Mock),
		store:  eeprom.NewStore(img),
		logger: logger,
		window: window,
	}

	window.SetContent(buildPanel(state))
	window.SetOnClosed(state.stop)
	window.ShowAndRun()
}

// panelState holds the simulator state.
type panelState struct {
	cfg    *config.Config
	rig    *mock.Rig
	store  *eeprom.Store
	logger hal.Logger
	window fyne.Window

	lcdRows   [hal.DisplayRows]*canvas.Text
	relayLamp *canvas.Circle
	indLamp   *canvas.Circle
	weightLbl *widget.Label
	powerBtn  *widget.Button

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped chan struct{}
}

func buildPanel(state *panelState) fyne.CanvasObject {
	// LCD: two monospace rows on a dark background.
	for i := range state.lcdRows {
		t := canvas.NewText("", color.RGBA{R: 0x30, G: 0xd0, B: 0x60, A: 0xff})
		t.TextStyle = fyne.TextStyle{Monospace: true}
		t.TextSize = 22
		state.lcdRows[i] = t
	}
	lcdBG := canvas.NewRectangle(color.RGBA{R: 0x10, G: 0x20, B: 0x18, A: 0xff})
	lcd := container.NewStack(lcdBG, container.NewPadded(container.NewVBox(
		state.lcdRows[0], state.lcdRows[1],
	)))
	state.rig.LCD.OnUpdate(func() {
		row0 := state.rig.LCD.RowPadded(0)
		row1 := state.rig.LCD.RowPadded(1)
		fyne.Do(func() {
			state.lcdRows[0].Text = row0
			state.lcdRows[1].Text = row1
			state.lcdRows[0].Refresh()
			state.lcdRows[1].Refresh()
		})
	})

	// Pump relay and indicator lamps.
	state.relayLamp = newLamp()
	state.indLamp = newLamp()
	state.rig.Relay.OnChange(func(on bool) { setLamp(state.relayLamp, on, color.RGBA{R: 0xe0, G: 0x40, B: 0x30, A: 0xff}) })
	state.rig.Indicator.OnChange(func(on bool) { setLamp(state.indLamp, on, color.RGBA{R: 0x30, G: 0xb0, B: 0xe0, A: 0xff}) })
	lamps := container.NewHBox(
		widget.NewLabel("Pump"), state.relayLamp,
		widget.NewLabel("Lamp"), state.indLamp,
	)

	// Front panel buttons hold while the mouse button is down.
	dispenseBtn := newHoldButton("DISPENSE", state.rig.Dispense.Press, state.rig.Dispense.Release)
	modeBtn := newHoldButton("MODE", state.rig.Mode.Press, state.rig.Mode.Release)

	// Vessel weight control: the slider drains or tops up the simulated
	// vessel, the label tracks pump-driven fill.
	state.weightLbl = widget.NewLabel("0.0 g")
	slider := widget.NewSlider(0, 1500)
	slider.Step = 1
	slider.OnChanged = func(v float64) { state.rig.SetWeight(v) }
	go state.trackWeight(slider)

	state.powerBtn = widget.NewButton("Power On", func() { state.togglePower() })

	return container.NewVBox(
		lcd,
		lamps,
		container.NewGridWithColumns(2, dispenseBtn, modeBtn),
		widget.NewSeparator(),
		container.NewBorder(nil, nil, widget.NewLabel("Vessel"), state.weightLbl, slider),
		state.powerBtn,
	)
}

func newLamp() *canvas.Circle {
	c := canvas.NewCircle(color.RGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xff})
	c.Resize(fyne.NewSize(20, 20))
	return c
}

func setLamp(lamp *canvas.Circle, on bool, onColor color.Color) {
	fyne.Do(func() {
		if on {
			lamp.FillColor = onColor
		} else {
			lamp.FillColor = color.RGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xff}
		}
		lamp.Refresh()
	})
}

// togglePower starts or stops the control loop. Buttons held at power-on
// reach Boot, so the calibration and inspection entry combos work the same
// way they do on the real station.
func (s *panelState) togglePower() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
		<-s.stopped
		s.powerBtn.SetText("Power On")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.stopped = make(chan struct{})
	s.powerBtn.SetText("Power Off")

	ctl := machine.New(s.rig.HAL(), s.store, s.cfg.Machine, machine.WithLogger(s.logger))
	go func() {
		defer close(s.stopped)
		ctl.Boot(ctx)
		ctl.Run(ctx)
	}()
}

func (s *panelState) stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
		<-s.stopped
	}
}

// trackWeight mirrors pump-driven fill back onto the slider and label.
func (s *panelState) trackWeight(slider *widget.Slider) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for range ticker.C {
		w := s.rig.Weight()
		fyne.Do(func() {
			s.weightLbl.SetText(fmt.Sprintf("%.1f g", w))
			if slider.Value != w {
				slider.Value = w
				slider.Refresh()
			}
		})
	}
}
