// Command dmgcore runs a cartridge image against the core emulator
// and displays it in an ebiten window.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sqweek/dialog"

	"github.com/brineflow/dmgcore/internal/config"
	"github.com/brineflow/dmgcore/internal/joypad"
	"github.com/brineflow/dmgcore/internal/machine"
	"github.com/brineflow/dmgcore/internal/machine/debug"
	"github.com/brineflow/dmgcore/internal/ppu"
	"github.com/brineflow/dmgcore/pkg/display"
	"github.com/brineflow/dmgcore/pkg/snapshot"
)

var keymap = map[ebiten.Key]joypad.Key{
	ebiten.KeyArrowRight: joypad.Right,
	ebiten.KeyArrowLeft:  joypad.Left,
	ebiten.KeyArrowUp:    joypad.Up,
	ebiten.KeyArrowDown:  joypad.Down,
	ebiten.KeyZ:          joypad.A,
	ebiten.KeyX:          joypad.B,
	ebiten.KeyEnter:      joypad.Start,
	ebiten.KeyShiftRight: joypad.Select,
}

func main() {
	romPath := flag.String("rom", "", "the cartridge image to load")
	bootPath := flag.String("boot", "", "optional 256-byte DMG boot ROM image")
	scale := flag.Int("scale", 4, "integer window scale factor")
	debugWS := flag.Bool("debugws", false, "serve a websocket frame stream for remote viewing")
	debugAddr := flag.String("debugaddr", "localhost:6061", "address for -debugws")
	flag.Parse()

	if *romPath == "" {
		path, err := dialog.File().Filter("Game Boy ROM", "gb", "gbc", "zip", "7z").Title("Open ROM").Load()
		if err != nil {
			log.Fatalf("dmgcore: no rom given and file picker failed: %v", err)
		}
		*romPath = path
	}

	rom, err := config.LoadROM(*romPath)
	if err != nil {
		log.Fatalf("dmgcore: %v", err)
	}

	var opts []machine.Option
	if *bootPath != "" {
		boot, err := config.LoadBootROM(*bootPath)
		if err != nil {
			log.Fatalf("dmgcore: %v", err)
		}
		opts = append(opts, machine.WithBootROM(boot))
	}

	m, err := machine.New(rom, opts...)
	if err != nil {
		log.Fatalf("dmgcore: %v", err)
	}
	cart := m.Cartridge()
	fmt.Printf("dmgcore: running %s (%s, hash %016x)\n", *romPath, cart.Title(), cart.Checksum())

	var dbg *debug.Server
	if *debugWS {
		dbg = debug.NewServer()
		go func() {
			if err := http.ListenAndServe(*debugAddr, dbg.Handler()); err != nil {
				log.Printf("dmgcore: debug server: %v", err)
			}
		}()
	}

	windowScale := *scale
	ebiten.SetWindowSize(ppu.ScreenWidth*windowScale, ppu.ScreenHeight*windowScale)
	ebiten.SetWindowTitle("dmgcore")

	if err := ebiten.RunGame(&game{m: m, scale: *scale, dbg: dbg}); err != nil {
		log.Fatalf("dmgcore: %v", err)
	}
}

// game adapts a *machine.Machine to ebiten.Game: Update steps whole
// emulated frames, Draw blits the converted frame buffer.
type game struct {
	m     *machine.Machine
	scale int
	dbg   *debug.Server
	tex   *ebiten.Image
}

func (g *game) Update() error {
	for key, button := range keymap {
		g.m.SetKey(button, ebiten.IsKeyPressed(key))
	}

	if _, err := g.m.StepFrame(); err != nil {
		return fmt.Errorf("dmgcore: %w", err)
	}

	if inpututilJustPressed(ebiten.KeyF12) {
		img := display.FrameToImage(g.m.Frame())
		if err := snapshot.WriteFile(img, snapshot.DefaultName()); err != nil {
			log.Printf("dmgcore: screenshot: %v", err)
		}
	}
	if inpututilJustPressed(ebiten.KeyF11) {
		img := display.FrameToImage(g.m.Frame())
		if err := snapshot.CopyToClipboard(img); err != nil {
			log.Printf("dmgcore: clipboard: %v", err)
		}
	}

	if g.dbg != nil {
		g.dbg.Push(display.FrameToImage(g.m.Frame()))
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	scaled := display.Scale(display.FrameToImage(g.m.Frame()), g.scale)
	if g.tex == nil {
		g.tex = ebiten.NewImageFromImage(scaled)
	} else {
		g.tex.WritePixels(scaled.Pix)
	}
	screen.DrawImage(g.tex, nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ppu.ScreenWidth * g.scale, ppu.ScreenHeight * g.scale
}

var justPressedState = map[ebiten.Key]bool{}

// inpututilJustPressed is a minimal rising-edge detector so this
// command doesn't need the separate inpututil dependency for two keys.
func inpututilJustPressed(key ebiten.Key) bool {
	pressed := ebiten.IsKeyPressed(key)
	was := justPressedState[key]
	justPressedState[key] = pressed
	return pressed && !was
}
