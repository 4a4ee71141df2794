package ui

import (
	"errors"
	"fmt"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/display"
	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/emu"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const fastForwardFrames = 5

type App struct {
	cfg    Config
	m      *emu.Machine
	tex    *ebiten.Image
	beep   *ebiten.Image
	shade  *ebiten.Image // menu backdrop, sized to the layout
	paused bool
	fast   bool
	keymap [16]ebiten.Key

	curW, curH int

	// overlay/menu
	showMenu    bool
	menuMode    string // "main", "rom", "keys", "settings"
	menuIdx     int
	romList     []string
	romSel      int
	romOff      int
	keysOff     int
	settingsOff int

	editingROMDir bool
	romDirInput   string

	toastMsg   string
	toastUntil time.Time
}

func NewApp(cfg Config, m *emu.Machine) *App {
	cfg.Defaults()
	m.SetPalette(display.Palette{On: cfg.OnColor, Off: cfg.OffColor})
	a := &App{cfg: cfg, m: m, keymap: Keymap(cfg.Layout), menuMode: "main"}
	ebiten.SetWindowTitle(a.windowTitle())
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	a.applyWindowSize()
	if cfg.ShowHelp {
		a.toast("Esc: menu  P: pause  N: step  F5: reset  Tab: fast  F12: screenshot")
	}
	return a
}

func (a *App) Run() error { return ebiten.RunGame(a) }

func (a *App) Update() error {
	// Keyboard -> keypad. Keys are released while the menu is open.
	if a.showMenu {
		a.m.SetKeys([16]bool{})
	} else {
		a.m.SetKeys(readKeypad(a.keymap, ebiten.IsKeyPressed))
	}

	// Toggle menu (Escape)
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) && (!a.showMenu || a.menuMode == "main") {
		a.showMenu = !a.showMenu
		a.menuMode = "main"
		a.menuIdx = 0
		return nil
	}
	if a.showMenu {
		switch a.menuMode {
		case "rom":
			a.updateRomMenu()
		case "keys":
			a.updateKeysMenu()
		case "settings":
			a.updateSettingsMenu()
		default:
			a.updateMainMenu()
		}
		return nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}

	// Pause toggle (P)
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		a.paused = !a.paused
	}

	// Fast-forward (Tab): while held, run multiple frames per Ebiten update
	a.fast = ebiten.IsKeyPressed(ebiten.KeyTab)

	// Reset (F5, since R is a keypad key in the QWERTY layout)
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		a.m.Reset()
		a.toast("Reset")
	}

	// Frame-step when paused (N)
	if a.paused && inpututil.IsKeyJustPressed(ebiten.KeyN) {
		_ = a.m.StepFrame()
	}

	// Screenshot (F12)
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		if name, err := a.saveScreenshot(); err != nil {
			a.toast("Screenshot failed: " + err.Error())
		} else {
			a.toast("Saved " + name)
		}
	}

	if !a.paused && a.m.HasROM() && a.m.Err() == nil {
		n := 1
		if a.fast {
			n = fastForwardFrames
		}
		for i := 0; i < n; i++ {
			if err := a.m.StepFrame(); err != nil {
				break
			}
		}
	}
	return nil
}

func (a *App) Draw(screen *ebiten.Image) {
	if a.tex == nil {
		a.tex = ebiten.NewImage(display.Width, display.Height)
	}
	screen.Fill(a.cfg.OffColor)
	a.tex.WritePixels(a.m.Framebuffer())

	sx := float64(a.curW) / display.Width
	sy := float64(a.curH) / display.Height
	s := sx
	if sy < s {
		s = sy
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(s, s)
	op.GeoM.Translate((float64(a.curW)-s*display.Width)/2, (float64(a.curH)-s*display.Height)/2)
	screen.DrawImage(a.tex, op)

	// sound timer indicator
	if a.m.SoundActive() {
		if a.beep == nil {
			a.beep = ebiten.NewImage(8, 8)
			a.beep.Fill(color.RGBA{0xE0, 0x30, 0x30, 0xFF})
		}
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(float64(a.curW-12), 4)
		screen.DrawImage(a.beep, op)
	}

	if a.showMenu {
		screen.DrawImage(a.menuShade(), nil)
		switch a.menuMode {
		case "rom":
			a.drawRomMenu(screen)
		case "keys":
			a.drawKeysMenu(screen)
		case "settings":
			a.drawSettingsMenu(screen)
		default:
			a.drawMainMenu(screen)
		}
		return
	}

	status := ""
	switch {
	case !a.m.HasROM():
		status = "No ROM loaded. Press Esc to open the menu."
	case a.m.Err() != nil:
		status = "Halted: " + a.m.Err().Error() + " (F5 to reset)"
	case a.paused:
		status = "Paused"
	}
	if status != "" {
		for i, line := range a.wrapText(status, a.maxCharsForText(4)) {
			ebitenutil.DebugPrintAt(screen, line, 4, a.curH-18-i*14)
		}
	}
	if a.toastMsg != "" && time.Now().Before(a.toastUntil) {
		ebitenutil.DebugPrintAt(screen, a.truncateText(a.toastMsg, a.maxCharsForText(4)), 4, 4)
	}
}

func (a *App) menuShade() *ebiten.Image {
	if a.shade != nil {
		if sameSize(a.shade.Bounds(), a.curW, a.curH) {
			return a.shade
		}
		a.shade.Deallocate()
	}
	a.shade = ebiten.NewImage(a.curW, a.curH)
	a.shade.Fill(color.RGBA{0, 0, 0, 192})
	return a.shade
}

func (a *App) Layout(outW, outH int) (int, int) {
	a.curW, a.curH = outW, outH
	return outW, outH
}

func (a *App) applyWindowSize() {
	ebiten.SetWindowSize(display.Width*a.cfg.Scale, display.Height*a.cfg.Scale)
}

func (a *App) windowTitle() string {
	if p := a.m.ROMPath(); p != "" {
		return a.cfg.Title + " - [" + strings.TrimSuffix(filepath.Base(p), filepath.Ext(p)) + "]"
	}
	return a.cfg.Title
}

func (a *App) toast(msg string) {
	a.toastMsg = msg
	a.toastUntil = time.Now().Add(2 * time.Second)
}

func (a *App) saveScreenshot() (string, error) {
	if !a.m.HasROM() {
		return "", errors.New("no ROM loaded")
	}
	img := display.Image(a.m.Display(), a.m.Palette(), a.cfg.Scale)
	ts := time.Now().Format("20060102_150405")
	name := fmt.Sprintf("screenshot_%s.png", ts)
	f, err := os.Create(name)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return name, png.Encode(f, img)
}
