package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/display"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	minCycles = 1
	maxCycles = 100
	maxScale  = 20
)

func (a *App) updateMainMenu() {
	last := len(mainMenuItems) - 1
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.menuIdx > 0 {
		a.menuIdx--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && a.menuIdx < last {
		a.menuIdx++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		switch a.menuIdx {
		case 0:
			a.m.Reset()
			a.toast("Reset")
			a.showMenu = false
		case 1:
			a.romList = a.findROMs()
			a.romSel = 0
			a.romOff = 0
			a.menuMode = "rom"
		case 2:
			a.menuMode = "settings"
			a.menuIdx = 0
			a.settingsOff = 0
			a.editingROMDir = false
		case 3:
			a.menuMode = "keys"
			a.keysOff = 0
		case 4:
			a.showMenu = false
		}
	}
	// Back with Backspace
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		a.showMenu = false
	}
}

func (a *App) updateRomMenu() {
	back := inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyBackspace)
	n := len(a.romList)
	if n == 0 {
		if back || inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
			a.backToMain(1)
		}
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.romSel > 0 {
		a.romSel--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && a.romSel < n-1 {
		a.romSel++
	}
	a.romOff = scrollWindow(a.romSel, a.romOff, a.visibleRows(40), n)
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		path := a.romList[a.romSel]
		if err := a.m.LoadROMFromFile(path); err == nil {
			a.toast("Loaded ROM: " + filepath.Base(path))
			ebiten.SetWindowTitle(a.windowTitle())
			a.paused = false
			a.showMenu = false
		} else {
			a.toast("ROM load failed: " + err.Error())
		}
		a.backToMain(1)
		return
	}
	if back {
		a.backToMain(1)
	}
}

func (a *App) updateKeysMenu() {
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.keysOff > 0 {
		a.keysOff--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		a.keysOff++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		a.backToMain(3)
	}
}

func (a *App) updateSettingsMenu() {
	// Items order:
	// 0 Scale
	// 1 Speed
	// 2 Key layout
	// 3 Colors
	// 4 ROMs Dir
	const items = 5
	if a.editingROMDir {
		a.updateROMDirInput()
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.menuIdx > 0 {
		a.menuIdx--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && a.menuIdx < items-1 {
		a.menuIdx++
	}
	a.settingsOff = scrollWindow(a.menuIdx, a.settingsOff, a.visibleRows(38), items)

	left := inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft)
	right := inpututil.IsKeyJustPressed(ebiten.KeyArrowRight)
	delta := 0
	if left {
		delta = -1
	} else if right {
		delta = 1
	}

	switch a.menuIdx {
	case 0: // Scale
		if s := clamp(a.cfg.Scale+delta, 1, maxScale); s != a.cfg.Scale {
			a.cfg.Scale = s
			a.applyWindowSize()
		}
	case 1: // Speed
		step := delta
		if ebiten.IsKeyPressed(ebiten.KeyShift) {
			step *= 10
		}
		a.m.SetCyclesPerFrame(clamp(a.m.CyclesPerFrame()+step, minCycles, maxCycles))
	case 2: // Key layout
		if delta != 0 {
			if a.cfg.Layout == LayoutQWERTY {
				a.cfg.Layout = LayoutHex
			} else {
				a.cfg.Layout = LayoutQWERTY
			}
			a.keymap = Keymap(a.cfg.Layout)
			a.toast("Keys: " + a.cfg.Layout.String())
		}
	case 3: // Colors
		if delta != 0 {
			i := paletteIndex(a.m.Palette())
			i = (i + delta + len(palettes)) % len(palettes)
			a.setPalette(palettes[i].Palette)
			a.toast(fmt.Sprintf("Colors: %s", palettes[i].Name))
		}
	case 4: // ROMs Dir
		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
			a.editingROMDir = true
			a.romDirInput = a.cfg.ROMsDir
			return
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		a.backToMain(2)
	}
}

// updateROMDirInput collects typed characters for the ROMs directory.
func (a *App) updateROMDirInput() {
	for _, r := range ebiten.AppendInputChars(nil) {
		if r != '\n' && r != '\r' {
			a.romDirInput += string(r)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) && len(a.romDirInput) > 0 {
		a.romDirInput = a.romDirInput[:len(a.romDirInput)-1]
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		if val := strings.TrimSpace(a.romDirInput); val != "" {
			a.cfg.ROMsDir = val
			a.romList = a.findROMs()
			a.toast(fmt.Sprintf("ROMs dir set (%d found)", len(a.romList)))
		}
		a.editingROMDir = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		a.editingROMDir = false
		a.romDirInput = a.cfg.ROMsDir
	}
}

func (a *App) setPalette(p display.Palette) {
	a.cfg.OnColor, a.cfg.OffColor = p.On, p.Off
	a.m.SetPalette(p)
}

func (a *App) backToMain(idx int) {
	a.menuMode = "main"
	a.menuIdx = idx
}

func (a *App) findROMs() []string {
	roms, err := listROMs(a.cfg.ROMsDir)
	if err != nil {
		a.toast("ROM scan failed: " + err.Error())
	}
	return roms
}

func (a *App) visibleRows(baseY int) int {
	rows := (a.curH - baseY) / 14
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (a *App) maxCharsForText(x int) int { return maxChars(a.curW, x) }

func (a *App) truncateText(s string, n int) string { return truncate(s, n) }

func (a *App) wrapText(s string, n int) []string { return wrap(s, n) }
