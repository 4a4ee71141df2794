package ui

import (
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// debug font glyph width in pixels
const charWidth = 6

// maxChars returns how many debug font characters fit on a line of width w
// starting at x.
func maxChars(w, x int) int {
	n := (w - x - 4) / charWidth
	if n < 1 {
		n = 1
	}
	return n
}

// truncate shortens s to n characters, ending in "..." when cut.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}

// wrap splits s on spaces into lines of at most n characters. Words longer
// than n are truncated.
func wrap(s string, n int) []string {
	var lines []string
	line := ""
	for _, w := range strings.Fields(s) {
		switch {
		case line == "":
			line = truncate(w, n)
		case len(line)+1+len(w) <= n:
			line += " " + w
		default:
			lines = append(lines, line)
			line = truncate(w, n)
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// scrollWindow adjusts the first visible row so that sel stays in view.
func scrollWindow(sel, off, rows, n int) int {
	if sel < off {
		off = sel
	}
	if sel >= off+rows {
		off = sel - rows + 1
	}
	return clamp(off, 0, n-1)
}

// sameSize reports whether r is exactly w by h.
func sameSize(r image.Rectangle, w, h int) bool {
	return r.Dx() == w && r.Dy() == h
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// listROMs recursively collects CHIP-8 programs under dir, sorted by path.
// A missing directory yields an empty list.
func listROMs(dir string) ([]string, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}
	var out []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(d.Name())) {
		case ".ch8", ".c8":
			out = append(out, path)
		}
		return nil
	})
	sort.Strings(out)
	return out, err
}
