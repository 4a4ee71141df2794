package ui

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/retroenv/retrogolib/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "pong.ch8", truncate("pong.ch8", 8))
	assert.Equal(t, "pon...", truncate("pong.ch8", 6))
	assert.Equal(t, "po", truncate("pong.ch8", 2))
}

func TestWrap(t *testing.T) {
	got := wrap("Halted: stack overflow at pc=2A4", 12)
	want := []string{"Halted:", "stack", "overflow at", "pc=2A4"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("wrap mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 0, len(wrap("", 10)))
}

func TestScrollWindow(t *testing.T) {
	assert.Equal(t, 0, scrollWindow(0, 0, 5, 20))
	assert.Equal(t, 3, scrollWindow(7, 0, 5, 20))
	assert.Equal(t, 2, scrollWindow(2, 6, 5, 20))
}

func TestSameSize(t *testing.T) {
	r := image.Rect(0, 0, 640, 320)
	assert.True(t, sameSize(r, 640, 320))
	assert.False(t, sameSize(r, 800, 320))
	assert.False(t, sameSize(image.Rectangle{}, 640, 320))
}

func TestMaxChars(t *testing.T) {
	assert.Equal(t, 104, maxChars(640, 10))
	assert.Equal(t, 1, maxChars(0, 10))
}

func TestListROMs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.ch8", "a.CH8", "sub/c.c8", "notes.txt"} {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte{0x12, 0x00}, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	got, err := listROMs(dir)
	assert.NoError(t, err)
	want := []string{
		filepath.Join(dir, "a.CH8"),
		filepath.Join(dir, "b.ch8"),
		filepath.Join(dir, "sub", "c.c8"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("listROMs mismatch (-want +got):\n%s", diff)
	}

	got, err = listROMs(filepath.Join(dir, "missing"))
	assert.NoError(t, err)
	assert.Equal(t, 0, len(got))
}
