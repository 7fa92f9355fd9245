package capture

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.SetRGBA(1, 2, color.RGBA{R: 200, G: 100, B: 50, A: 255})
	return img
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "frame_000000.png", FileName(0))
	assert.Equal(t, "frame_000042.png", FileName(42))
	assert.Equal(t, "frame_1234567.png", FileName(1234567))
}

func TestCaptureWritesSequence(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "frames")
	g := NewGrabber(WithWorkers(2))
	require.NoError(t, g.Enable(dir))
	assert.True(t, g.Enabled())
	assert.Equal(t, dir, g.Path())

	for i := range 5 {
		g.Capture(i, testImage())
	}
	g.Wait()
	assert.Equal(t, 5, g.Written())

	f, err := os.Open(filepath.Join(dir, "frame_000003.png"))
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 3), img.Bounds())
	r, g2, b, _ := img.At(1, 2).RGBA()
	assert.Equal(t, []uint32{200, 100, 50}, []uint32{r >> 8, g2 >> 8, b >> 8})
}

func TestCaptureDisabled(t *testing.T) {
	dir := t.TempDir()
	g := NewGrabber()
	g.Capture(0, testImage())
	g.Wait()
	assert.Zero(t, g.Written())

	require.NoError(t, g.Enable(dir))
	require.NoError(t, g.Enable(""))
	assert.False(t, g.Enabled())
	g.Capture(1, testImage())
	g.Wait()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestEnableFailsUnderFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	g := NewGrabber()
	err := g.Enable(filepath.Join(file, "frames"))
	assert.Error(t, err)
	assert.False(t, g.Enabled())
}
