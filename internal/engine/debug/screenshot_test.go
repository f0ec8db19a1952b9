package debug

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type frame struct {
	pixels []byte
	w, h   int32
}

func (f frame) CaptureImage() ([]byte, int32, int32) { return f.pixels, f.w, f.h }

func fixedClock(sc *ScreenshotCapture) {
	at := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	sc.now = func() time.Time { return at }
}

func TestCaptureWritesPNG(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	sc := NewScreenshotCapture(dir, "glscene")
	fixedClock(sc)

	// top row red, bottom row blue
	pixels := []byte{
		255, 0, 0, 255,
		0, 0, 255, 255,
	}
	name, err := sc.Capture(frame{pixels: pixels, w: 1, h: 2})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "glscene_2024-05-01_12-30-00.png"), name)

	f, err := os.Open(name)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)

	r, _, _, _ := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	_, _, b, _ := img.At(0, 1).RGBA()
	assert.Equal(t, uint32(0xffff), b)
}

func TestCaptureSizeMismatch(t *testing.T) {
	sc := NewScreenshotCapture(t.TempDir(), "x")
	_, err := sc.Capture(frame{pixels: make([]byte, 3), w: 1, h: 1})
	assert.Error(t, err)
}

func TestFilenamesDoNotCollide(t *testing.T) {
	sc := NewScreenshotCapture("", "shot")
	fixedClock(sc)
	assert.Equal(t, "shot_2024-05-01_12-30-00.png", sc.GenerateFilename())
	assert.Equal(t, "shot_2024-05-01_12-30-00_1.png", sc.GenerateFilename())
}
