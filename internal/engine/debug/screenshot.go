// Package debug provides screenshot capture for the running scene.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/glscene/internal/logger"
)

// FrameSource yields the current frame as RGBA rows, top row first.
type FrameSource interface {
	CaptureImage() ([]byte, int32, int32)
}

// ScreenshotCapture writes frames to timestamped PNG files.
type ScreenshotCapture struct {
	outputDir string
	prefix    string
	now       func() time.Time
	last      string
	seq       int
}

// NewScreenshotCapture creates a new screenshot capture handler.
func NewScreenshotCapture(outputDir, prefix string) *ScreenshotCapture {
	return &ScreenshotCapture{
		outputDir: outputDir,
		prefix:    prefix,
		now:       time.Now,
	}
}

// SetOutputDir sets the output directory for screenshots.
func (sc *ScreenshotCapture) SetOutputDir(dir string) {
	sc.outputDir = dir
}

// Capture saves the source's current frame and returns the file name.
func (sc *ScreenshotCapture) Capture(src FrameSource) (string, error) {
	pixels, width, height := src.CaptureImage()
	name, err := sc.CaptureFromPixels(pixels, int(width), int(height))
	if err != nil {
		return "", err
	}
	logger.Info("screenshot saved", zap.String("file", name))
	return name, nil
}

// CaptureFromPixels saves top-down RGBA pixel data with width*height*4
// bytes.
func (sc *ScreenshotCapture) CaptureFromPixels(pixels []byte, width, height int) (string, error) {
	if len(pixels) != width*height*4 {
		return "", fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	copy(img.Pix, pixels)
	return sc.CaptureFromImage(img)
}

// CaptureFromImage captures a screenshot from an existing image.
func (sc *ScreenshotCapture) CaptureFromImage(img image.Image) (string, error) {
	if sc.outputDir != "" {
		if err := os.MkdirAll(sc.outputDir, 0o755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := sc.GenerateFilename()
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	return filename, nil
}

// GenerateFilename returns the next screenshot file name. Captures within
// the same second get a numeric suffix.
func (sc *ScreenshotCapture) GenerateFilename() string {
	stamp := sc.now().Format("2006-01-02_15-04-05")
	if stamp == sc.last {
		sc.seq++
	} else {
		sc.last, sc.seq = stamp, 0
	}

	filename := fmt.Sprintf("%s_%s.png", sc.prefix, stamp)
	if sc.seq > 0 {
		filename = fmt.Sprintf("%s_%s_%d.png", sc.prefix, stamp, sc.seq)
	}
	if sc.outputDir != "" {
		filename = filepath.Join(sc.outputDir, filename)
	}
	return filename
}
