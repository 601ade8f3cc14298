package domain

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

const (
	DefaultFPS    = 20
	DefaultWidth  = 800
	DefaultHeight = 600

	OutputExt = ".webp"
)

// VideoExtensions are the extensions offered by the file dialog filter.
var VideoExtensions = []string{".mp4", ".avi", ".mov", ".mkv", ".flv", ".wmv"}

type ConversionStatus string

const (
	ConversionStatusDone   ConversionStatus = "done"
	ConversionStatusFailed ConversionStatus = "failed"
)

// ConvertOptions controls the encoder. A zero FPS means DefaultFPS; zero
// Width and Height together mean DefaultWidth x DefaultHeight.
type ConvertOptions struct {
	FPS    int
	Width  int
	Height int
}

// WithDefaults fills in what was not supplied. Dimensions are defaulted only
// when both are zero, so a probed size is passed to ffmpeg as-is.
func (o ConvertOptions) WithDefaults() ConvertOptions {
	if o.FPS <= 0 {
		o.FPS = DefaultFPS
	}
	if o.Width == 0 && o.Height == 0 {
		o.Width = DefaultWidth
		o.Height = DefaultHeight
	}
	return o
}

func (o ConvertOptions) Dimensions() Dimensions {
	return Dimensions{Width: o.Width, Height: o.Height}
}

// OutputPath strips the extension of inputPath and appends ".webp".
func OutputPath(inputPath string) string {
	return strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + OutputExt
}

// Conversion is one attempted run, as stored in the history ledger.
type Conversion struct {
	ID           int64
	InputPath    string
	OutputPath   string
	Width        int
	Height       int
	FPS          int
	Status       ConversionStatus
	ErrorMessage string
	FileSize     int64
	CreatedAt    time.Time
}

func NewConversion(inputPath, outputPath string, opts ConvertOptions) *Conversion {
	return &Conversion{
		InputPath:  inputPath,
		OutputPath: outputPath,
		Width:      opts.Width,
		Height:     opts.Height,
		FPS:        opts.FPS,
		CreatedAt:  time.Now(),
	}
}

func (c *Conversion) MarkAsDone(fileSize int64) {
	c.Status = ConversionStatusDone
	c.FileSize = fileSize
	c.ErrorMessage = ""
}

func (c *Conversion) MarkAsFailed(err error) {
	c.Status = ConversionStatusFailed
	c.ErrorMessage = err.Error()
}

const (
	oneKilobyte = 1024
	oneMegabyte = oneKilobyte * 1024
	oneGigabyte = oneMegabyte * 1024
)

func FormatSize(bytes int64) string {
	if bytes < oneKilobyte {
		return fmt.Sprintf("%d B", bytes)
	}
	if bytes < oneMegabyte {
		return fmt.Sprintf("%.1f KB", float64(bytes)/oneKilobyte)
	}
	if bytes < oneGigabyte {
		return fmt.Sprintf("%.1f MB", float64(bytes)/oneMegabyte)
	}
	return fmt.Sprintf("%.1f GB", float64(bytes)/oneGigabyte)
}
