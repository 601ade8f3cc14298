package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/bnema/vidwebp/internal/domain"
	"github.com/bnema/vidwebp/internal/infrastructure/logger"
	"github.com/bnema/vidwebp/internal/port"
	"go.uber.org/zap"
)

type Converter struct {
	ffmpegPath  string
	ffprobePath string
	stderr      io.Writer
	logger      *zap.Logger
}

type Option func(*Converter)

// WithStderr sets where ffmpeg's own output goes. Defaults to os.Stderr.
func WithStderr(w io.Writer) Option {
	return func(c *Converter) { c.stderr = w }
}

func NewConverter(ffmpegPath, ffprobePath string, log *zap.Logger, opts ...Option) *Converter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	if log == nil {
		log = zap.NewNop()
	}
	c := &Converter{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		stderr:      os.Stderr,
		logger:      log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func validatePath(path string) error {
	if path == "" {
		return domain.ErrEmptyPath
	}
	if strings.ContainsRune(path, '\x00') {
		return domain.ErrInvalidPath
	}
	return nil
}

func probeArgs(inputPath string) []string {
	return []string{
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height",
		"-of", "csv=p=0:s=x",
		inputPath,
	}
}

func webpArgs(inputPath, outputPath string, opts domain.ConvertOptions) []string {
	return []string{
		"-i", inputPath,
		"-vcodec", "libwebp",
		"-filter:v", "fps=fps=" + strconv.Itoa(opts.FPS),
		"-lossless", "1",
		"-loop", "0",
		"-preset", "default",
		"-an",
		"-vsync", "0",
		"-s", opts.Dimensions().Scale(),
		"-y",
		outputPath,
	}
}

// Probe reads the width and height of the first video stream.
func (c *Converter) Probe(ctx context.Context, inputPath string) (domain.Dimensions, error) {
	if err := validatePath(inputPath); err != nil {
		return domain.Dimensions{}, fmt.Errorf("invalid input path: %w", err)
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.ffprobePath, probeArgs(inputPath)...)
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return domain.Dimensions{}, fmt.Errorf("ffprobe failed: %w: %s", err, msg)
		}
		return domain.Dimensions{}, fmt.Errorf("ffprobe failed: %w", err)
	}

	dims, err := domain.ParseDimensions(string(output))
	if err != nil {
		return domain.Dimensions{}, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	c.logger.Debug("probed video",
		zap.String("path", logger.SanitizeForLog(inputPath)),
		zap.Int("width", dims.Width),
		zap.Int("height", dims.Height),
	)
	return dims, nil
}

// ConvertToWebP encodes inputPath as a looping lossless animated WebP at
// outputPath. A non-zero ffmpeg exit is reported as domain.ErrTranscodeFailed.
func (c *Converter) ConvertToWebP(ctx context.Context, inputPath, outputPath string, opts domain.ConvertOptions) error {
	if err := validatePath(inputPath); err != nil {
		return fmt.Errorf("invalid input path: %w", err)
	}
	if err := validatePath(outputPath); err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}
	opts = opts.WithDefaults()

	args := webpArgs(inputPath, outputPath, opts)
	c.logger.Debug("running ffmpeg",
		zap.String("bin", c.ffmpegPath),
		zap.Strings("args", args),
	)

	cmd := exec.CommandContext(ctx, c.ffmpegPath, args...)
	cmd.Stdout = c.stderr
	cmd.Stderr = c.stderr

	if err := cmd.Run(); err != nil {
		// A killed child after Ctrl-C is not a transcoder failure.
		if ctx.Err() != nil {
			return fmt.Errorf("ffmpeg interrupted: %w", ctx.Err())
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%w: ffmpeg: %w", domain.ErrTranscodeFailed, err)
		}
		return fmt.Errorf("start ffmpeg: %w", err)
	}
	return nil
}

var (
	_ port.DimensionProber = (*Converter)(nil)
	_ port.WebPConverter   = (*Converter)(nil)
)
