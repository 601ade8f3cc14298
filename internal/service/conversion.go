package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bnema/vidwebp/internal/domain"
	"github.com/bnema/vidwebp/internal/infrastructure/logger"
	"github.com/bnema/vidwebp/internal/port"
	"github.com/fatih/color"
	"go.uber.org/zap"
)

const (
	msgNoFile  = "No video file selected."
	msgSuccess = "Conversion successful: %s\n"
	msgFailure = "Error during conversion: %v\n"
)

// ConversionService runs one select, probe, convert pass and prints the
// outcome. Only a non-zero transcoder exit is recovered; every other failure
// is returned to the caller.
type ConversionService struct {
	selector  port.FileSelector
	prober    port.DimensionProber
	converter port.WebPConverter
	history   port.ConversionHistory
	out       io.Writer
	fps       int
	logger    *zap.Logger

	success *color.Color
	failure *color.Color
}

// NewConversionService wires the flow. history may be nil to disable the
// ledger; fps <= 0 means the default frame rate.
func NewConversionService(
	selector port.FileSelector,
	prober port.DimensionProber,
	converter port.WebPConverter,
	history port.ConversionHistory,
	out io.Writer,
	fps int,
	log *zap.Logger,
) *ConversionService {
	if log == nil {
		log = zap.NewNop()
	}
	s := &ConversionService{
		selector:  selector,
		prober:    prober,
		converter: converter,
		history:   history,
		out:       out,
		fps:       fps,
		logger:    log,
		success:   color.New(color.FgGreen),
		failure:   color.New(color.FgRed),
	}
	if out != os.Stdout {
		s.success.DisableColor()
		s.failure.DisableColor()
	}
	return s
}

// Run converts inputPath, or asks the selector for a file when inputPath is
// empty.
func (s *ConversionService) Run(ctx context.Context, inputPath string) error {
	if inputPath == "" {
		selected, err := s.selector.SelectVideo(ctx)
		if err != nil {
			return fmt.Errorf("select video: %w", err)
		}
		inputPath = selected
	}
	if inputPath == "" {
		fmt.Fprintln(s.out, msgNoFile)
		return nil
	}

	dims, err := s.prober.Probe(ctx, inputPath)
	if err != nil {
		return fmt.Errorf("get video dimensions: %w", err)
	}

	outputPath := domain.OutputPath(inputPath)
	opts := domain.ConvertOptions{FPS: s.fps, Width: dims.Width, Height: dims.Height}.WithDefaults()
	conv := domain.NewConversion(inputPath, outputPath, opts)

	s.logger.Info("converting",
		zap.String("input", logger.SanitizeForLog(inputPath)),
		zap.String("output", logger.SanitizeForLog(outputPath)),
		zap.Stringer("size", dims),
		zap.Int("fps", opts.FPS),
	)

	err = s.converter.ConvertToWebP(ctx, inputPath, outputPath, opts)
	switch {
	case err == nil:
		var size int64
		if info, statErr := os.Stat(outputPath); statErr == nil {
			size = info.Size()
		}
		conv.MarkAsDone(size)
		s.record(ctx, conv)
		s.success.Fprintf(s.out, msgSuccess, outputPath)
		return nil
	case errors.Is(err, domain.ErrTranscodeFailed):
		conv.MarkAsFailed(err)
		s.record(ctx, conv)
		s.failure.Fprintf(s.out, msgFailure, err)
		return nil
	default:
		conv.MarkAsFailed(err)
		s.record(ctx, conv)
		return fmt.Errorf("convert video: %w", err)
	}
}

func (s *ConversionService) record(ctx context.Context, c *domain.Conversion) {
	if s.history == nil {
		return
	}
	if err := s.history.Record(ctx, c); err != nil {
		s.logger.Warn("failed to record conversion", zap.Error(err))
	}
}

// History returns the most recent conversions.
func (s *ConversionService) History(ctx context.Context, limit int) ([]*domain.Conversion, error) {
	if s.history == nil {
		return nil, domain.ErrHistoryDisabled
	}
	return s.history.List(ctx, limit)
}
