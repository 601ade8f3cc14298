package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/bnema/vidwebp/internal/domain"
	"github.com/bnema/vidwebp/internal/port/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	selector  *mocks.FileSelectorMock
	prober    *mocks.DimensionProberMock
	converter *mocks.WebPConverterMock
	out       *bytes.Buffer
}

func newFixture(t *testing.T) fixture {
	return fixture{
		selector:  mocks.NewFileSelectorMock(t),
		prober:    mocks.NewDimensionProberMock(t),
		converter: mocks.NewWebPConverterMock(t),
		out:       &bytes.Buffer{},
	}
}

func (f fixture) service() *ConversionService {
	return NewConversionService(f.selector, f.prober, f.converter, nil, f.out, 0, nil)
}

func TestConversionService_Run_Success(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.selector.On("SelectVideo", ctx).Return("clip.mp4", nil).Once()
	f.prober.On("Probe", ctx, "clip.mp4").Return(domain.Dimensions{Width: 1920, Height: 1080}, nil).Once()
	f.converter.On("ConvertToWebP", ctx, "clip.mp4", "clip.webp",
		domain.ConvertOptions{FPS: 20, Width: 1920, Height: 1080}).Return(nil).Once()

	err := f.service().Run(ctx, "")

	require.NoError(t, err)
	assert.Equal(t, "Conversion successful: clip.webp\n", f.out.String())
}

func TestConversionService_Run_NoSelection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.selector.On("SelectVideo", ctx).Return("", nil).Once()

	err := f.service().Run(ctx, "")

	require.NoError(t, err)
	assert.Equal(t, "No video file selected.\n", f.out.String())
	f.prober.AssertNotCalled(t, "Probe", mock.Anything, mock.Anything)
	f.converter.AssertNotCalled(t, "ConvertToWebP", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestConversionService_Run_SelectorError(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.selector.On("SelectVideo", ctx).Return("", errors.New("no file dialog helper found")).Once()

	err := f.service().Run(ctx, "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "select video")
	assert.Empty(t, f.out.String())
}

func TestConversionService_Run_ExplicitPathSkipsSelector(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.prober.On("Probe", ctx, "/videos/movie.mkv").Return(domain.Dimensions{Width: 640, Height: 360}, nil).Once()
	f.converter.On("ConvertToWebP", ctx, "/videos/movie.mkv", "/videos/movie.webp",
		domain.ConvertOptions{FPS: 20, Width: 640, Height: 360}).Return(nil).Once()

	require.NoError(t, f.service().Run(ctx, "/videos/movie.mkv"))
	f.selector.AssertNotCalled(t, "SelectVideo", mock.Anything)
}

func TestConversionService_Run_ProbeFailureIsFatal(t *testing.T) {
	tests := []struct {
		name     string
		probeErr error
	}{
		{name: "malformed output", probeErr: domain.ErrMalformedDimensions},
		{name: "tool missing", probeErr: errors.New(`ffprobe failed: exec: "ffprobe": executable file not found in $PATH`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()

			f.selector.On("SelectVideo", ctx).Return("clip.mp4", nil).Once()
			f.prober.On("Probe", ctx, "clip.mp4").Return(domain.Dimensions{}, tt.probeErr).Once()

			err := f.service().Run(ctx, "")

			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.probeErr))
			assert.Empty(t, f.out.String())
			f.converter.AssertNotCalled(t, "ConvertToWebP", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestConversionService_Run_TranscodeFailureRecovered(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	convErr := fmt.Errorf("%w: ffmpeg: exit status 1", domain.ErrTranscodeFailed)

	f.selector.On("SelectVideo", ctx).Return("movie.mov", nil).Once()
	f.prober.On("Probe", ctx, "movie.mov").Return(domain.Dimensions{Width: 1280, Height: 720}, nil).Once()
	f.converter.On("ConvertToWebP", ctx, "movie.mov", "movie.webp", mock.Anything).Return(convErr).Once()

	err := f.service().Run(ctx, "")

	require.NoError(t, err)
	assert.Regexp(t, `^Error during conversion: .*exit status 1`, f.out.String())
}

func TestConversionService_Run_TranscoderStartFailureIsFatal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.prober.On("Probe", ctx, "clip.mp4").Return(domain.Dimensions{Width: 1, Height: 1}, nil).Once()
	f.converter.On("ConvertToWebP", ctx, "clip.mp4", "clip.webp", mock.Anything).
		Return(errors.New(`start ffmpeg: exec: "ffmpeg": executable file not found in $PATH`)).Once()

	err := f.service().Run(ctx, "clip.mp4")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "convert video")
	assert.Empty(t, f.out.String())
}

func TestConversionService_Run_ProbedSizeNotReplaced(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.prober.On("Probe", ctx, "clip.mp4").Return(domain.Dimensions{Width: 800, Height: 0}, nil).Once()
	f.converter.On("ConvertToWebP", ctx, "clip.mp4", "clip.webp",
		domain.ConvertOptions{FPS: 20, Width: 800, Height: 0}).Return(nil).Once()

	require.NoError(t, f.service().Run(ctx, "clip.mp4"))
}

func TestConversionService_Run_InterruptIsFatal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.prober.On("Probe", ctx, "movie.mov").Return(domain.Dimensions{Width: 2, Height: 2}, nil).Once()
	f.converter.On("ConvertToWebP", ctx, "movie.mov", "movie.webp", mock.Anything).
		Return(fmt.Errorf("ffmpeg interrupted: %w", context.Canceled)).Once()

	err := f.service().Run(ctx, "movie.mov")

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, f.out.String())
}

func TestConversionService_Run_CustomFPS(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.prober.On("Probe", ctx, "a.flv").Return(domain.Dimensions{Width: 320, Height: 240}, nil).Once()
	f.converter.On("ConvertToWebP", ctx, "a.flv", "a.webp",
		domain.ConvertOptions{FPS: 10, Width: 320, Height: 240}).Return(nil).Once()

	svc := NewConversionService(f.selector, f.prober, f.converter, nil, f.out, 10, nil)
	require.NoError(t, svc.Run(ctx, "a.flv"))
}

func TestConversionService_Run_RecordsHistory(t *testing.T) {
	f := newFixture(t)
	history := mocks.NewConversionHistoryMock(t)
	ctx := context.Background()

	dir := t.TempDir()
	input := filepath.Join(dir, "clip.mp4")
	output := filepath.Join(dir, "clip.webp")

	f.prober.On("Probe", ctx, input).Return(domain.Dimensions{Width: 1920, Height: 1080}, nil).Once()
	f.converter.On("ConvertToWebP", ctx, input, output, mock.Anything).
		Run(func(args mock.Arguments) {
			require.NoError(t, os.WriteFile(output, []byte("RIFF----WEBP"), 0644))
		}).
		Return(nil).Once()

	var recorded *domain.Conversion
	history.On("Record", ctx, mock.AnythingOfType("*domain.Conversion")).
		Run(func(args mock.Arguments) { recorded = args.Get(1).(*domain.Conversion) }).
		Return(nil).Once()

	svc := NewConversionService(f.selector, f.prober, f.converter, history, f.out, 0, nil)
	require.NoError(t, svc.Run(ctx, input))

	require.NotNil(t, recorded)
	assert.Equal(t, domain.ConversionStatusDone, recorded.Status)
	assert.Equal(t, output, recorded.OutputPath)
	assert.Equal(t, int64(12), recorded.FileSize)
	assert.Equal(t, 1920, recorded.Width)
}

func TestConversionService_Run_HistoryErrorDoesNotChangeOutcome(t *testing.T) {
	f := newFixture(t)
	history := mocks.NewConversionHistoryMock(t)
	ctx := context.Background()
	convErr := fmt.Errorf("%w: ffmpeg: exit status 1", domain.ErrTranscodeFailed)

	f.prober.On("Probe", ctx, "movie.mov").Return(domain.Dimensions{Width: 2, Height: 2}, nil).Once()
	f.converter.On("ConvertToWebP", ctx, "movie.mov", "movie.webp", mock.Anything).Return(convErr).Once()
	history.On("Record", ctx, mock.MatchedBy(func(c *domain.Conversion) bool {
		return c.Status == domain.ConversionStatusFailed
	})).Return(errors.New("database is locked")).Once()

	svc := NewConversionService(f.selector, f.prober, f.converter, history, f.out, 0, nil)
	require.NoError(t, svc.Run(ctx, "movie.mov"))
	assert.Contains(t, f.out.String(), "Error during conversion:")
}

func TestConversionService_History(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service().History(ctx, 10)
		assert.True(t, errors.Is(err, domain.ErrHistoryDisabled))
	})

	t.Run("enabled", func(t *testing.T) {
		f := newFixture(t)
		history := mocks.NewConversionHistoryMock(t)
		want := []*domain.Conversion{{ID: 1, InputPath: "a.mp4"}}
		history.On("List", ctx, 5).Return(want, nil).Once()

		svc := NewConversionService(f.selector, f.prober, f.converter, history, f.out, 0, nil)
		got, err := svc.History(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}
