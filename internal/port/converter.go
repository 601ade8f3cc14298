package port

import (
	"context"

	"github.com/bnema/vidwebp/internal/domain"
)

type DimensionProber interface {
	Probe(ctx context.Context, inputPath string) (domain.Dimensions, error)
}

type WebPConverter interface {
	ConvertToWebP(ctx context.Context, inputPath, outputPath string, opts domain.ConvertOptions) error
}
