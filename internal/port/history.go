package port

import (
	"context"

	"github.com/bnema/vidwebp/internal/domain"
)

type ConversionHistory interface {
	Record(ctx context.Context, c *domain.Conversion) error
	List(ctx context.Context, limit int) ([]*domain.Conversion, error)
}
