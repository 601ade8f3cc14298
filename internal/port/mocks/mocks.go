// Package mocks holds testify mocks for the port interfaces.
package mocks

import (
	"context"

	"github.com/bnema/vidwebp/internal/domain"
	"github.com/bnema/vidwebp/internal/port"
	"github.com/stretchr/testify/mock"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

type FileSelectorMock struct{ mock.Mock }

func NewFileSelectorMock(t testingT) *FileSelectorMock {
	m := &FileSelectorMock{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *FileSelectorMock) SelectVideo(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

type DimensionProberMock struct{ mock.Mock }

func NewDimensionProberMock(t testingT) *DimensionProberMock {
	m := &DimensionProberMock{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *DimensionProberMock) Probe(ctx context.Context, inputPath string) (domain.Dimensions, error) {
	args := m.Called(ctx, inputPath)
	return args.Get(0).(domain.Dimensions), args.Error(1)
}

type WebPConverterMock struct{ mock.Mock }

func NewWebPConverterMock(t testingT) *WebPConverterMock {
	m := &WebPConverterMock{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *WebPConverterMock) ConvertToWebP(ctx context.Context, inputPath, outputPath string, opts domain.ConvertOptions) error {
	return m.Called(ctx, inputPath, outputPath, opts).Error(0)
}

type ConversionHistoryMock struct{ mock.Mock }

func NewConversionHistoryMock(t testingT) *ConversionHistoryMock {
	m := &ConversionHistoryMock{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *ConversionHistoryMock) Record(ctx context.Context, c *domain.Conversion) error {
	return m.Called(ctx, c).Error(0)
}

func (m *ConversionHistoryMock) List(ctx context.Context, limit int) ([]*domain.Conversion, error) {
	args := m.Called(ctx, limit)
	list, _ := args.Get(0).([]*domain.Conversion)
	return list, args.Error(1)
}

var (
	_ port.FileSelector      = (*FileSelectorMock)(nil)
	_ port.DimensionProber   = (*DimensionProberMock)(nil)
	_ port.WebPConverter     = (*WebPConverterMock)(nil)
	_ port.ConversionHistory = (*ConversionHistoryMock)(nil)
)
