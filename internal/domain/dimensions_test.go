package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDimensions(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Dimensions
		wantErr bool
	}{
		{name: "full hd", input: "1920x1080", want: Dimensions{Width: 1920, Height: 1080}},
		{name: "trailing newline", input: "640x480\n", want: Dimensions{Width: 640, Height: 480}},
		{name: "surrounding whitespace", input: "  320x240 \r\n", want: Dimensions{Width: 320, Height: 240}},
		{name: "zero height", input: "800x0", want: Dimensions{Width: 800, Height: 0}},
		{name: "empty output", input: "", wantErr: true},
		{name: "whitespace only", input: " \n", wantErr: true},
		{name: "missing separator", input: "1920", wantErr: true},
		{name: "missing height", input: "1920x", wantErr: true},
		{name: "missing width", input: "x1080", wantErr: true},
		{name: "non numeric", input: "widexhigh", wantErr: true},
		{name: "negative width", input: "-1x1080", wantErr: true},
		{name: "signed height", input: "1920x+1080", wantErr: true},
		{name: "extra field", input: "1920x1080x3", wantErr: true},
		{name: "two lines", input: "1920x1080\n1280x720", wantErr: true},
		{name: "comma separator", input: "1920,1080", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDimensions(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, ErrMalformedDimensions), "error should wrap ErrMalformedDimensions")
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDimensions_Formatting(t *testing.T) {
	d := Dimensions{Width: 1920, Height: 1080}

	assert.Equal(t, "1920x1080", d.String())
	assert.Equal(t, "1920:1080", d.Scale())
}
