package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Dimensions is the pixel size of a video stream.
type Dimensions struct {
	Width  int
	Height int
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// Scale returns the value passed to ffmpeg's -s option.
func (d Dimensions) Scale() string {
	return fmt.Sprintf("%d:%d", d.Width, d.Height)
}

// ParseDimensions parses ffprobe's "WxH" csv output. Anything other than
// exactly two runs of decimal digits separated by a single 'x' is rejected.
func ParseDimensions(s string) (Dimensions, error) {
	s = strings.TrimSpace(s)

	w, h, ok := strings.Cut(s, "x")
	if !ok || !isDigits(w) || !isDigits(h) {
		return Dimensions{}, fmt.Errorf("%w: %q", ErrMalformedDimensions, s)
	}

	width, err := strconv.Atoi(w)
	if err != nil {
		return Dimensions{}, fmt.Errorf("%w: width %q: %v", ErrMalformedDimensions, w, err)
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return Dimensions{}, fmt.Errorf("%w: height %q: %v", ErrMalformedDimensions, h, err)
	}

	return Dimensions{Width: width, Height: height}, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
