package image

import (
	"errors"
	"testing"

	"github.com/gogpu/retouch/raster"
)

func TestResize(t *testing.T) {
	img := quadrantImage(20, 10)
	for _, q := range []Quality{QualityFast, QualityBest} {
		out, err := Resize(img, 40, 20, q)
		if err != nil {
			t.Fatal(err)
		}
		if out.Width() != 40 || out.Height() != 20 {
			t.Fatalf("size = %dx%d, want 40x20", out.Width(), out.Height())
		}
		if got := rgba(out, 5, 5); got[0] < 250 || got[1] > 5 || got[2] > 5 || got[3] < 250 {
			t.Errorf("quality %d: top-left = %v, want red", q, got)
		}
	}
}

func TestResizeInvalid(t *testing.T) {
	img := quadrantImage(4, 4)
	tests := []struct {
		name string
		w, h int
	}{
		{"zero width", 0, 4},
		{"negative height", 4, -1},
		{"over pixel limit", 1 << 15, 1 << 15},
		{"overflowing product", 1 << 31, 1 << 31},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Resize(img, tt.w, tt.h, QualityFast); !errors.Is(err, ErrInvalidSize) {
				t.Errorf("Resize(%d, %d) err = %v, want ErrInvalidSize", tt.w, tt.h, err)
			}
		})
	}
}

func TestHeightForWidth(t *testing.T) {
	img := quadrantImage(30, 20)
	tests := []struct {
		width   int
		want    int
		wantErr bool
	}{
		{45, 30, false},
		{1, 1, false},
		{0, 0, true},
		{-1, 0, true},
		{raster.MaxPixels + 1, 0, true},
	}
	for _, tt := range tests {
		got, err := HeightForWidth(img, tt.width)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidSize) {
				t.Errorf("HeightForWidth(%d) err = %v, want ErrInvalidSize", tt.width, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("HeightForWidth(%d) = %d, %v; want %d", tt.width, got, err, tt.want)
		}
	}
}

func TestFit(t *testing.T) {
	img := quadrantImage(400, 100)

	out := Fit(img, 100, QualityFast)
	if out.Width() != 100 || out.Height() != 25 {
		t.Errorf("size = %dx%d, want 100x25", out.Width(), out.Height())
	}
	if Fit(img, 1000, QualityFast) != img {
		t.Error("image within bounds should be returned as is")
	}
	if Fit(img, 0, QualityFast) != img {
		t.Error("maxDim 0 should disable fitting")
	}
}
