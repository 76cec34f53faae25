package pipeline

import (
	"testing"

	"github.com/forgepix/thumbline/internal/domain"
	"github.com/forgepix/thumbline/internal/geom"
	"github.com/forgepix/thumbline/internal/resample"
)

func TestTargetSize(t *testing.T) {
	source := geom.Dimension{Width: 400, Height: 200}

	cases := []struct {
		name string
		spec domain.ThumbnailSpec
		want geom.Dimension
	}{
		{
			name: "fixed size",
			spec: domain.ThumbnailSpec{Width: 100, Height: 100},
			want: geom.Dimension{Width: 100, Height: 100},
		},
		{
			name: "fit within keeps aspect",
			spec: domain.ThumbnailSpec{Width: 100, Height: 100, KeepAspect: true},
			want: geom.Dimension{Width: 100, Height: 50},
		},
		{
			name: "scale factor",
			spec: domain.ThumbnailSpec{Scale: 0.25},
			want: geom.Dimension{Width: 100, Height: 50},
		},
		{
			name: "width only derives height",
			spec: domain.ThumbnailSpec{Width: 100},
			want: geom.Dimension{Width: 100, Height: 50},
		},
		{
			name: "height only derives width",
			spec: domain.ThumbnailSpec{Height: 50},
			want: geom.Dimension{Width: 100, Height: 50},
		},
		{
			name: "empty spec keeps source",
			spec: domain.ThumbnailSpec{},
			want: source,
		},
		{
			name: "tiny scale never hits zero",
			spec: domain.ThumbnailSpec{Scale: 0.0001},
			want: geom.Dimension{Width: 1, Height: 1},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := targetSize(tc.spec, source); got != tc.want {
				t.Fatalf("targetSize = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSelectorFor(t *testing.T) {
	source := geom.Dimension{Width: 400, Height: 400}
	target := geom.Dimension{Width: 100, Height: 100}

	cases := []struct {
		name string
		want resample.Strategy
	}{
		{domain.StrategyIdentity, resample.Identity},
		{domain.StrategyBilinear, resample.Bilinear},
		{domain.StrategyBicubic, resample.Bicubic},
		{domain.StrategyProgressive, resample.ProgressiveBilinear},
		{domain.StrategyAuto, resample.ProgressiveBilinear},
		{"", resample.ProgressiveBilinear},
	}

	for _, tc := range cases {
		name := tc.name
		if name == "" {
			name = "empty"
		}
		t.Run(name, func(t *testing.T) {
			if got := selectorFor(tc.name)(source, target); got != tc.want {
				t.Fatalf("strategy = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFiltersFor_OrderAndPresence(t *testing.T) {
	spec := domain.ThumbnailSpec{
		RotateDegrees:  90,
		FlipHorizontal: true,
		Watermark:      &domain.Watermark{Text: "t", Opacity: 0.5},
	}
	filters := filtersFor(spec)
	if len(filters) != 3 {
		t.Fatalf("expected 3 filters, got %d", len(filters))
	}

	if got := filtersFor(domain.ThumbnailSpec{}); got != nil {
		t.Fatalf("expected no filters for empty spec, got %d", len(got))
	}
}
