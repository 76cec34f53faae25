package resample

import (
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/forgepix/thumbline/internal/geom"
)

// progressive reduces src into dst by repeated halving. The source is first
// drawn into a scratch buffer one halving step short of its own size, the
// scratch buffer is then halved in place until it reaches the target, and the
// final intermediate is interpolated into dst.
func progressive(dst draw.Image, src image.Image) {
	sb := src.Bounds()
	db := dst.Bounds()
	source := geom.Dimension{Width: sb.Dx(), Height: sb.Dy()}
	target := geom.Dimension{Width: db.Dx(), Height: db.Dy()}

	chain := progressiveSizes(source, target)
	if len(chain) == 0 {
		xdraw.BiLinear.Scale(dst, db, src, sb, xdraw.Src, nil)
		return
	}

	first := chain[0]
	scratch := image.NewNRGBA(image.Rect(0, 0, first.Width, first.Height))
	xdraw.BiLinear.Scale(scratch, scratch.Bounds(), src, sb, xdraw.Src, nil)

	current := first
	for _, next := range chain[1:] {
		scaleInPlace(scratch, current, next)
		current = next
	}

	xdraw.BiLinear.Scale(dst, db, scratch.SubImage(image.Rect(0, 0, current.Width, current.Height)), image.Rect(0, 0, current.Width, current.Height), xdraw.Src, nil)
}

// progressiveSizes computes the sequence of intermediate sizes from the first
// scratch size down to exactly the target. The first size is found by
// doubling the target until it would meet or exceed the source and stepping
// back one halving, which bounds the source-to-scratch draw to at most a 2x
// reduction. Every later step halves and clamps to the target, so the chain
// always terminates at the target and never goes non-positive.
//
// An empty chain means progressive stepping buys nothing (the target is not
// strictly smaller than the source on both axes) and the caller should fall
// back to a single interpolated draw.
func progressiveSizes(source, target geom.Dimension) []geom.Dimension {
	source = source.Clamp()
	target = target.Clamp()
	if target.Width >= source.Width || target.Height >= source.Height {
		return nil
	}

	w, h := target.Width, target.Height
	for w < source.Width && h < source.Height {
		w <<= 1
		h <<= 1
	}
	w >>= 1
	h >>= 1
	if w < target.Width {
		w = target.Width
	}
	if h < target.Height {
		h = target.Height
	}

	chain := []geom.Dimension{{Width: w, Height: h}}
	for w > target.Width || h > target.Height {
		w >>= 1
		h >>= 1
		if w < target.Width {
			w = target.Width
		}
		if h < target.Height {
			h = target.Height
		}
		chain = append(chain, geom.Dimension{Width: w, Height: h})
	}
	return chain
}

// scaleInPlace bilinear-interpolates the from-sized top-left region of img
// into its to-sized top-left region, reading and writing the same pixel
// buffer. This is safe because to never exceeds from on either axis: the read
// cursor stays at or ahead of the write cursor, so a pixel is always consumed
// before it is overwritten. Before: rows [0,from.Height) hold the current
// intermediate. After: rows [0,to.Height) hold the next one; the remainder is
// stale and must not be read.
func scaleInPlace(img *image.NRGBA, from, to geom.Dimension) {
	if to.Width >= from.Width && to.Height >= from.Height {
		return
	}

	xr := float64(from.Width) / float64(to.Width)
	yr := float64(from.Height) / float64(to.Height)
	pix := img.Pix
	stride := img.Stride

	for y := 0; y < to.Height; y++ {
		sy := (float64(y)+0.5)*yr - 0.5
		if sy < 0 {
			sy = 0
		}
		y0 := int(sy)
		y1 := y0 + 1
		if y1 > from.Height-1 {
			y1 = from.Height - 1
		}
		fy := sy - float64(y0)

		for x := 0; x < to.Width; x++ {
			sx := (float64(x)+0.5)*xr - 0.5
			if sx < 0 {
				sx = 0
			}
			x0 := int(sx)
			x1 := x0 + 1
			if x1 > from.Width-1 {
				x1 = from.Width - 1
			}
			fx := sx - float64(x0)

			p00 := y0*stride + x0*4
			p01 := y0*stride + x1*4
			p10 := y1*stride + x0*4
			p11 := y1*stride + x1*4
			out := y*stride + x*4

			for c := 0; c < 4; c++ {
				top := float64(pix[p00+c])*(1-fx) + float64(pix[p01+c])*fx
				bottom := float64(pix[p10+c])*(1-fx) + float64(pix[p11+c])*fx
				pix[out+c] = uint8(top*(1-fy) + bottom*fy + 0.5)
			}
		}
	}
}
