package compose

import (
	"image"

	"golang.org/x/image/draw"

	"git.sr.ht/~gioverse/patchkit/ninepatch"
)

// Options control rasterisation.
type Options struct {
	// Interpolator resamples each blit. Defaults to draw.ApproxBiLinear.
	Interpolator draw.Interpolator
}

func (o Options) interpolator() draw.Interpolator {
	if o.Interpolator == nil {
		return draw.ApproxBiLinear
	}
	return o.Interpolator
}

// Draw executes plan, compositing src over dst with the plan's origin at
// at. src is only borrowed for the duration of the call.
func Draw(dst draw.Image, at image.Point, src image.Image, plan Plan, opts Options) {
	src = ninepatch.Raster(src)
	var (
		interp = opts.interpolator()
		origin = src.Bounds().Min
	)
	for _, b := range plan.Blits {
		interp.Scale(dst, b.Dst.Add(at), src, b.Src.Add(origin), draw.Over, nil)
	}
	if plan.Tile == nil {
		return
	}
	t := plan.Tile
	tile := image.NewNRGBA(image.Rectangle{Max: t.Size})
	interp.Scale(tile, tile.Bounds(), src, t.Src.Add(origin), draw.Src, nil)
	for _, f := range t.Fragments() {
		draw.Draw(dst, f.Dst.Add(at), tile, f.Src.Min, draw.Over)
	}
}

// Render draws src with p into a new transparent image of the given size.
func Render(src image.Image, p Params, size image.Point, opts Options) (*image.NRGBA, error) {
	plan, err := NewPlan(p, size)
	if err != nil {
		return nil, err
	}
	out := image.NewNRGBA(image.Rectangle{Max: size})
	Draw(out, image.Point{}, src, plan, opts)
	return out, nil
}
