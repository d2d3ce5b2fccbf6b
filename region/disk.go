package region

import "math"

// disk is the set of pixels touched by a circular brush: rows
// [floor(cy-r), cy+r) and columns [floor(cx-r), cx+r), clipped to the image,
// keeping pixels whose integer coordinates lie within r of the centre.
type disk struct {
	cx, cy, r float64
	x0, x1    int
	y0, y1    int
}

// newDisk reports false when r is not positive, the centre is not finite or
// the brush misses the image entirely.
func newDisk(cx, cy, r float64, width, height int) (disk, bool) {
	if !(r > 0) || math.IsInf(r, 0) || !finite(cx) || !finite(cy) {
		return disk{}, false
	}
	d := disk{
		cx: cx, cy: cy, r: r,
		x0: max(0, int(math.Floor(cx-r))),
		y0: max(0, int(math.Floor(cy-r))),
		x1: min(width, int(math.Ceil(cx+r))),
		y1: min(height, int(math.Ceil(cy+r))),
	}
	if d.x0 >= d.x1 || d.y0 >= d.y1 {
		return disk{}, false
	}
	return d, true
}

// each calls fn for every pixel of the disk in row-major order.
func (d disk) each(fn func(x, y int)) {
	rSq := d.r * d.r
	for y := d.y0; y < d.y1 && float64(y) < d.cy+d.r; y++ {
		dy := float64(y) - d.cy
		for x := d.x0; x < d.x1 && float64(x) < d.cx+d.r; x++ {
			dx := float64(x) - d.cx
			if dx*dx+dy*dy <= rSq {
				fn(x, y)
			}
		}
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
