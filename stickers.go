package retouch

import (
	"context"
	"fmt"
	"slices"

	"github.com/gogpu/retouch/raster"
	"github.com/gogpu/retouch/region"
)

// AddSticker adds a sticker at the image centre with scale 1 and returns it.
func (s *Session) AddSticker(content string) region.Sticker {
	st := region.NewSticker(content)
	s.stateMu.Lock()
	s.stickers = append(s.stickers, st)
	s.stateMu.Unlock()
	return st
}

// MoveSticker sets the normalized position of a sticker, clamped to [0,1].
func (s *Session) MoveSticker(id string, x, y float64) (region.Sticker, error) {
	return s.updateSticker(id, func(st *region.Sticker) {
		p := raster.Pt(x, y).Clamp01()
		st.X, st.Y = p.X, p.Y
	})
}

// ScaleSticker sets the scale of a sticker. Scales outside
// (0, region.MaxStickerScale] are rejected.
func (s *Session) ScaleSticker(id string, scale float64) (region.Sticker, error) {
	if !(scale > 0) || scale > region.MaxStickerScale {
		return region.Sticker{}, fmt.Errorf("retouch: sticker scale %v: %w", scale, region.ErrInvalidRegion)
	}
	return s.updateSticker(id, func(st *region.Sticker) {
		st.Scale = scale
	})
}

func (s *Session) updateSticker(id string, fn func(*region.Sticker)) (region.Sticker, error) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	i := s.stickerIndex(id)
	if i < 0 {
		return region.Sticker{}, fmt.Errorf("%w: %s", ErrStickerNotFound, id)
	}
	fn(&s.stickers[i])
	return s.stickers[i], nil
}

// RemoveSticker deletes a sticker.
func (s *Session) RemoveSticker(id string) error {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	i := s.stickerIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrStickerNotFound, id)
	}
	s.stickers = slices.Delete(s.stickers, i, i+1)
	return nil
}

// stickerIndex must be called with stateMu held.
func (s *Session) stickerIndex(id string) int {
	return slices.IndexFunc(s.stickers, func(st region.Sticker) bool { return st.ID == id })
}

// Stickers returns a copy of the pending stickers in drawing order.
func (s *Session) Stickers() []region.Sticker {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return slices.Clone(s.stickers)
}

// BakeStickers composites the pending stickers into a new history entry
// and removes them from the list. It is a no-op when there are none.
func (s *Session) BakeStickers(ctx context.Context) error {
	baked := s.Stickers()
	if len(baked) == 0 {
		return nil
	}
	err := s.edit(ctx, "stickers", func(_ context.Context, cur *raster.Image) (*raster.Image, error) {
		return region.CompositeStickers(cur, baked, s.opts.faces)
	})
	if err != nil {
		return err
	}

	// Stickers added or changed while baking stay pending.
	s.stateMu.Lock()
	s.stickers = slices.DeleteFunc(s.stickers, func(st region.Sticker) bool {
		return slices.Contains(baked, st)
	})
	s.stateMu.Unlock()
	s.logCaches(ctx, "stickers")
	return nil
}
