// Package retouch is the raster core of a photo editor.
//
// # Overview
//
// A Session holds one photo being edited. Destructive edits (clone stamp,
// red-eye removal, crop, baked stickers, collaborator results) produce new
// immutable images that are appended to a linear undo/redo history.
// Adjustments such as brightness, blur or rotation live in
// pipeline.Settings and are applied only when rendering a preview or
// exporting.
//
// # Quick Start
//
//	s := retouch.NewSession()
//	if err := s.Load(ctx, data, "image/jpeg", "photo.jpg"); err != nil {
//	    return err
//	}
//	s.ApplyPrompt("warm sunset")
//	s.RedEye(ctx, raster.Pt(0.42, 0.37), 0)
//	out, err := s.Export(ctx, raster.FormatPNG)
//
// # Coordinates
//
// Session methods take normalized points in [0,1], with the origin at the
// top-left corner and y increasing downwards. They are mapped to pixels of
// the current image with raster.ToPixel. The region package works in pixel
// space.
//
// # Concurrency
//
// A Session is safe for concurrent use. At most one destructive operation
// runs at a time; a second one, or an undo, redo or load issued while it is
// pending, fails with ErrBusy. Settings and stickers may change at any time.
package retouch
