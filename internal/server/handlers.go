package server

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/gogpu/retouch"
	"github.com/gogpu/retouch/internal/store"
	"github.com/gogpu/retouch/pipeline"
	"github.com/gogpu/retouch/prompt"
	"github.com/gogpu/retouch/raster"
	"github.com/gogpu/retouch/region"
)

// state is the JSON view of a session.
type state struct {
	ID       string            `json:"id"`
	Filename string            `json:"filename"`
	Width    int               `json:"width"`
	Height   int               `json:"height"`
	Entries  int               `json:"entries"`
	Cursor   int               `json:"cursor"`
	CanUndo  bool              `json:"canUndo"`
	CanRedo  bool              `json:"canRedo"`
	Busy     bool              `json:"busy"`
	Settings pipeline.Settings `json:"settings"`
	Stickers []region.Sticker  `json:"stickers"`
}

func stateOf(sess *retouch.Session) state {
	w, h := sess.Dimensions()
	n, cursor := sess.HistoryLen()
	stickers := sess.Stickers()
	if stickers == nil {
		stickers = []region.Sticker{}
	}
	return state{
		ID:       sess.ID(),
		Filename: sess.Filename(),
		Width:    w,
		Height:   h,
		Entries:  n,
		Cursor:   cursor,
		CanUndo:  sess.CanUndo(),
		CanRedo:  sess.CanRedo(),
		Busy:     sess.Busy(),
		Settings: sess.Settings(),
		Stickers: stickers,
	}
}

// listSessions returns the stored sessions, most recently updated first.
// Without a store it lists the live sessions by ID.
func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	if s.store != nil {
		list, err := s.store.List(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, append([]store.Summary{}, list...))
		return
	}

	s.mu.RLock()
	list := make([]store.Summary, 0, len(s.sessions))
	for id, sess := range s.sessions {
		n, cursor := sess.HistoryLen()
		list = append(list, store.Summary{ID: id, Filename: sess.Filename(), Entries: n, Cursor: cursor})
	}
	s.mu.RUnlock()

	slices.SortFunc(list, func(a, b store.Summary) int { return strings.Compare(a.ID, b.ID) })
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxUpload))
	if err != nil {
		writeError(w, err)
		return
	}
	hint, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	filename := r.URL.Query().Get("filename")

	sess := retouch.NewSession(s.sessOpts...)
	if err := sess.Load(r.Context(), data, hint, filename); err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	s.sessions[sess.ID()] = sess
	s.mu.Unlock()
	s.persist(r.Context(), sess)

	width, height := sess.Dimensions()
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":     sess.ID(),
		"width":  width,
		"height": height,
	})
}

func (s *Server) getState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, stateOf(sessionFrom(r)))
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	s.mu.Lock()
	delete(s.sessions, sess.ID())
	s.mu.Unlock()
	sess.Close()

	if s.store != nil {
		if err := s.store.Delete(r.Context(), sess.ID()); err != nil {
			s.logger.Warn("server: delete from store", "session", sess.ID(), "error", err)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeImage(w http.ResponseWriter, img *raster.Image) {
	data, err := raster.EncodeBytes(img, raster.FormatPNG, nil)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", raster.FormatPNG.MIMEType())
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

func (s *Server) getImage(w http.ResponseWriter, r *http.Request) {
	img, err := sessionFrom(r).Current()
	if err != nil {
		writeError(w, err)
		return
	}
	writeImage(w, img)
}

func (s *Server) getPreview(w http.ResponseWriter, r *http.Request) {
	maxDim := 0
	if v := r.URL.Query().Get("max"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, fmt.Errorf("%w: max %q", errBadRequest, v))
			return
		}
		maxDim = n
	}
	img, err := sessionFrom(r).Preview(maxDim)
	if err != nil {
		writeError(w, err)
		return
	}
	writeImage(w, img)
}

func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	format := raster.FormatPNG
	if v := r.URL.Query().Get("format"); v != "" {
		f, err := raster.ParseFormat(v)
		if err != nil {
			writeError(w, err)
			return
		}
		format = f
	}
	out, err := sessionFrom(r).Export(r.Context(), format)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", out.Format.MIMEType())
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": out.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(out.Data)))
	w.Write(out.Data)
}

// putSettings merges the fields present in the body over the current
// settings.
func (s *Server) putSettings(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	next := sess.Settings()
	if err := decodeJSON(r, &next); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.SetSettings(next))
}

func (s *Server) postPrompt(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	presets := prompt.Matches(req.Prompt)
	if presets == nil {
		presets = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"settings": sessionFrom(r).ApplyPrompt(req.Prompt),
		"presets":  presets,
	})
}

// edited persists the session after a destructive operation and answers
// with its state.
func (s *Server) edited(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	sess := sessionFrom(r)
	s.persist(r.Context(), sess)
	writeJSON(w, http.StatusOK, stateOf(sess))
}

func (s *Server) postClone(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Target raster.Point `json:"target"`
		Source raster.Point `json:"source"`
		Radius float64      `json:"radius"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	s.edited(w, r, sessionFrom(r).CloneStamp(r.Context(), req.Target, req.Source, req.Radius))
}

func (s *Server) postRedEye(w http.ResponseWriter, r *http.Request) {
	var req struct {
		X      float64 `json:"x"`
		Y      float64 `json:"y"`
		Radius float64 `json:"radius"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	s.edited(w, r, sessionFrom(r).RedEye(r.Context(), raster.Pt(req.X, req.Y), req.Radius))
}

func (s *Server) postCrop(w http.ResponseWriter, r *http.Request) {
	var rect region.Rect
	if err := decodeJSON(r, &rect); err != nil {
		writeError(w, err)
		return
	}
	s.edited(w, r, sessionFrom(r).Crop(r.Context(), rect))
}

func (s *Server) postRemoveBackground(w http.ResponseWriter, r *http.Request) {
	s.edited(w, r, sessionFrom(r).RemoveBackground(r.Context()))
}

func (s *Server) postImprove(w http.ResponseWriter, r *http.Request) {
	s.edited(w, r, sessionFrom(r).ImproveQuality(r.Context()))
}

func (s *Server) postUpscale(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Width int `json:"width"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	s.edited(w, r, sessionFrom(r).Upscale(r.Context(), req.Width))
}

func (s *Server) postUndo(w http.ResponseWriter, r *http.Request) {
	s.step(w, r, (*retouch.Session).Undo)
}

func (s *Server) postRedo(w http.ResponseWriter, r *http.Request) {
	s.step(w, r, (*retouch.Session).Redo)
}

func (s *Server) step(w http.ResponseWriter, r *http.Request, move func(*retouch.Session) (bool, error)) {
	sess := sessionFrom(r)
	moved, err := move(sess)
	if err != nil {
		writeError(w, err)
		return
	}
	if moved {
		s.persist(r.Context(), sess)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"moved": moved,
		"state": stateOf(sess),
	})
}

func (s *Server) postSticker(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Content == "" {
		writeError(w, fmt.Errorf("%w: empty sticker content", errBadRequest))
		return
	}
	writeJSON(w, http.StatusCreated, sessionFrom(r).AddSticker(req.Content))
}

func (s *Server) patchSticker(w http.ResponseWriter, r *http.Request) {
	var req struct {
		X     *float64 `json:"x"`
		Y     *float64 `json:"y"`
		Scale *float64 `json:"scale"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	sess := sessionFrom(r)
	id := chi.URLParam(r, "sid")

	var (
		st  region.Sticker
		err error
	)
	if req.Scale != nil {
		if st, err = sess.ScaleSticker(id, *req.Scale); err != nil {
			writeError(w, err)
			return
		}
	}
	if req.X != nil || req.Y != nil {
		cur, err := findSticker(sess, id)
		if err != nil {
			writeError(w, err)
			return
		}
		x, y := cur.X, cur.Y
		if req.X != nil {
			x = *req.X
		}
		if req.Y != nil {
			y = *req.Y
		}
		if st, err = sess.MoveSticker(id, x, y); err != nil {
			writeError(w, err)
			return
		}
	}
	if st.ID == "" {
		if st, err = findSticker(sess, id); err != nil {
			writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, st)
}

func findSticker(sess *retouch.Session, id string) (region.Sticker, error) {
	for _, st := range sess.Stickers() {
		if st.ID == id {
			return st, nil
		}
	}
	return region.Sticker{}, fmt.Errorf("%w: %s", retouch.ErrStickerNotFound, id)
}

func (s *Server) deleteSticker(w http.ResponseWriter, r *http.Request) {
	if err := sessionFrom(r).RemoveSticker(chi.URLParam(r, "sid")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) postBake(w http.ResponseWriter, r *http.Request) {
	s.edited(w, r, sessionFrom(r).BakeStickers(r.Context()))
}
