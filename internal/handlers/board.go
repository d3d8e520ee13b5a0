package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"bgrid/internal/boardview"
	"bgrid/internal/grid"
	"bgrid/internal/session"
	"bgrid/internal/submission"
	"bgrid/views/components"
	"bgrid/views/pages"
)

const pageTitle = "B Grid"

// BoardHandler serves the board pages, the actions that mutate a session and
// the live stream.
type BoardHandler struct {
	store     *session.Store
	submitter submission.Submitter
	logger    *zap.Logger
	timeout   time.Duration
}

// NewBoardHandler wires a handler. Requests other than the stream are cut off
// after timeout.
func NewBoardHandler(store *session.Store, submitter submission.Submitter, logger *zap.Logger, timeout time.Duration) *BoardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BoardHandler{store: store, submitter: submitter, logger: logger, timeout: timeout}
}

func (h *BoardHandler) RegisterRoutes(r chi.Router) {
	limited := func(r chi.Router) chi.Router {
		if h.timeout > 0 {
			return r.With(middleware.Timeout(h.timeout))
		}
		return r
	}
	limited(r).Get("/", h.home)
	r.Route("/s/{id}", func(r chi.Router) {
		r.Get("/stream", h.stream)
		r.Group(func(r chi.Router) {
			r = limited(r)
			r.Get("/", h.boardPage)
			r.Delete("/", h.closeSession)
			r.Get("/board", h.boardFragment)
			r.Get("/state", h.state)
			r.Post("/move/{dir}", h.move)
			r.Post("/reset", h.reset)
			r.Post("/email", h.setEmail)
			r.Post("/submit", h.submit)
		})
	})
}

func (h *BoardHandler) home(w http.ResponseWriter, r *http.Request) {
	sess := h.store.Create()
	http.Redirect(w, r, "/s/"+sess.ID, http.StatusSeeOther)
}

func (h *BoardHandler) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := h.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return nil, false
	}
	return sess, true
}

func (h *BoardHandler) boardPage(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}
	render(w, r, pages.BoardPage(boardview.Page(pageTitle, sess.Snapshot())))
}

func (h *BoardHandler) boardFragment(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}
	render(w, r, components.Board(boardview.FromSnapshot(sess.Snapshot())))
}

func (h *BoardHandler) state(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, boardview.FromSnapshot(sess.Snapshot()))
}

func (h *BoardHandler) closeSession(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Close(chi.URLParam(r, "id")); err != nil {
		http.NotFound(w, r)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BoardHandler) move(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}
	dir, err := grid.ParseDirection(chi.URLParam(r, "dir"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !h.storeEmail(w, r, sess) {
		return
	}
	res := sess.Move(dir)
	h.logger.Debug("move",
		zap.String("session", sess.ID),
		zap.Stringer("direction", dir),
		zap.Int("from", res.From),
		zap.Int("to", res.To),
		zap.Bool("blocked", res.Blocked))
	h.store.Publish(sess.ID, session.EventBoard)
	h.respond(w, r, sess, http.StatusOK)
}

func (h *BoardHandler) reset(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}
	sess.Reset()
	h.store.Publish(sess.ID, session.EventBoard)
	h.respond(w, r, sess, http.StatusOK)
}

func (h *BoardHandler) setEmail(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	sess.SetEmail(r.FormValue("email"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *BoardHandler) submit(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if !h.storeEmail(w, r, sess) {
		return
	}

	pending := sess.BeginSubmit()
	h.store.Publish(sess.ID, session.EventBoard)
	outcome, err := h.submitter.Submit(r.Context(), pending.Request)
	res, err := sess.FinishSubmit(pending, outcome, err)
	h.store.Publish(sess.ID, session.EventBoard)
	if err != nil {
		h.logger.Warn("submit failed", zap.String("session", sess.ID), zap.Error(err))
		status := http.StatusInternalServerError
		if errors.Is(err, submission.ErrTransport) {
			status = http.StatusBadGateway
		}
		h.respond(w, r, sess, status)
		return
	}
	h.logger.Info("submit",
		zap.String("session", sess.ID),
		zap.Bool("accepted", res.Outcome.Accepted),
		zap.Bool("applied", res.Applied))
	h.respond(w, r, sess, http.StatusOK)
}

// storeEmail saves the email field when the request carries one, so typing
// that has not been saved yet survives the board swap.
func (h *BoardHandler) storeEmail(w http.ResponseWriter, r *http.Request, sess *session.Session) bool {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return false
	}
	if _, present := r.Form["email"]; present {
		sess.SetEmail(r.FormValue("email"))
	}
	return true
}

// respond answers a mutation: htmx gets the board fragment, JSON clients the
// view-model, browsers a redirect back to the page.
func (h *BoardHandler) respond(w http.ResponseWriter, r *http.Request, sess *session.Session, status int) {
	board := boardview.FromSnapshot(sess.Snapshot())
	switch {
	case isHTMX(r):
		renderStatus(w, r, status, components.Board(board))
	case wantsJSON(r):
		writeJSON(w, status, board)
	case status >= http.StatusBadRequest:
		http.Error(w, http.StatusText(status), status)
	default:
		http.Redirect(w, r, "/s/"+sess.ID, http.StatusSeeOther)
	}
}

func (h *BoardHandler) stream(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	hub, err := h.store.Broadcaster(sess.ID)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sub := hub.Subscribe()
	defer hub.Unsubscribe(sub)

	sendBoard := func() {
		html := renderToString(r, components.Board(boardview.FromSnapshot(sess.Snapshot())))
		writeSSE(w, session.EventBoard, html)
		flusher.Flush()
	}
	sendBoard()

	keepAlive := time.NewTicker(25 * time.Second)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, open := <-sub:
			if !open {
				return
			}
			if event == session.EventBoard {
				sendBoard()
			}
		case <-keepAlive.C:
			_, _ = w.Write([]byte(": keepalive\n\n"))
			flusher.Flush()
		}
	}
}
