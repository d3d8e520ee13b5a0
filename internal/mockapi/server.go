// Package mockapi is a reference implementation of the remote collaborator
// that judges submitted emails. The web app, the TUI and the tests talk to it
// over plain HTTP.
package mockapi

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	MsgEmailRequired = "Ouch: email is required"
	MsgEmailInvalid  = "Ouch: email must be a valid email"

	forbiddenEmail = "foo@bar.baz"
)

// Stricter than the client-side hint: the domain needs a dot and letters-only TLD.
var emailRule = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)

type resultRequest struct {
	X     *int   `json:"x"`
	Y     *int   `json:"y"`
	Steps *int   `json:"steps"`
	Email string `json:"email"`
}

// Handler serves POST /api/result.
type Handler struct {
	logger *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/result", h.result)
}

func (h *Handler) result(w http.ResponseWriter, r *http.Request) {
	var req resultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Ouch: could not parse the request")
		return
	}
	status, msg := Judge(req.X, req.Y, req.Steps, req.Email)
	h.logger.Debug("judged submission",
		zap.String("email", req.Email),
		zap.Int("status", status),
		zap.String("message", msg))
	writeMessage(w, status, msg)
}

// Judge returns the status code and message for a submission. Nil
// coordinates or steps are treated as missing.
func Judge(x, y, steps *int, email string) (int, string) {
	switch {
	case x == nil || *x < 1 || *x > 3:
		return http.StatusUnprocessableEntity, "Ouch: x coordinate must be between 1 and 3"
	case y == nil || *y < 1 || *y > 3:
		return http.StatusUnprocessableEntity, "Ouch: y coordinate must be between 1 and 3"
	case steps == nil || *steps < 0:
		return http.StatusUnprocessableEntity, "Ouch: steps must be 0 or more"
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return http.StatusUnprocessableEntity, MsgEmailRequired
	}
	if !emailRule.MatchString(email) {
		return http.StatusUnprocessableEntity, MsgEmailInvalid
	}
	code := (*x+1)*(*y+1)*(*steps+2) + len(email)
	if email == forbiddenEmail {
		return http.StatusForbidden, email + " failure #" + strconv.Itoa(code)
	}
	local := email[:strings.IndexByte(email, '@')]
	return http.StatusOK, local + " win #" + strconv.Itoa(code)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
