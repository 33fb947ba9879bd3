// Package httpapi serves the Anniv user API over HTTP. Every response is
// HTTP 200 with a JSON envelope, or 204 for a success without content.
package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/anniv/internal/common"
	"github.com/dmitrijs2005/anniv/internal/logging"
	"github.com/dmitrijs2005/anniv/internal/server/metrics"
	"github.com/dmitrijs2005/anniv/internal/server/models"
	"github.com/dmitrijs2005/anniv/internal/server/services"
	"github.com/dmitrijs2005/anniv/internal/server/sessions"
)

// Users is the account logic behind the handlers.
type Users interface {
	Register(ctx context.Context, req services.RegisterRequest) (*models.Account, error)
	CheckAvailability(ctx context.Context, email, username *string) error
	Login(ctx context.Context, session services.Session, req services.LoginRequest) error
	Logout(ctx context.Context, session services.Session) error
	Revoke(ctx context.Context, id string) error
}

// SiteInfo is reported by GET /api/info.
type SiteInfo struct {
	Name            string   `json:"site_name"`
	Description     string   `json:"description"`
	ProtocolVersion string   `json:"protocol_version"`
	Features        []string `json:"features"`
}

// Route paths.
const (
	PathInfo          = "/api/info"
	PathRegister      = "/api/user/register"
	PathRegisterCheck = "/api/user/register/check"
	PathLogin         = "/api/user/login"
	PathLogout        = "/api/user/logout"
	PathRevoke        = "/api/user/revoke"
	PathMetrics       = "/metrics"
)

// Routes lists every path served, for metric labels.
var Routes = []string{PathInfo, PathRegister, PathRegisterCheck, PathLogin, PathLogout, PathRevoke, PathMetrics}

type Handler struct {
	users    Users
	sessions *sessions.Manager
	metrics  *metrics.Metrics
	info     SiteInfo
	log      logging.Logger
}

func NewHandler(u Users, sm *sessions.Manager, m *metrics.Metrics, info SiteInfo, l logging.Logger) *Handler {
	if info.Features == nil {
		info.Features = []string{}
	}
	return &Handler{users: u, sessions: sm, metrics: m, info: info, log: l.With("module", "http_api")}
}

// Routes returns the complete HTTP handler with middleware applied.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+PathInfo, h.handleInfo)
	mux.HandleFunc("POST "+PathRegister, h.handleRegister)
	mux.HandleFunc("POST "+PathRegisterCheck, h.handleRegisterCheck)
	mux.HandleFunc("POST "+PathLogin, h.handleLogin)
	mux.HandleFunc("POST "+PathLogout, h.handleLogout)
	mux.HandleFunc("POST "+PathRevoke, h.handleRevoke)
	mux.Handle("GET "+PathMetrics, h.metrics.Handler())

	return h.metrics.Middleware(h.logRequests(mux))
}

func (h *Handler) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeData(w, h.info)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(w, r, &req); err != nil {
		h.metrics.RecordRegistration(common.KindOf(err).Error())
		writeError(w, err)
		return
	}

	account, err := h.users.Register(r.Context(), req.toService())
	if err != nil {
		h.metrics.RecordRegistration(common.KindOf(err).Error())
		writeError(w, err)
		return
	}
	h.metrics.RecordRegistration(metrics.ResultOK)
	writeData(w, account)
}

func (h *Handler) handleRegisterCheck(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.users.CheckAvailability(r.Context(), req.Email, req.Username); err != nil {
		writeError(w, err)
		return
	}
	writeNoContent(w)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(w, r, &req); err != nil {
		h.metrics.RecordLogin(common.KindOf(err).Error())
		writeError(w, err)
		return
	}

	err := h.users.Login(r.Context(), h.sessions.Handle(w, r), services.LoginRequest{
		Email:         req.Email,
		Password:      req.Password,
		TwoFactorCode: req.TwoFactorCode,
	})
	if err != nil {
		h.metrics.RecordLogin(common.KindOf(err).Error())
		writeError(w, err)
		return
	}
	h.metrics.RecordLogin(metrics.ResultOK)
	writeNoContent(w)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Logout(r.Context(), h.sessions.Handle(w, r)); err != nil {
		writeError(w, err)
		return
	}
	writeNoContent(w)
}

func (h *Handler) handleRevoke(w http.ResponseWriter, r *http.Request) {
	var req idOnly
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.users.Revoke(r.Context(), req.ID); err != nil {
		writeError(w, err)
		return
	}
	writeNoContent(w)
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.log.Debug(r.Context(), "request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
		next.ServeHTTP(w, r)
	})
}
