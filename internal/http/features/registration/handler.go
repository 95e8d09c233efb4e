package registration

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/accountserv/accountserv/internal/httputil"
	"github.com/accountserv/accountserv/pkg/domain"
	"github.com/accountserv/accountserv/pkg/register"
)

// Handler exposes the registration workflow over HTTP.
type Handler struct {
	logger *slog.Logger
	svc    *register.Service
}

// NewHandler creates a new registration handler.
func NewHandler(logger *slog.Logger, svc *register.Service) *Handler {
	return &Handler{logger: logger, svc: svc}
}

// RegisterRequest represents a registration request.
type RegisterRequest struct {
	Name           string `json:"name"`
	Credential     string `json:"credential"`
	ContactAddress string `json:"contact_address"`
}

// RegisterResponse represents a successful registration.
type RegisterResponse struct {
	Account        string `json:"account"`
	ContactAddress string `json:"contact_address"`
	Pending        bool   `json:"pending"`
}

// Register handles account registration.
// POST /v1/accounts/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess := newHTTPSession(r)
	res, err := h.svc.Register(r.Context(), sess, req.Name, req.Credential, req.ContactAddress)
	if err != nil {
		h.writeError(w, err)
		return
	}

	httputil.JSON(w, http.StatusCreated, RegisterResponse{
		Account:        res.Account.Name,
		ContactAddress: res.Account.ContactAddress,
		Pending:        res.State == register.StatePendingVerification,
	})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var regErr *domain.AlreadyRegisteredError
	switch {
	case errors.Is(err, domain.ErrMissingParameters):
		httputil.Error(w, http.StatusBadRequest, "name, credential and contact_address are required")
	case errors.Is(err, domain.ErrInvalidParameters):
		httputil.Error(w, http.StatusBadRequest, "credential or contact_address exceeds the permitted length")
	case errors.Is(err, domain.ErrCredentialEqualsName):
		httputil.Error(w, http.StatusBadRequest, "credential must not match the account name")
	case errors.Is(err, domain.ErrInvalidAddress):
		httputil.Error(w, http.StatusBadRequest, "invalid contact address")
	case errors.As(err, &regErr):
		// The collision message reveals the contact address only to
		// entitled callers; HTTP callers are never privileged.
		httputil.Error(w, http.StatusConflict, regErr.Error())
	case errors.Is(err, domain.ErrQuotaExceeded):
		httputil.Error(w, http.StatusForbidden, "too many accounts registered for this contact address")
	case errors.Is(err, domain.ErrNotificationDeliveryFailed):
		httputil.Error(w, http.StatusBadGateway, "verification delivery failed, registration aborted")
	default:
		h.logger.Error("registration failed", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "registration failed")
	}
}

// httpSession adapts an HTTP request to the transport session contract.
// HTTP callers are never privileged and identity binding only lasts for
// the request, so Bind just records the account for the response.
type httpSession struct {
	host  string
	bound *domain.Account
}

func newHTTPSession(r *http.Request) *httpSession {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return &httpSession{host: host}
}

func (s *httpSession) Username() string         { return "web" }
func (s *httpSession) Host() string             { return s.host }
func (s *httpSession) VirtualHost() string      { return s.host }
func (s *httpSession) Privileged() bool         { return false }
func (s *httpSession) Account() *domain.Account { return s.bound }
func (s *httpSession) Bind(a *domain.Account)   { s.bound = a }
