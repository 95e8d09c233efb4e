// Package command exposes the registration workflow on a line-based text
// protocol: one command per session turn, single-line notices back.
package command

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/accountserv/accountserv/pkg/domain"
	"github.com/accountserv/accountserv/pkg/register"
)

// Session is a live caller on the text protocol. It extends the
// transport-level identity with the ability to receive notices.
type Session interface {
	domain.Session

	// Notice delivers a single-line textual response to the caller.
	Notice(format string, args ...any)
}

// HandlerFunc handles one command turn.
type HandlerFunc func(ctx context.Context, sess Session, args []string)

// Mux dispatches command words to handlers.
type Mux struct {
	catalog  Catalog
	handlers map[string]HandlerFunc
}

// NewMux creates an empty command mux.
func NewMux(catalog Catalog) *Mux {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Mux{
		catalog:  catalog,
		handlers: make(map[string]HandlerFunc),
	}
}

// Handle registers a handler for a command word.
func (m *Mux) Handle(word string, fn HandlerFunc) {
	m.handlers[strings.ToUpper(word)] = fn
}

// Dispatch parses one protocol line and runs the matching handler.
func (m *Mux) Dispatch(ctx context.Context, sess Session, line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}
	fn, ok := m.handlers[strings.ToUpper(fields[0])]
	if !ok {
		sess.Notice(m.catalog.Format(MsgUnknownCommand, fields[0]))
		return
	}
	fn(ctx, sess, fields[1:])
}

// RegisterHandler serves the REGISTER command.
type RegisterHandler struct {
	svc     *register.Service
	catalog Catalog
	logger  *slog.Logger
}

// NewRegisterHandler creates the REGISTER handler.
func NewRegisterHandler(svc *register.Service, catalog Catalog, logger *slog.Logger) *RegisterHandler {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RegisterHandler{svc: svc, catalog: catalog, logger: logger}
}

// Mount attaches the handler to a mux under the REGISTER command word.
func (h *RegisterHandler) Mount(m *Mux) {
	m.Handle("REGISTER", h.Handle)
}

// Handle runs one REGISTER attempt: REGISTER <name> <credential> <address>.
func (h *RegisterHandler) Handle(ctx context.Context, sess Session, args []string) {
	if sess.Account() != nil {
		sess.Notice(h.catalog.Format(MsgAlreadyLoggedIn))
		return
	}

	var name, credential, address string
	if len(args) > 0 {
		name = args[0]
	}
	if len(args) > 1 {
		credential = args[1]
	}
	if len(args) > 2 {
		address = args[2]
	}

	res, err := h.svc.Register(ctx, sess, name, credential, address)
	if err != nil {
		h.noticeError(sess, address, err)
		return
	}

	if res.State == register.StatePendingVerification {
		sess.Notice(h.catalog.Format(MsgVerificationSent, res.Account.ContactAddress))
		sess.Notice(h.catalog.Format(MsgVerificationExpiry, h.svc.VerificationWindow()))
		return
	}

	sess.Notice(h.catalog.Format(MsgRegistered, res.Account.Name, res.Account.ContactAddress))
	// Echoed once, in plaintext, for the user's own reference.
	sess.Notice(h.catalog.Format(MsgCredentialReminder, credential))
}

// noticeError maps one taxonomy entry to exactly one response category.
func (h *RegisterHandler) noticeError(sess Session, address string, err error) {
	var (
		regErr   *domain.AlreadyRegisteredError
		quotaErr *domain.QuotaExceededError
	)
	switch {
	case errors.Is(err, domain.ErrMissingParameters):
		sess.Notice(h.catalog.Format(MsgMissingParams))
		sess.Notice(h.catalog.Format(MsgSyntax))
	case errors.Is(err, domain.ErrInvalidParameters):
		sess.Notice(h.catalog.Format(MsgInvalidParams))
	case errors.Is(err, domain.ErrCredentialEqualsName):
		sess.Notice(h.catalog.Format(MsgCredentialEqualsName))
		sess.Notice(h.catalog.Format(MsgSyntax))
	case errors.Is(err, domain.ErrInvalidAddress):
		sess.Notice(h.catalog.Format(MsgInvalidAddress, address))
	case errors.As(err, &regErr):
		if regErr.Visible {
			sess.Notice(h.catalog.Format(MsgAlreadyRegisteredVisible, regErr.Name, regErr.ContactAddress))
		} else {
			sess.Notice(h.catalog.Format(MsgAlreadyRegistered, regErr.Name))
		}
	case errors.As(err, &quotaErr):
		sess.Notice(h.catalog.Format(MsgQuotaExceeded, quotaErr.ContactAddress))
	case errors.Is(err, domain.ErrNotificationDeliveryFailed):
		sess.Notice(h.catalog.Format(MsgDeliveryFailed))
	default:
		h.logger.Error("registration failed", "error", err)
		sess.Notice(h.catalog.Format(MsgRegistrationFailed))
	}
}
