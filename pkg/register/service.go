// Package register implements the account-registration workflow: input
// validation, duplicate and quota checks against the account repository,
// credential issuance, the optional verification gate with compensating
// rollback, and audit metadata capture.
package register

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/accountserv/accountserv/pkg/auth"
	"github.com/accountserv/accountserv/pkg/domain"
	"github.com/accountserv/accountserv/pkg/repository"
)

const (
	// DefaultMaxPerAddress is the default per-contact-address quota.
	DefaultMaxPerAddress = 5

	// DefaultVerificationWindow is how long an unverified account
	// survives before external expiry removes it.
	DefaultVerificationWindow = 24 * time.Hour

	// DefaultDeliveryTimeout bounds the verification delivery call.
	DefaultDeliveryTimeout = 10 * time.Second
)

// Mailer delivers the out-of-band verification message. Delivery may fail
// or time out; the workflow rolls back the account either way.
type Mailer interface {
	SendVerification(ctx context.Context, to, account, token string, expiresIn time.Duration) error
}

// Config holds the registration policy. It is read-only to the workflow;
// callers construct it once instead of the workflow reading process-wide
// globals.
type Config struct {
	// MaxPerAddress is the registration quota per contact address.
	// Zero or negative disables the quota check.
	MaxPerAddress int

	// DefaultFlags are applied to every new account.
	DefaultFlags domain.Flag

	// RequireVerification gates activation behind out-of-band
	// confirmation.
	RequireVerification bool

	// HashingAvailable selects the hashed credential path. When false
	// credentials are stored raw (legacy).
	HashingAvailable bool

	// VerificationWindow is quoted in the expiry warning and the
	// verification message. Expiry enforcement itself lives elsewhere.
	VerificationWindow time.Duration

	// DeliveryTimeout bounds the verification delivery call so blocked
	// delivery cannot stall other registrations.
	DeliveryTimeout time.Duration
}

// Result is the outcome of a successful registration.
type Result struct {
	Account *domain.Account
	State   State
}

// Service drives the registration workflow.
type Service struct {
	cfg       Config
	repo      repository.AccountRepository
	validator *Validator
	issuer    *auth.Issuer
	mailer    Mailer
	logger    *slog.Logger

	subscribers subscriberList
}

// NewService creates the registration service. A nil validator uses the
// default address syntax check. A mailer is required when the verification
// policy is enabled.
func NewService(cfg Config, repo repository.AccountRepository, validator *Validator, mailer Mailer, logger *slog.Logger) (*Service, error) {
	if repo == nil {
		return nil, errors.New("register: repository is required")
	}
	if cfg.RequireVerification && mailer == nil {
		return nil, errors.New("register: mailer is required when verification is enabled")
	}
	if validator == nil {
		validator = NewValidator(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.VerificationWindow == 0 {
		cfg.VerificationWindow = DefaultVerificationWindow
	}
	if cfg.DeliveryTimeout == 0 {
		cfg.DeliveryTimeout = DefaultDeliveryTimeout
	}

	return &Service{
		cfg:       cfg,
		repo:      repo,
		validator: validator,
		issuer:    auth.NewIssuer(cfg.HashingAvailable),
		mailer:    mailer,
		logger:    logger,
	}, nil
}

// VerificationWindow returns the configured verification expiry window,
// for surfaces that quote it in the expiry warning.
func (s *Service) VerificationWindow() time.Duration {
	return s.cfg.VerificationWindow
}

// Register runs one registration attempt for the given session. On success
// the account is durably created; when verification is not required the
// session is identity-bound to it. Every failure maps to one entry of the
// registration error taxonomy and, except for delivery failure (which
// creates then fully rolls back), leaves the repository untouched.
func (s *Service) Register(ctx context.Context, sess domain.Session, name, credential, address string) (*Result, error) {
	if err := s.validator.Validate(name, credential, address); err != nil {
		return nil, err
	}

	// Early collision check for a friendly error. The repository repeats
	// it atomically at insert time.
	if existing, err := s.repo.GetByName(ctx, name); err == nil {
		return nil, s.collisionError(sess, existing)
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, err
	}

	stored, hashed, err := s.issuer.Issue(credential)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	acct := &domain.Account{
		ID:             uuid.New(),
		Name:           name,
		CredentialHash: stored,
		ContactAddress: address,
		Flags:          s.cfg.DefaultFlags,
		RegisteredAt:   now,
		LastActivityAt: now,
	}
	if hashed {
		acct.Flags |= domain.FlagCredentialHashed
	}

	recordProvenance(acct, sess)

	var token domain.VerificationToken
	if s.cfg.RequireVerification {
		value, err := auth.GenerateToken(domain.MinVerificationTokenLen)
		if err != nil {
			return nil, err
		}
		token = domain.VerificationToken{Value: value, IssuedAt: now}
		token.Attach(acct)
		acct.Flags |= domain.FlagPendingVerification
	}

	if err := s.repo.Create(ctx, acct, s.cfg.MaxPerAddress); err != nil {
		switch {
		case errors.Is(err, domain.ErrAccountExists):
			// Lost the race to a concurrent attempt; report against
			// the account that won.
			if existing, gerr := s.repo.GetByName(ctx, name); gerr == nil {
				return nil, s.collisionError(sess, existing)
			}
			return nil, &domain.AlreadyRegisteredError{Name: name}
		case errors.Is(err, domain.ErrQuotaExceeded):
			return nil, &domain.QuotaExceededError{ContactAddress: address, Max: s.cfg.MaxPerAddress}
		}
		return nil, err
	}

	state := StateActive
	if s.cfg.RequireVerification {
		state, err = s.beginVerification(ctx, acct, token)
		if err != nil {
			return nil, err
		}
	} else {
		sess.Bind(acct)
		acct.AttachSession(sess)
	}

	s.logger.Info("account registered",
		"account", acct.Name,
		"contact", acct.ContactAddress,
		"by", callerIdentity(sess),
		"pending", state == StatePendingVerification,
	)
	s.subscribers.notify(acct)

	return &Result{Account: acct, State: state}, nil
}

// collisionError builds the name-collision failure, deciding whether the
// caller may see the existing account's contact address.
func (s *Service) collisionError(sess domain.Session, existing *domain.Account) error {
	visible := !existing.Flags.Has(domain.FlagHideContact) ||
		sess.Privileged() ||
		sess.Account() == existing
	return &domain.AlreadyRegisteredError{
		Name:           existing.Name,
		ContactAddress: existing.ContactAddress,
		Visible:        visible,
	}
}

// recordProvenance captures the creating session's login origin: the
// displayed host for standard review and the actual host for privileged
// review only.
func recordProvenance(acct *domain.Account, sess domain.Session) {
	acct.Metadata.Set(domain.MetaHostVirtual, fmt.Sprintf("%s@%s", sess.Username(), sess.VirtualHost()))
	acct.Metadata.Set(domain.MetaHostActual, fmt.Sprintf("%s@%s", sess.Username(), sess.Host()))
}

func callerIdentity(sess domain.Session) string {
	return fmt.Sprintf("%s@%s", sess.Username(), sess.Host())
}
