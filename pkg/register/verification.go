package register

import (
	"context"
	"fmt"

	"github.com/accountserv/accountserv/pkg/domain"
)

// State is the verification state a registration ends in.
type State int

const (
	// StateActive is the terminal state of a normal registration.
	StateActive State = iota

	// StatePendingVerification is the intermediate state of an account
	// waiting for its token to be consumed out-of-band.
	StatePendingVerification

	// StateRolledBack is the terminal state after a failed delivery:
	// the account has been removed again.
	StateRolledBack
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StatePendingVerification:
		return "pending-verification"
	case StateRolledBack:
		return "rolled-back"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// beginVerification delivers the verification message for a just-created
// pending account. It runs after the repository insert, outside any
// repository critical section, with its own bounded timeout.
//
// On delivery failure the create is compensated with an idempotent delete
// before the failure is reported, so no partially-registered account is
// ever observable to a subsequent lookup.
func (s *Service) beginVerification(ctx context.Context, acct *domain.Account, token domain.VerificationToken) (State, error) {
	mctx, cancel := context.WithTimeout(ctx, s.cfg.DeliveryTimeout)
	defer cancel()

	err := s.mailer.SendVerification(mctx, acct.ContactAddress, acct.Name, token.Value, s.cfg.VerificationWindow)
	if err == nil {
		return StatePendingVerification, nil
	}

	if derr := s.repo.Delete(ctx, acct.Name); derr != nil {
		s.logger.Error("rollback delete failed",
			"account", acct.Name, "error", derr)
	}
	s.logger.Warn("verification delivery failed, registration rolled back",
		"account", acct.Name,
		"contact", acct.ContactAddress,
		"error", err,
	)
	return StateRolledBack, fmt.Errorf("%w: %v", domain.ErrNotificationDeliveryFailed, err)
}
