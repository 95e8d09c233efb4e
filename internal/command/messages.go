package command

import "fmt"

// MessageID identifies a response category. Text is parameterizable per
// deployment through a custom Catalog; the categories are not.
type MessageID int

const (
	MsgSyntax MessageID = iota
	MsgAlreadyLoggedIn
	MsgMissingParams
	MsgInvalidParams
	MsgCredentialEqualsName
	MsgInvalidAddress
	MsgAlreadyRegisteredVisible
	MsgAlreadyRegistered
	MsgQuotaExceeded
	MsgDeliveryFailed
	MsgVerificationSent
	MsgVerificationExpiry
	MsgRegistered
	MsgCredentialReminder
	MsgRegistrationFailed
	MsgUnknownCommand
)

// Catalog maps response categories to single-line notice formats.
type Catalog map[MessageID]string

// DefaultCatalog returns the stock response texts.
func DefaultCatalog() Catalog {
	return Catalog{
		MsgSyntax:                   "Syntax: REGISTER <name> <credential> <address>",
		MsgAlreadyLoggedIn:          "You are already logged in.",
		MsgMissingParams:            "Insufficient parameters specified for REGISTER.",
		MsgInvalidParams:            "Invalid parameters specified for REGISTER.",
		MsgCredentialEqualsName:     "You cannot use your account name as a credential.",
		MsgInvalidAddress:           "%s is not a valid contact address.",
		MsgAlreadyRegisteredVisible: "%s is already registered to %s.",
		MsgAlreadyRegistered:        "%s is already registered.",
		MsgQuotaExceeded:            "%s has too many accounts registered.",
		MsgDeliveryFailed:           "Sending the verification message failed, sorry! Registration aborted.",
		MsgVerificationSent:         "A message containing account activation instructions has been sent to %s.",
		MsgVerificationExpiry:       "If you do not complete registration within %s your account will expire.",
		MsgRegistered:               "%s is now registered to %s.",
		MsgCredentialReminder:       "The credential is %s. Please write this down for future reference.",
		MsgRegistrationFailed:       "Registration failed, please try again later.",
		MsgUnknownCommand:           "Unknown command %s.",
	}
}

// Format renders a catalog entry.
func (c Catalog) Format(id MessageID, args ...any) string {
	format, ok := c[id]
	if !ok {
		format = DefaultCatalog()[id]
	}
	return fmt.Sprintf(format, args...)
}
