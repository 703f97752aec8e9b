package settings

import (
	"unicode/utf8"

	"github.com/hilthontt/visper-admin/domain/apperrors"
)

const MinPasswordLength = 6

// ValidatePassword checks a candidate access password. It is pure: no
// storage, no transport, no side effects, so it can back any surface
// that accepts a password.
func ValidatePassword(password string) *apperrors.ValidationError {
	if password == "" {
		return apperrors.NewValidationError("new_password", apperrors.ReasonEmpty)
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return apperrors.NewValidationError("new_password", apperrors.ReasonTooShort)
	}
	return nil
}

// ValidatePasswordChange additionally requires the confirmation input
// to match the new password exactly.
func ValidatePasswordChange(newPassword, confirmPassword string) *apperrors.ValidationError {
	if verr := ValidatePassword(newPassword); verr != nil {
		return verr
	}
	if newPassword != confirmPassword {
		return apperrors.NewValidationError("confirm_password", apperrors.ReasonMismatch)
	}
	return nil
}
