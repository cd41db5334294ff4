package auth

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/bookhaven/bookhaven/internal/shared"
)

const passwordSymbols = "!@#$%^&*"

// ValidatePasswordStrength enforces the registration password policy:
// at least 8 characters with one uppercase letter, one lowercase letter,
// one digit and one symbol from !@#$%^&*.
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", shared.ErrValidation)
	}
	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}
	if !upper || !lower || !digit || !symbol {
		return fmt.Errorf("%w: password must contain uppercase, lowercase, digit and one of %s", shared.ErrValidation, passwordSymbols)
	}
	return nil
}
