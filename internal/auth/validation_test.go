package auth

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bookhaven/bookhaven/internal/shared"
)

func TestValidatePasswordStrength(t *testing.T) {
	weak := []struct {
		name     string
		password string
	}{
		{"too short", "Ab1!xyz"},
		{"no uppercase", "abcdef1!"},
		{"no lowercase", "ABCDEF1!"},
		{"no digit", "Abcdefg!"},
		{"no symbol", "Abcdefg1"},
		{"symbol outside allowed set", "Abcdefg1?"},
	}
	for _, tc := range weak {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePasswordStrength(tc.password)
			require.ErrorIs(t, err, shared.ErrValidation)
		})
	}

	require.NoError(t, ValidatePasswordStrength("Abcdef1!"))
	require.NoError(t, ValidatePasswordStrength("S0mething#LongEnough"))
}
