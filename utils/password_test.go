package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Abc12345!")
	require.NoError(t, err)
	require.NotEqual(t, "Abc12345!", hash)
	require.True(t, strings.HasPrefix(hash, "$2"))

	require.NoError(t, CheckPassword(hash, "Abc12345!"))
	require.Error(t, CheckPassword(hash, "Abc12345?"))
	require.Error(t, CheckPassword(hash, ""))
}

func TestHashPasswordSaltsEveryCall(t *testing.T) {
	h1, err := HashPassword("Abc12345!")
	require.NoError(t, err)
	h2, err := HashPassword("Abc12345!")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)

	require.NoError(t, CheckPassword(h1, "Abc12345!"))
	require.NoError(t, CheckPassword(h2, "Abc12345!"))
}

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		name     string
		password string
		ok       bool
	}{
		{"valid", "Abc12345!", true},
		{"valid other symbol", "pass9word#", true},
		{"too short", "Ab1!", false},
		{"no digit", "Abcdefgh!", false},
		{"no letter", "12345678!", false},
		{"no symbol", "Abc12345", false},
		{"empty", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePassword(tc.password)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
