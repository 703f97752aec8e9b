package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$"))

	ok, err := CheckPassword(hash, "correct horse battery staple")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestCheckPasswordRejectsWrongPassword(t *testing.T) {
	hash, err := HashPassword("admin123")
	require.NoError(t, err)

	ok, err := CheckPassword(hash, "admin124")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestHashPasswordSaltsEveryCall(t *testing.T) {
	first, err := HashPassword("admin123")
	require.NoError(t, err)
	second, err := HashPassword("admin123")
	require.NoError(t, err)

	require.NotEqual(t, first, second)
}

func TestCheckPasswordRejectsMalformedHash(t *testing.T) {
	cases := []string{
		"",
		"plaintext",
		"$argon2id$v=19$m=65536,t=3,p=2$onlyfourparts",
		"$bcrypt$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=3,p=2$not-base64!$aGFzaA",
	}

	for _, hashed := range cases {
		ok, err := CheckPassword(hashed, "admin123")
		require.ErrorIs(t, err, ErrInvalidPasswordHash, "hash %q", hashed)
		require.False(t, ok)
	}
}

func TestCheckPasswordRejectsIncompatibleVersion(t *testing.T) {
	ok, err := CheckPassword("$argon2id$v=18$m=65536,t=3,p=2$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaA", "admin123")
	require.ErrorIs(t, err, ErrIncompatiblePasswordVersion)
	require.False(t, ok)
}

func TestCheckPasswordSurvivesParameterChanges(t *testing.T) {
	weaker := Argon2idParams{
		Memory:      16 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  8,
		KeyLength:   16,
	}

	hash, err := HashPasswordWithParams("admin123", weaker)
	require.NoError(t, err)

	// Verification reads parameters from the encoded hash, not the
	// current defaults.
	ok, err := CheckPassword(hash, "admin123")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestHashUserAgent(t *testing.T) {
	hash := HashUserAgent("Mozilla/5.0 (X11; Linux x86_64)")
	require.Len(t, hash, 64)
	require.Equal(t, hash, HashUserAgent("Mozilla/5.0 (X11; Linux x86_64)"))
	require.NotEqual(t, hash, HashUserAgent("curl/8.5.0"))
	require.NotContains(t, hash, "Mozilla")
}

func TestHashUserAgentEmptyStaysEmpty(t *testing.T) {
	require.Equal(t, "", HashUserAgent(""))
}

func TestSecureCompare(t *testing.T) {
	require.True(t, SecureCompare("token", "token"))
	require.False(t, SecureCompare("token", "Token"))
	require.False(t, SecureCompare("token", "token "))
	require.False(t, SecureCompare("", "token"))
	require.True(t, SecureCompare("", ""))
}
