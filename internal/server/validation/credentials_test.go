package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegistration() RegistrationInput {
	return RegistrationInput{Name: "alice", Email: "alice@example.com", Password: "Abcdef1!"}
}

func fieldErrors(t *testing.T, err error) map[string]common.FieldError {
	t.Helper()
	ve, ok := common.IsValidation(err)
	require.True(t, ok, "expected *common.ValidationError, got %v", err)
	out := make(map[string]common.FieldError, len(ve.Fields))
	for _, f := range ve.Fields {
		out[f.Field] = f
	}
	return out
}

func TestValidateRegistration_Valid(t *testing.T) {
	got, err := New().ValidateRegistration(validRegistration())
	require.NoError(t, err)
	assert.Equal(t, validRegistration(), got)
}

func TestValidateRegistration_Normalizes(t *testing.T) {
	in := RegistrationInput{Name: "  alice ", Email: " Alice@Example.COM ", Password: "Abcdef1!"}

	got, err := New().ValidateRegistration(in)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Name)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.Equal(t, "Abcdef1!", got.Password, "password must not be altered")
}

func TestValidateRegistration_Password(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantType string
	}{
		{"seven characters", "short1!", common.TypeMinLength},
		{"no uppercase", "alllowercase1!", common.TypePasswordStrength},
		{"no lowercase", "ALLUPPERCASE1!", common.TypePasswordStrength},
		{"non-ascii lowercase only", "àBCDEFG1!", common.TypePasswordStrength},
		{"non-ascii uppercase only", "abcdefΣ1!", common.TypePasswordStrength},
		{"no digit", "Abcdefgh!", common.TypePasswordStrength},
		{"no special character", "Abcdefgh1", common.TypePasswordStrength},
		{"special outside the set", "Abcdefg1?", common.TypePasswordStrength},
		{"sixty five characters", "Aa1!" + strings.Repeat("x", 61), common.TypeMaxLength},
		{"empty", "", common.TypeMissing},
		{"valid", "Abcdefg1!", ""},
		{"valid at sixty four", "Aa1!" + strings.Repeat("x", 60), ""},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validRegistration()
			in.Password = tt.password

			_, err := v.ValidateRegistration(in)
			if tt.wantType == "" {
				require.NoError(t, err)
				return
			}
			require.True(t, errors.Is(err, common.ErrValidation))
			fe, ok := fieldErrors(t, err)["password"]
			require.True(t, ok)
			assert.Equal(t, tt.wantType, fe.Type)
		})
	}
}

func TestValidateRegistration_PasswordMessageNamesAllRequirements(t *testing.T) {
	in := validRegistration()
	in.Password = "abcdefgh"

	_, err := New().ValidateRegistration(in)
	msg := fieldErrors(t, err)["password"].Msg
	for _, want := range []string{"uppercase", "lowercase", "number", "special"} {
		assert.Contains(t, msg, want)
	}
}

func TestValidateRegistration_NameLength(t *testing.T) {
	tests := []struct {
		name  string
		value string
		ok    bool
	}{
		{"three", "abc", false},
		{"four", "abcd", true},
		{"sixteen", strings.Repeat("a", 16), true},
		{"seventeen", strings.Repeat("a", 17), false},
		{"four runes", "жёлт", true},
		{"blank after trim", "    ", false},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validRegistration()
			in.Name = tt.value

			_, err := v.ValidateRegistration(in)
			if tt.ok {
				require.NoError(t, err)
				return
			}
			_, ok := fieldErrors(t, err)["name"]
			assert.True(t, ok)
		})
	}
}

func TestValidateRegistration_Email(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		wantType string
	}{
		{"not an email", "alice-example.com", common.TypeEmail},
		{"missing domain", "alice@@example", common.TypeEmail},
		{"too short", "a@b.io", common.TypeMinLength},
		{"too long", strings.Repeat("a", 60) + "@example.com", common.TypeMaxLength},
		{"valid", "bob@example.org", ""},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validRegistration()
			in.Email = tt.email

			_, err := v.ValidateRegistration(in)
			if tt.wantType == "" {
				require.NoError(t, err)
				return
			}
			assert.Equal(t, tt.wantType, fieldErrors(t, err)["email"].Type)
		})
	}
}

func TestValidateRegistration_ReportsEveryField(t *testing.T) {
	_, err := New().ValidateRegistration(RegistrationInput{Name: "ab", Email: "nope", Password: "weak"})

	fields := fieldErrors(t, err)
	assert.Len(t, fields, 3)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
}

func TestValidateLogin(t *testing.T) {
	v := New()

	got, err := v.ValidateLogin(LoginInput{Email: " ALICE@example.com", Password: "Abcdef1!"})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.Email)

	_, err = v.ValidateLogin(LoginInput{Email: "alice@example.com", Password: "Abcdefgh1"})
	assert.True(t, errors.Is(err, common.ErrValidation))
}

func TestIsStrongPassword(t *testing.T) {
	for _, r := range SpecialCharacters {
		assert.True(t, IsStrongPassword("Abcdef1"+string(r)), "special %q", r)
	}
	assert.False(t, IsStrongPassword(""))
}
