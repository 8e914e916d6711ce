// Package validation normalizes and checks credential input before it
// reaches the authentication service.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/go-playground/validator/v10"
)

// SpecialCharacters is the set a password must draw at least one character from.
const SpecialCharacters = "!@#$%^&*()_+-="

const passwordStrengthMsg = "password must contain at least one uppercase letter, one lowercase letter, one number, and one special character"

// RegistrationInput is the raw input of a registration request.
type RegistrationInput struct {
	Name     string `json:"name" validate:"required,min=4,max=16"`
	Email    string `json:"email" validate:"required,min=8,max=64,email"`
	Password string `json:"password" validate:"required,min=8,max=64,strong_password"`
}

// LoginInput is the raw input of an authentication request.
type LoginInput struct {
	Email    string `json:"email" validate:"required,min=8,max=64,email"`
	Password string `json:"password" validate:"required,min=8,max=64,strong_password"`
}

// Validator checks credential input. It is safe for concurrent use.
type Validator struct {
	v *validator.Validate
}

// New builds a Validator with the password strength rule registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	// registration of a static tag with a valid function cannot fail
	_ = v.RegisterValidation("strong_password", func(fl validator.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	})

	return &Validator{v: v}
}

// ValidateRegistration normalizes in and checks every field. On failure the
// returned error is a *common.ValidationError listing each offending field.
func (val *Validator) ValidateRegistration(in RegistrationInput) (RegistrationInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = NormalizeEmail(in.Email)

	if err := val.check(in); err != nil {
		return RegistrationInput{}, err
	}
	return in, nil
}

// ValidateLogin normalizes in and applies the same email and password rules
// as registration.
func (val *Validator) ValidateLogin(in LoginInput) (LoginInput, error) {
	in.Email = NormalizeEmail(in.Email)

	if err := val.check(in); err != nil {
		return LoginInput{}, err
	}
	return in, nil
}

func (val *Validator) check(s any) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]common.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, toFieldError(fe))
	}
	return &common.ValidationError{Fields: fields}
}

func toFieldError(fe validator.FieldError) common.FieldError {
	out := common.FieldError{Field: fe.Field()}

	switch fe.Tag() {
	case "required":
		out.Msg, out.Type = "field required", common.TypeMissing
	case "min":
		out.Msg, out.Type = "ensure this value has at least "+fe.Param()+" characters", common.TypeMinLength
	case "max":
		out.Msg, out.Type = "ensure this value has at most "+fe.Param()+" characters", common.TypeMaxLength
	case "email":
		out.Msg, out.Type = "value is not a valid email address", common.TypeEmail
	case "strong_password":
		out.Msg, out.Type = passwordStrengthMsg, common.TypePasswordStrength
	default:
		out.Msg, out.Type = fe.Error(), "value_error."+fe.Tag()
	}

	return out
}

// NormalizeEmail trims surrounding whitespace and lower-cases the address.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// IsStrongPassword reports whether s has at least one ASCII lowercase letter,
// one ASCII uppercase letter, one digit and one character from
// SpecialCharacters.
func IsStrongPassword(s string) bool {
	var lower, upper, digit, special bool
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(SpecialCharacters, r):
			special = true
		}
	}
	return lower && upper && digit && special
}
