package forms

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoginForm(t *testing.T) {
	require.NoError(t, LoginForm{Username: "alice", Password: "secret"}.Validate())
	require.ErrorIs(t, LoginForm{Username: "alice"}.Validate(), ErrLoginFieldsRequired)
	require.ErrorIs(t, LoginForm{Password: "secret"}.Validate(), ErrLoginFieldsRequired)
}

func TestRegisterForm(t *testing.T) {
	valid := RegisterForm{
		Username:        "bob",
		Email:           "bob@example.com",
		Password:        "pw12345",
		ConfirmPassword: "pw12345",
		AcceptTerms:     true,
	}
	require.NoError(t, valid.Validate())

	cases := []struct {
		name   string
		mutate func(*RegisterForm)
		want   error
	}{
		{"missing username", func(f *RegisterForm) { f.Username = "" }, ErrAllFieldsRequired},
		{"missing confirmation", func(f *RegisterForm) { f.ConfirmPassword = "" }, ErrAllFieldsRequired},
		{"bad email", func(f *RegisterForm) { f.Email = "bob-at-example" }, ErrInvalidEmail},
		{"mismatch", func(f *RegisterForm) { f.ConfirmPassword = "other" }, ErrPasswordMismatch},
		{"terms", func(f *RegisterForm) { f.AcceptTerms = false }, ErrTermsNotAccepted},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := valid
			tc.mutate(&f)
			require.ErrorIs(t, f.Validate(), tc.want)
		})
	}
}
