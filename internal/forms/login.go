// Package forms holds the concrete schemas behind the Learn 1 and Learn 3
// pages and turns raw text input into validated values.
package forms

import (
	"context"
	"errors"

	"github.com/idilsaglam/learn/internal/form"
	"github.com/idilsaglam/learn/internal/model"
	"github.com/idilsaglam/learn/internal/schema"
)

const loginSchemaSource = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "email": {"type": "string", "format": "email"},
    "password": {"type": "string", "minLength": 8}
  },
  "required": ["email", "password"]
}`

var loginSchema = schema.MustCompile("login.json", loginSchemaSource, schema.Messages{
	"email":    "Invalid email",
	"password": "String must contain at least 8 character(s)",
})

// ErrEmailTaken is the simulated conflict a login submit can fail with.
var ErrEmailTaken = errors.New("email already taken")

// DefaultLogin is the pre-filled login value set.
func DefaultLogin() model.Login {
	return model.Login{Email: "test@email.com"}
}

// ValidateLogin checks a login value set.
func ValidateLogin(v model.Login) schema.Errors {
	return loginSchema.Validate(v)
}

// NewLoginForm binds in to the login schema. The form reads in on every
// submit, so callers keep editing the same value.
func NewLoginForm(in *model.Login, sub *Submitter) *form.Form[model.Login] {
	return form.New(form.Config[model.Login]{
		Decode: func() (model.Login, form.Errors) {
			v := *in
			return v, form.FromSchema(ValidateLogin(v))
		},
		Submit: sub.Login,
		RootMessage: func(err error) string {
			if errors.Is(err, ErrEmailTaken) {
				return "Email already taken."
			}
			return "Something went wrong."
		},
		OnTransition: sub.transition("login"),
	})
}

// Login simulates the sign-up call.
func (s *Submitter) Login(ctx context.Context, v model.Login) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	if s.FailLogin {
		s.logger().Warn("login rejected", "email", v.Email)
		return ErrEmailTaken
	}
	s.logger().Info("login submitted", "email", v.Email)
	return nil
}
