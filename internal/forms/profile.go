package forms

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/idilsaglam/learn/internal/form"
	"github.com/idilsaglam/learn/internal/model"
	"github.com/idilsaglam/learn/internal/schema"
)

const profileSchemaSource = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "firstName": {"type": "string", "minLength": 1},
    "email": {"type": "string", "format": "email"},
    "profileUrl": {"type": "string", "format": "uri"},
    "age": {"type": ["integer", "null"], "minimum": 18},
    "friends": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {"name": {"type": "string", "minLength": 1}},
        "required": ["name"]
      }
    },
    "settings": {
      "type": "object",
      "properties": {"isSubscribed": {"type": "boolean"}},
      "required": ["isSubscribed"]
    }
  },
  "required": ["firstName", "email", "age", "friends", "settings"]
}`

var profileSchema = schema.MustCompile("profile.json", profileSchemaSource, schema.Messages{
	"firstName":       "Nome é obrigatório",
	"email":           "Email inválido",
	"profileUrl":      "URL inválida",
	"age":             "Idade mínima é 18 anos",
	"friends[*].name": "Nome do amigo é obrigatório",
})

// FriendsField is the field array name of the profile form.
const FriendsField = "friends"

// ProfileInput is the profile form as typed: every text field is raw.
type ProfileInput struct {
	FirstName    string
	Email        string
	ProfileURL   string
	Age          string
	Friends      *form.FieldArray[model.Friend]
	IsSubscribed bool
}

// NewProfileInput returns the defaults: blank fields and one empty friend.
func NewProfileInput() *ProfileInput {
	return &ProfileInput{
		Friends: form.NewFieldArray(FriendsField, model.Friend{}),
	}
}

// ParseAge converts the age text for validation. Blank is null, an
// integer is a number, anything else (NaN and infinities included) stays
// a string so the age rule rejects it instead of reading it as 0.
func ParseAge(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return s
	}
	if f == math.Trunc(f) {
		if math.Abs(f) > maxExactInt {
			// Too big to survive the trip to int; let the age rule reject it.
			return s
		}
		return int(f)
	}
	return f
}

// maxExactInt is the largest integer a float64 holds exactly.
const maxExactInt = 1 << 53

// Document is the value handed to the schema. An empty URL is left out.
func (in *ProfileInput) Document() map[string]any {
	friends := make([]model.Friend, 0, in.Friends.Len())
	friends = append(friends, in.Friends.Values()...)
	doc := map[string]any{
		"firstName": in.FirstName,
		"email":     in.Email,
		"age":       ParseAge(in.Age),
		"friends":   friends,
		"settings":  model.Settings{IsSubscribed: in.IsSubscribed},
	}
	if in.ProfileURL != "" {
		doc["profileUrl"] = in.ProfileURL
	}
	return doc
}

// ValidateProfile checks the raw input.
func ValidateProfile(in *ProfileInput) schema.Errors {
	return profileSchema.Validate(in.Document())
}

// DecodeProfile validates in and, when valid, returns the typed value.
func DecodeProfile(in *ProfileInput) (model.Profile, form.Errors) {
	errs := ValidateProfile(in)
	if !errs.Valid() {
		return model.Profile{}, form.FromSchema(errs)
	}
	p := model.Profile{
		FirstName: in.FirstName,
		Email:     in.Email,
		Friends:   in.Friends.Values(),
		Settings:  model.Settings{IsSubscribed: in.IsSubscribed},
	}
	if in.ProfileURL != "" {
		u := in.ProfileURL
		p.ProfileURL = &u
	}
	if n, ok := ParseAge(in.Age).(int); ok {
		p.Age = &n
	}
	return p, nil
}

// NewProfileForm binds in to the profile schema.
func NewProfileForm(in *ProfileInput, sub *Submitter) *form.Form[model.Profile] {
	return form.New(form.Config[model.Profile]{
		Decode:       func() (model.Profile, form.Errors) { return DecodeProfile(in) },
		Submit:       sub.Profile,
		RootMessage:  func(error) string { return "Erro ao enviar." },
		OnTransition: sub.transition("profile"),
	})
}

// Profile simulates posting the profile.
func (s *Submitter) Profile(ctx context.Context, v model.Profile) error {
	if err := s.wait(ctx); err != nil {
		s.logger().Error("Erro ao enviar", "err", err)
		return err
	}
	s.logger().Info("Dados válidos", "data", v)
	return nil
}
