package forms

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/learn/internal/form"
	"github.com/idilsaglam/learn/internal/model"
)

func validProfile() *ProfileInput {
	in := NewProfileInput()
	in.FirstName = "Ana"
	in.Email = "ana@example.com"
	in.Friends.Set(0, model.Friend{Name: "Bia"})
	return in
}

func TestLoginDefaults(t *testing.T) {
	v := DefaultLogin()
	assert.Equal(t, "test@email.com", v.Email)
	assert.Empty(t, v.Password)
}

func TestValidateLogin(t *testing.T) {
	tests := []struct {
		name      string
		in        model.Login
		wantPaths []string
	}{
		{"valid", model.Login{Email: "test@email.com", Password: "12345678"}, nil},
		{"bad email", model.Login{Email: "not-an-email", Password: "12345678"}, []string{"email"}},
		{"short password", model.Login{Email: "test@email.com", Password: "1234567"}, []string{"password"}},
		{"empty password", model.Login{Email: "test@email.com"}, []string{"password"}},
		{"both", model.Login{Email: "", Password: "x"}, []string{"email", "password"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := form.FromSchema(ValidateLogin(tt.in))
			if tt.wantPaths == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.wantPaths, got.Paths())
		})
	}
}

func TestLoginFormInvalidEmailDoesNotSubmit(t *testing.T) {
	in := model.Login{Email: "not-an-email", Password: "12345678"}
	var buf bytes.Buffer
	sub := &Submitter{Logger: log.New(&buf)}
	f := NewLoginForm(&in, sub)

	err := f.Submit(context.Background())
	assert.ErrorIs(t, err, form.ErrInvalid)
	assert.Equal(t, "Invalid email", f.FieldError("email"))
	assert.Equal(t, form.Idle, f.State())
	assert.NotContains(t, buf.String(), "login submitted")
}

func TestLoginFormShortPassword(t *testing.T) {
	in := DefaultLogin()
	in.Password = "short"
	f := NewLoginForm(&in, &Submitter{})

	_ = f.Submit(context.Background())
	assert.Equal(t, "String must contain at least 8 character(s)", f.FieldError("password"))
	assert.Empty(t, f.FieldError("email"))
}

func TestLoginFormSubmitFailure(t *testing.T) {
	in := DefaultLogin()
	in.Password = "password1"
	f := NewLoginForm(&in, &Submitter{FailLogin: true})

	err := f.Submit(context.Background())
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Equal(t, form.SubmitFailed, f.State())
	assert.Equal(t, "Email already taken.", f.RootError())
	assert.Equal(t, "password1", in.Password)
}

func TestLoginFormSubmitSuccess(t *testing.T) {
	in := DefaultLogin()
	in.Password = "password1"
	var buf bytes.Buffer
	f := NewLoginForm(&in, &Submitter{Delay: 5 * time.Millisecond, Logger: log.New(&buf)})

	require.NoError(t, f.Submit(context.Background()))
	assert.Equal(t, form.SubmitSucceeded, f.State())
	assert.Contains(t, buf.String(), "login submitted")
	assert.NotContains(t, buf.String(), "password1")
}

func TestSubmitHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sub := &Submitter{Delay: time.Hour}
	assert.ErrorIs(t, sub.Login(ctx, DefaultLogin()), context.Canceled)
	assert.ErrorIs(t, sub.Profile(ctx, model.Profile{}), context.Canceled)
}

func TestParseAge(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"", nil},
		{"   ", nil},
		{"18", 18},
		{" 42 ", 42},
		{"18.0", 18},
		{"17.5", 17.5},
		{"abc", "abc"},
		{"0", 0},
		{"3000000000.0", 3000000000},
		{"NaN", "NaN"},
		{"Inf", "Inf"},
		{"-inf", "-inf"},
		{"1e400", "1e400"},
		{"1e20", "1e20"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAge(tt.in))
		})
	}
}

func TestValidateProfile(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*ProfileInput)
		want   map[string]string
	}{
		{"valid", func(*ProfileInput) {}, nil},
		{"blank age is allowed", func(in *ProfileInput) { in.Age = "" }, nil},
		{"adult", func(in *ProfileInput) { in.Age = "18" }, nil},
		{"minor", func(in *ProfileInput) { in.Age = "17" }, map[string]string{"age": "Idade mínima é 18 anos"}},
		{"non numeric age", func(in *ProfileInput) { in.Age = "abc" }, map[string]string{"age": "Idade mínima é 18 anos"}},
		{"fractional age", func(in *ProfileInput) { in.Age = "18.5" }, map[string]string{"age": "Idade mínima é 18 anos"}},
		{"NaN age", func(in *ProfileInput) { in.Age = "NaN" }, map[string]string{"age": "Idade mínima é 18 anos"}},
		{"Inf age", func(in *ProfileInput) { in.Age = "Inf" }, map[string]string{"age": "Idade mínima é 18 anos"}},
		{"negative infinite age", func(in *ProfileInput) { in.Age = "-inf" }, map[string]string{"age": "Idade mínima é 18 anos"}},
		{"huge integral age", func(in *ProfileInput) { in.Age = "1e20" }, map[string]string{"age": "Idade mínima é 18 anos"}},
		{"missing first name", func(in *ProfileInput) { in.FirstName = "" }, map[string]string{"firstName": "Nome é obrigatório"}},
		{"bad email", func(in *ProfileInput) { in.Email = "ana" }, map[string]string{"email": "Email inválido"}},
		{"empty url is absent", func(in *ProfileInput) { in.ProfileURL = "" }, nil},
		{"valid url", func(in *ProfileInput) { in.ProfileURL = "https://example.com/ana" }, nil},
		{"relative url", func(in *ProfileInput) { in.ProfileURL = "example.com" }, map[string]string{"profileUrl": "URL inválida"}},
		{"empty friend", func(in *ProfileInput) {
			in.Friends.Append(model.Friend{})
		}, map[string]string{"friends[1].name": "Nome do amigo é obrigatório"}},
		{"no friends", func(in *ProfileInput) { in.Friends.Remove(0) }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validProfile()
			tt.modify(in)
			got := form.FromSchema(ValidateProfile(in))
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, form.Errors(tt.want), got)
		})
	}
}

func TestDecodeProfile(t *testing.T) {
	in := validProfile()
	in.Age = "30"
	in.ProfileURL = "https://example.com"
	in.IsSubscribed = true

	p, errs := DecodeProfile(in)
	require.Empty(t, errs)
	require.NotNil(t, p.Age)
	assert.Equal(t, 30, *p.Age)
	require.NotNil(t, p.ProfileURL)
	assert.Equal(t, "https://example.com", *p.ProfileURL)
	assert.Equal(t, []model.Friend{{Name: "Bia"}}, p.Friends)
	assert.True(t, p.Settings.IsSubscribed)

	in.Age = ""
	in.ProfileURL = ""
	p, errs = DecodeProfile(in)
	require.Empty(t, errs)
	assert.Nil(t, p.Age)
	assert.Nil(t, p.ProfileURL)
}

func TestDecodeProfileLargeIntegralAge(t *testing.T) {
	in := validProfile()
	in.Age = "3000000000.0"

	p, errs := DecodeProfile(in)
	require.Empty(t, errs)
	require.NotNil(t, p.Age)
	assert.Equal(t, 3000000000, *p.Age)
}

func TestProfileFormBlankAgeSubmits(t *testing.T) {
	in := validProfile()
	var buf bytes.Buffer
	f := NewProfileForm(in, &Submitter{Logger: log.New(&buf)})

	require.NoError(t, f.Submit(context.Background()))
	assert.Equal(t, form.SubmitSucceeded, f.State())
	assert.Contains(t, buf.String(), "Dados válidos")
}

func TestProfileFormMinorBlocked(t *testing.T) {
	in := validProfile()
	in.Age = "17"
	f := NewProfileForm(in, &Submitter{})

	assert.ErrorIs(t, f.Submit(context.Background()), form.ErrInvalid)
	assert.Equal(t, "Idade mínima é 18 anos", f.FieldError("age"))
}

func TestProfileFriendRemovalClearsStaleErrors(t *testing.T) {
	in := NewProfileInput()
	in.FirstName = "Ana"
	in.Email = "ana@example.com"
	in.Friends.Append(model.Friend{Name: "Bia"})
	f := NewProfileForm(in, &Submitter{})

	_ = f.Submit(context.Background())
	require.Equal(t, "Nome do amigo é obrigatório", f.FieldError("friends[0].name"))

	in.Friends.Remove(0)
	f.RowRemoved(FriendsField, 0, in.Friends.Len())
	assert.Empty(t, f.Errors())

	require.NoError(t, f.Submit(context.Background()))
}
