package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
  "type": "object",
  "properties": {
    "email": {"type": "string", "format": "email"},
    "tags": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {"name": {"type": "string", "minLength": 1}},
        "required": ["name"]
      }
    },
    "age": {"type": ["integer", "null"], "minimum": 18}
  },
  "required": ["email"]
}`

func mustTestSchema(t *testing.T) *Schema {
	t.Helper()
	s, err := Compile("test.json", testSchema, Messages{
		"email#format": "bad email",
		"tags[*].name": "tag name required",
		"age":          "too young",
	})
	require.NoError(t, err)
	return s
}

func TestValidateValid(t *testing.T) {
	s := mustTestSchema(t)
	errs := s.Validate(map[string]any{
		"email": "a@b.com",
		"tags":  []map[string]string{{"name": "x"}},
		"age":   nil,
	})
	assert.True(t, errs.Valid())
}

func TestValidatePathsAndMessages(t *testing.T) {
	s := mustTestSchema(t)
	errs := s.Validate(map[string]any{
		"email": "not-an-email",
		"tags":  []map[string]string{{"name": "ok"}, {"name": ""}},
		"age":   17,
	})
	require.False(t, errs.Valid())

	msg, ok := errs.Get("email")
	require.True(t, ok)
	assert.Equal(t, "bad email", msg)

	msg, ok = errs.Get("tags[1].name")
	require.True(t, ok)
	assert.Equal(t, "tag name required", msg)

	_, ok = errs.Get("tags[0].name")
	assert.False(t, ok)

	msg, ok = errs.Get("age")
	require.True(t, ok)
	assert.Equal(t, "too young", msg)

	assert.Len(t, errs.Under("tags"), 1)
}

func TestValidateTypeMismatchUsesFieldMessage(t *testing.T) {
	s := mustTestSchema(t)
	errs := s.Validate(map[string]any{"email": "a@b.com", "age": "abc"})

	msg, ok := errs.Get("age")
	require.True(t, ok)
	assert.Equal(t, "too young", msg)
	assert.Equal(t, "type", errs[0].Keyword)
}

func TestValidateFallsBackToLibraryMessage(t *testing.T) {
	s, err := Compile("plain.json", `{"type":"object","properties":{"n":{"type":"string","minLength":3}}}`, nil)
	require.NoError(t, err)

	errs := s.Validate(map[string]string{"n": "ab"})
	require.Len(t, errs, 1)
	assert.Equal(t, "n", errs[0].Path)
	assert.Equal(t, "minLength", errs[0].Keyword)
	assert.NotEmpty(t, errs[0].Message)
}

func TestValidateUnencodable(t *testing.T) {
	s := mustTestSchema(t)
	errs := s.Validate(map[string]any{"email": make(chan int)})
	require.Len(t, errs, 1)
	assert.Equal(t, "", errs[0].Path)
}

func TestCompileError(t *testing.T) {
	_, err := Compile("broken.json", `{"type": 12}`, nil)
	assert.Error(t, err)

	assert.Panics(t, func() { MustCompile("broken2.json", `{`, nil) })
}

func TestPointerToPath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"/", ""},
		{"/email", "email"},
		{"/friends/0/name", "friends[0].name"},
		{"/settings/isSubscribed", "settings.isSubscribed"},
		{"#/a~1b/c~0d", "a/b.c~d"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, pointerToPath(tt.in))
		})
	}
}

func TestMessagesLookup(t *testing.T) {
	m := Messages{
		"friends[*].name#minLength": "specific",
		"friends[*].name":           "generic",
	}
	assert.Equal(t, "specific", m.lookup("friends[3].name", "minLength", "lib"))
	assert.Equal(t, "generic", m.lookup("friends[3].name", "type", "lib"))
	assert.Equal(t, "lib", m.lookup("email", "format", "lib"))
}
