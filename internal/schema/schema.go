// Package schema validates structured values against a declarative JSON
// Schema and reports the failures as per-field messages.
package schema

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// FieldError is one failed rule. Path is empty for value-level failures.
type FieldError struct {
	Path    string // a.b[0].c
	Keyword string // minLength, format, ...
	Message string
}

func (e FieldError) String() string {
	if e.Path == "" {
		return e.Message
	}
	return e.Path + ": " + e.Message
}

// Errors is the outcome of a validation; empty means valid.
type Errors []FieldError

// Valid reports whether nothing failed.
func (e Errors) Valid() bool { return len(e) == 0 }

// Get returns the first message reported for path.
func (e Errors) Get(path string) (string, bool) {
	for _, fe := range e {
		if fe.Path == path {
			return fe.Message, true
		}
	}
	return "", false
}

// Under keeps the errors at path or below it.
func (e Errors) Under(path string) Errors {
	var out Errors
	for _, fe := range e {
		if fe.Path == path || strings.HasPrefix(fe.Path, path+".") || strings.HasPrefix(fe.Path, path+"[") {
			out = append(out, fe)
		}
	}
	return out
}

// Messages overrides library messages. Keys are a path pattern, where
// array indices are written [*], optionally followed by #keyword:
//
//	"friends[*].name#minLength"  one rule of one field
//	"age"                        any rule of the field
type Messages map[string]string

func (m Messages) lookup(path, keyword, fallback string) string {
	pattern := indexRegexp.ReplaceAllString(path, "[*]")
	if msg, ok := m[pattern+"#"+keyword]; ok {
		return msg
	}
	if msg, ok := m[pattern]; ok {
		return msg
	}
	return fallback
}

var indexRegexp = regexp.MustCompile(`\[\d+\]`)

// Schema is a compiled rule set plus its message table.
type Schema struct {
	name     string
	compiled *jsonschema.Schema
	messages Messages
}

// Compile parses source as a draft 2020-12 schema with format assertions on.
func Compile(name, source string, messages Messages) (*Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true

	if err := compiler.AddResource(name, strings.NewReader(source)); err != nil {
		return nil, fmt.Errorf("add schema %s: %w", name, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}
	return &Schema{name: name, compiled: compiled, messages: messages}, nil
}

// MustCompile is Compile for schemas embedded in the binary.
func MustCompile(name, source string, messages Messages) *Schema {
	s, err := Compile(name, source, messages)
	if err != nil {
		panic(err)
	}
	return s
}

// Name is the resource name the schema was compiled under.
func (s *Schema) Name() string { return s.name }

// Validate checks value, which must marshal to JSON. It never returns a
// Go error: a value that cannot be encoded is reported as a root failure.
func (s *Schema) Validate(value any) Errors {
	data, err := json.Marshal(value)
	if err != nil {
		return Errors{{Message: fmt.Sprintf("encode value: %v", err)}}
	}
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return Errors{{Message: fmt.Sprintf("decode value: %v", err)}}
	}

	err = s.compiled.Validate(doc)
	if err == nil {
		return nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return Errors{{Message: err.Error()}}
	}
	var out Errors
	s.collect(&out, ve)
	return out
}

func (s *Schema) collect(out *Errors, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		path := pointerToPath(err.InstanceLocation)
		keyword := lastSegment(err.KeywordLocation)
		*out = append(*out, FieldError{
			Path:    path,
			Keyword: keyword,
			Message: s.messages.lookup(path, keyword, err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		s.collect(out, cause)
	}
}

func lastSegment(ptr string) string {
	if i := strings.LastIndex(ptr, "/"); i >= 0 {
		return ptr[i+1:]
	}
	return ptr
}

// pointerToPath turns /friends/0/name into friends[0].name.
func pointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&b, "[%d]", idx)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
