package validate

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// v is the package-level singleton validator. It is initialised once at
// package load time. Any custom type registrations must be made during init()
// before the first call to Struct.
var v = validator.New()

func init() {
	// Report fields by their json name so error details match the wire format.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

// FieldError describes a single failed field constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error carries the per-field failures of a struct validation so the HTTP
// boundary can report them individually.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, fe := range e.Fields {
		msgs[i] = fmt.Sprintf("%s: %s", fe.Field, fe.Message)
	}
	return strings.Join(msgs, "; ")
}

// Struct validates the given struct using its validate tags.
// Returns a *Error with per-field messages, or nil.
func Struct(s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	out := &Error{}
	for _, fe := range ve {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Message: fmt.Sprintf("failed '%s' constraint", fe.Tag()),
		})
	}
	return out
}
