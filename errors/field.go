package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Field attaches the name of the invalid attribute to err. It returns
// nil when err is nil, so validation results can be passed in
// unchecked.
//
// Field names follow Go naming. Nested fields are joined with a dot and
// list elements use their index, for example Royalty.Splits.0.
func Field(fieldName string, err error, description string, args ...interface{}) error {
	if isNilErr(err) {
		return nil
	}
	// The stack is recorded once, at the innermost wrap.
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	if len(args) > 0 {
		description = fmt.Sprintf(description, args...)
	}
	return &fieldError{parent: err, field: fieldName, desc: description}
}

// AppendField adds the error of a single field to errs. Nil errors are
// ignored, which allows chaining validation calls:
//
//	errs = errors.AppendField(errs, "Owner", c.Owner.Validate())
//	errs = errors.AppendField(errs, "MintID", validateMintID(c.MintID))
func AppendField(errs error, fieldName string, fieldErr error) error {
	return Append(errs, Field(fieldName, fieldErr, ""))
}

type fieldError struct {
	parent error
	field  string
	desc   string
}

func (e *fieldError) Error() string {
	if e.desc == "" {
		return fmt.Sprintf("field %q: %s", e.field, e.parent)
	}
	return fmt.Sprintf("field %q: %s: %s", e.field, e.desc, e.parent)
}

func (e *fieldError) Cause() error  { return e.parent }
func (e *fieldError) Field() string { return e.field }

type fielder interface {
	Field() string
}

// FieldErrors walks the error tree of err and returns every error
// created for fieldName. When field errors are nested under the same
// name, only the outermost one is returned.
func FieldErrors(err error, fieldName string) []error {
	var found []error
	for !isNilErr(err) {
		if f, ok := err.(fielder); ok && f.Field() == fieldName {
			return append(found, err)
		}
		// Unpack yields every child, Cause would only repeat one of
		// them.
		if u, ok := err.(unpacker); ok {
			for _, child := range u.Unpack() {
				found = append(found, FieldErrors(child, fieldName)...)
			}
			return found
		}
		c, ok := err.(causer)
		if !ok {
			break
		}
		err = c.Cause()
	}
	return found
}
