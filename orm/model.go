package orm

import (
	"reflect"

	"github.com/mintbase/weave"
	"github.com/mintbase/weave/errors"
)

// Model is implemented by any entity that can be stored using ModelBucket.
type Model interface {
	weave.Persistent
	Validate() error
}

// ModelSlicePtr represents a pointer to a slice of models. Think of it as
// *[]Model Because of Go type system, using []Model type would not work for
// us. Instead we use a placeholder type and the validation is done during the
// runtime.
type ModelSlicePtr interface{}

// newModel returns a fresh instance of the same type as the prototype.
func newModel(proto Model) Model {
	return reflect.New(reflect.TypeOf(proto).Elem()).Interface().(Model)
}

// appendModel appends given model to the slice pointed by dest. Dest must
// be a pointer to a slice of models or model pointers.
func appendModel(dest ModelSlicePtr, m Model) error {
	ptr := reflect.ValueOf(dest)
	if ptr.Kind() != reflect.Ptr || ptr.IsNil() || ptr.Elem().Kind() != reflect.Slice {
		return errors.Wrapf(errors.ErrType, "destination must be a pointer to a slice, got %T", dest)
	}
	slice := ptr.Elem()
	val := reflect.ValueOf(m)
	elemType := slice.Type().Elem()
	switch {
	case val.Type().AssignableTo(elemType):
	case val.Elem().Type().AssignableTo(elemType):
		val = val.Elem()
	default:
		return errors.Wrapf(errors.ErrType, "%T cannot be stored in %T", m, dest)
	}
	slice.Set(reflect.Append(slice, val))
	return nil
}
