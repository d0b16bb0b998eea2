package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If given error implements unpacker interface, it is flattened. All
// contained errors are extracted and added to the result set.
func Append(errs ...error) error {
	var res multiErr
	for _, err := range errs {
		if isNilErr(err) {
			continue
		}
		if u, ok := err.(unpacker); ok {
			res = append(res, u.Unpack()...)
		} else {
			res = append(res, err)
		}
	}
	switch len(res) {
	case 0:
		return nil
	case 1:
		return res[0]
	default:
		return res
	}
}

// multiErr represents a cumulative error object that clubs together errors.
type multiErr []error

func (errs multiErr) Error() string {
	if len(errs) == 1 {
		return fmt.Sprintf("1 error occurred:\n\t* %s\n\n", errs[0])
	}

	points := make([]string, len(errs))
	for i, err := range errs {
		points[i] = fmt.Sprintf("* %s", err)
	}

	return fmt.Sprintf(
		"%d errors occurred:\n\t%s\n\n",
		len(errs), strings.Join(points, "\n\t"))
}

// Unpack returns all clubbed errors.
func (errs multiErr) Unpack() []error {
	return errs
}

var _ unpacker = (multiErr)(nil)
