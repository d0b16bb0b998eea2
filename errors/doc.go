/*
Package errors defines the error codes shared by the mint registry and
helpers to wrap, group and inspect them.

Every error returned by a handler should wrap one of the root errors
declared here or registered by an extension with Register. The root
decides the numeric code a client sees, see Code. Extensions keep to
their own range: orm uses 100 to 109, x/royalty 200 to 209 and x/mint
300 to 309.

	if err := c.Validate(); err != nil {
		return errors.Wrap(err, "configuration")
	}
	if !errors.ErrNotFound.Is(err) {
		return err
	}

Wrap records a stack trace the first time an error is wrapped. Format
the error with %+v to print it, or with %v to get only the location
where it was created. Do not declare wrapped errors as package
variables, the recorded stack would point at package initialization.

Append groups several errors into one, which is how model validation
reports every invalid field at once, and Field names the attribute an
error belongs to.
*/
package errors
