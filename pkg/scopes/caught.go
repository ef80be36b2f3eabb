package scopes

import (
	stderrors "errors"

	"github.com/arthur-debert/testscope/pkg/errors"
)

// Caught runs fn expecting it to fail with a failure of type E and returns
// that failure as a value for inspection. When fn succeeds, an
// EXPECTED_FAILURE error is returned; a failure of any other kind is returned
// unchanged.
func Caught[E error](fn func() error) (E, error) {
	var caught E
	err := fn()
	if err == nil {
		return caught, errors.New(errors.ErrExpectedFailure, "expected a failure but none occurred")
	}
	if stderrors.As(err, &caught) {
		return caught, nil
	}
	return caught, err
}
