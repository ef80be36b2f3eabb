package scopes

import (
	"errors"
)

// Scope is a paired enter/exit unit of work with guaranteed symmetric
// side-effect application and reversal. A Scope is constructed inert,
// becomes active on Enter and inert again on Exit. Instances are single-use:
// re-entering an exited scope is undefined.
type Scope interface {
	// Enter acquires the resource and applies the scoped side effect.
	Enter() error

	// Exit reverses the side effect. It must be called exactly once after a
	// successful Enter, regardless of how the protected body finished.
	Exit() error
}

// With enters the scope, runs body, and always exits the scope once Enter
// succeeded -- including when body panics. The body's error takes precedence;
// if Exit also fails the two errors are joined rather than either being
// swallowed.
func With(s Scope, body func() error) (err error) {
	if enterErr := s.Enter(); enterErr != nil {
		return enterErr
	}
	defer func() {
		if exitErr := s.Exit(); exitErr != nil {
			err = errors.Join(err, exitErr)
		}
	}()
	return body()
}

// Stack composes scopes so they enter first-to-last and exit last-to-first.
// When a later Enter fails, the scopes already entered are unwound in reverse
// order before the error is returned.
type Stack struct {
	scopes  []Scope
	entered []Scope
}

// NewStack returns a Stack over the given scopes. The Stack owns the
// enter/exit ordering; callers must not enter or exit the members directly.
func NewStack(scopes ...Scope) *Stack {
	return &Stack{scopes: scopes}
}

// Enter enters every scope in order.
func (st *Stack) Enter() error {
	for _, s := range st.scopes {
		if err := s.Enter(); err != nil {
			unwindErr := st.Exit()
			return errors.Join(err, unwindErr)
		}
		st.entered = append(st.entered, s)
	}
	return nil
}

// Exit exits the entered scopes in reverse order. Every entered scope gets
// its Exit called even when an earlier one fails; failures are joined.
func (st *Stack) Exit() error {
	var errs []error
	for i := len(st.entered) - 1; i >= 0; i-- {
		if err := st.entered[i].Exit(); err != nil {
			errs = append(errs, err)
		}
	}
	st.entered = nil
	return errors.Join(errs...)
}
