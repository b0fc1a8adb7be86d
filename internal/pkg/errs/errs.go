// Package errs is the error vocabulary shared by every layer of the booking
// service. Wrap and New capture stack traces through cockroachdb/errors;
// Mark attaches a classification sentinel so the HTTP boundary can map a
// failure with errors.Is without losing the underlying cause.
package errs

import (
	"fmt"
	"strings"

	cr "github.com/cockroachdb/errors"
)

func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

func New(msg string) error {
	return cr.New(msg)
}

// Mark attaches sentinel to err as a classification. The result matches
// errors.Is for the sentinel and for everything in err's own chain, so a
// repository error keeps its kind while gaining a usecase-level meaning.
func Mark(err error, sentinel error) error {
	if err == nil {
		return sentinel
	}
	if sentinel == nil {
		return err
	}
	return &markedError{cause: err, sentinel: sentinel}
}

type markedError struct {
	cause    error
	sentinel error
}

func (e *markedError) Error() string {
	return e.sentinel.Error() + ": " + e.cause.Error()
}

// Unwrap exposes both branches so stdlib errors.Is and errors.As walk the
// cause chain as well as the sentinel.
func (e *markedError) Unwrap() []error {
	return []error{e.cause, e.sentinel}
}

// Format keeps %+v verbose output flowing through the cause, which is where
// the stack trace lives.
func (e *markedError) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "%+v\n(marked as: %v)", e.cause, e.sentinel)
		return
	}
	fmt.Fprintf(s, fmt.FormatString(s, verb), e.Error())
}

// ExtractStackLines renders err verbosely and returns at most maxLines lines,
// for structured logs where a full multi-kilobyte trace is unwanted.
func ExtractStackLines(err error, maxLines int) []string {
	if err == nil {
		return nil
	}
	lines := strings.Split(fmt.Sprintf("%+v", err), "\n")
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return lines
}
