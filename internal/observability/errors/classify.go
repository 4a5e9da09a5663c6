// Package errors classifies errors into short tags for metrics and logs.
package errors

import (
	"reflect"
	"strings"
)

// Classify returns a normalized type name for the innermost cause of err,
// e.g. "net_operror" or "context_deadlineexceedederror" after lowercasing.
// Joined errors (Unwrap() []error) are followed through their last element,
// which is where the gateway keeps the underlying cause.
func Classify(err error) string {
	if err == nil {
		return ""
	}

	err = innermost(err)

	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "unknown"
	}

	name := strings.ToLower(strings.ReplaceAll(t.String(), "*", ""))
	name = strings.ReplaceAll(name, ".", "_")
	if name == "" {
		return "unknown"
	}
	return name
}

func innermost(err error) error {
	for {
		switch u := err.(type) {
		case interface{ Unwrap() error }:
			next := u.Unwrap()
			if next == nil {
				return err
			}
			err = next
		case interface{ Unwrap() []error }:
			errs := u.Unwrap()
			if len(errs) == 0 || errs[len(errs)-1] == nil {
				return err
			}
			err = errs[len(errs)-1]
		default:
			return err
		}
	}
}
