package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMalformedInput           = errors.New("malformed input")
	ErrAmbiguousResolution      = errors.New("ambiguous resolution")
	ErrUndeterminedLaunchTarget = errors.New("undetermined launch target")
	ErrMissingResource          = errors.New("missing resource")
)

// MalformedInputError reports a structural violation in a mapping document.
// Line is 1-based; zero means the error is not tied to a single line.
type MalformedInputError struct {
	Document string
	Line     int
	Reason   string
}

func (e *MalformedInputError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: %s:%d: %s", ErrMalformedInput, e.Document, e.Line, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrMalformedInput, e.Document, e.Reason)
}

func (e *MalformedInputError) Is(target error) bool { return target == ErrMalformedInput }

// UndeterminedLaunchTargetError is returned when no fallback stage produced an entry point.
// Candidates lists the classes found by static scanning (empty or more than one).
type UndeterminedLaunchTargetError struct {
	Dir        string
	Candidates []string
}

func (e *UndeterminedLaunchTargetError) Error() string {
	switch len(e.Candidates) {
	case 0:
		return fmt.Sprintf("%s: no main class configured, no executable archive and no main class found in %q", ErrUndeterminedLaunchTarget, e.Dir)
	default:
		return fmt.Sprintf("%s: %d main class candidates found in %q: %s", ErrUndeterminedLaunchTarget, len(e.Candidates), e.Dir, strings.Join(e.Candidates, ", "))
	}
}

// Is matches ErrUndeterminedLaunchTarget, and ErrAmbiguousResolution when
// more than one candidate was found.
func (e *UndeterminedLaunchTargetError) Is(target error) bool {
	switch target {
	case ErrUndeterminedLaunchTarget:
		return true
	case ErrAmbiguousResolution:
		return len(e.Candidates) > 1
	}
	return false
}

// MissingResourceError reports a configured document that could not be read.
type MissingResourceError struct {
	Key  string // configuration key that supplied Path
	Path string
	Err  error
}

func (e *MissingResourceError) Error() string {
	return fmt.Sprintf("%s: %s=%q: %v", ErrMissingResource, e.Key, e.Path, e.Err)
}

func (e *MissingResourceError) Is(target error) bool { return target == ErrMissingResource }

func (e *MissingResourceError) Unwrap() error { return e.Err }
