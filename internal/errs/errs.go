package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindParse
	KindMissingFile
	KindIO
	KindIntegrity
	KindConfiguration
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "parse"
	case KindMissingFile:
		return "missing file"
	case KindIO:
		return "io"
	case KindIntegrity:
		return "integrity"
	case KindConfiguration:
		return "configuration"
	default:
		return "unknown"
	}
}

// Error is a classified failure for a single item (a chapter, volume, cover
// or configuration key).
type Error struct {
	Kind Kind
	Item string
	Err  error
}

func (e *Error) Error() string {
	if e.Item == "" {
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s error: %s: %v", e.Kind, e.Item, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, item string, err error) *Error {
	return &Error{Kind: kind, Item: item, Err: err}
}

func Newf(kind Kind, item string, format string, args ...any) *Error {
	return &Error{Kind: kind, Item: item, Err: fmt.Errorf(format, args...)}
}

func Parse(item string, err error) *Error         { return New(KindParse, item, err) }
func MissingFile(item string, err error) *Error   { return New(KindMissingFile, item, err) }
func IO(item string, err error) *Error            { return New(KindIO, item, err) }
func Integrity(item string, err error) *Error     { return New(KindIntegrity, item, err) }
func Configuration(item string, err error) *Error { return New(KindConfiguration, item, err) }

// KindOf returns the kind of the first *Error found in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
