package errors

import (
	"errors"
	"fmt"
)

// Modules that raise wrapped errors.
const (
	ModuleAPI    = "api"
	ModuleAdmin  = "admin"
	ModuleEngine = "engine"
)

// Op names the place an error was raised, such as api.course or engine.load.
type Op struct {
	Module string
	Name   string
}

// At returns the Op for module and name.
func At(module, name string) Op {
	return Op{Module: module, Name: name}
}

func (o Op) String() string {
	return o.Module + "." + o.Name
}

// Wrap attaches o and a message safe to show to callers. A nil err stays nil.
func (o Op) Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &PublicError{Op: o, Cause: err, Message: message}
}

// Wrapf is Wrap with a formatted message.
func (o Op) Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &PublicError{Op: o, Cause: err, Message: fmt.Sprintf(format, args...)}
}

// PublicError pairs an internal cause with the message an API client or CLI
// user sees. errors.Is and errors.As see through it to the cause.
type PublicError struct {
	Op      Op
	Cause   error
	Message string
}

func (e *PublicError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Cause)
}

func (e *PublicError) Unwrap() error {
	return e.Cause
}

// GetUserMessage returns the message of the outermost PublicError in err's
// chain, or err.Error() when there is none.
func GetUserMessage(err error) string {
	if err == nil {
		return ""
	}
	var pub *PublicError
	if errors.As(err, &pub) {
		return pub.Message
	}
	return err.Error()
}
