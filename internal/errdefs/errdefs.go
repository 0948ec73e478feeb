package errdefs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// --- Class registry ---
	ErrDuplicateClass    = errors.New("duplicate class")
	ErrUnknownParent     = errors.New("unknown parent class")
	ErrCyclicInheritance = errors.New("cyclic inheritance")
	ErrUnknownMember     = errors.New("unknown union member")
	ErrEmptyUnion        = errors.New("empty class union")
	ErrUnknownClass      = errors.New("unknown class")

	// --- Objects ---
	ErrSlotSchemaMismatch = errors.New("slot schema mismatch")
	ErrTypeMismatch       = errors.New("slot type mismatch")
	ErrUnknownSlot        = errors.New("unknown slot")
	ErrValidity           = errors.New("invalid object")

	// --- Generics ---
	ErrDuplicateGeneric   = errors.New("duplicate generic")
	ErrUnknownGeneric     = errors.New("unknown generic")
	ErrUnknownDispatchKey = errors.New("unknown dispatch key")
	ErrDuplicateMethod    = errors.New("duplicate method")
	ErrMethodDispatch     = errors.New("no applicable method")
	ErrArity              = errors.New("wrong number of arguments")
	ErrSignatureMismatch  = errors.New("method signature does not match generic")
)

// SlotSchemaMismatchError reports every way a slot map disagrees with the
// effective slot schema of a class.
type SlotSchemaMismatchError struct {
	Class    string
	Missing  []string
	Extra    []string
	Mistyped map[string]error
}

func (e *SlotSchemaMismatchError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing slots %s", quoteAll(e.Missing)))
	}
	if len(e.Extra) > 0 {
		parts = append(parts, fmt.Sprintf("undeclared slots %s", quoteAll(e.Extra)))
	}
	for _, name := range sortedKeys(e.Mistyped) {
		parts = append(parts, fmt.Sprintf("slot %q: %v", name, e.Mistyped[name]))
	}
	return fmt.Sprintf("%s for class %q: %s", ErrSlotSchemaMismatch, e.Class, strings.Join(parts, "; "))
}

func (e *SlotSchemaMismatchError) Unwrap() error { return ErrSlotSchemaMismatch }

// TypeMismatchError is returned when a value does not satisfy the declared
// type tag of a slot.
type TypeMismatchError struct {
	Class    string
	Slot     string
	Expected string
	Reason   error
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s: slot %q of class %q requires %s: %v", ErrTypeMismatch, e.Slot, e.Class, e.Expected, e.Reason)
}

func (e *TypeMismatchError) Unwrap() error { return ErrTypeMismatch }

// ValidityError carries the diagnostic produced by a failing validator.
// Owner is the class whose validator rejected the object; it differs from
// Class when the rule was inherited.
type ValidityError struct {
	Class   string
	Owner   string
	Message string
}

func (e *ValidityError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "validity check failed"
	}
	if e.Owner != "" && e.Owner != e.Class {
		return fmt.Sprintf("invalid class %q object (rule inherited from %q): %s", e.Class, e.Owner, msg)
	}
	return fmt.Sprintf("invalid class %q object: %s", e.Class, msg)
}

func (e *ValidityError) Unwrap() error { return ErrValidity }

// MethodDispatchError is returned when no method of a generic applies to the
// concrete class of the receiver.
type MethodDispatchError struct {
	Generic string
	Class   string
}

func (e *MethodDispatchError) Error() string {
	return fmt.Sprintf("unable to find an inherited method for function %q for signature %q", e.Generic, e.Class)
}

func (e *MethodDispatchError) Unwrap() error { return ErrMethodDispatch }

// ArityError describes an argument count a generic does not accept.
type ArityError struct {
	Generic  string
	Want     int
	Got      int
	OpenTail bool
}

func (e *ArityError) Error() string {
	if e.OpenTail {
		return fmt.Sprintf("%s: generic %q takes at least %d argument(s) after the receiver, got %d", ErrArity, e.Generic, e.Want, e.Got)
	}
	return fmt.Sprintf("%s: generic %q takes %d argument(s) after the receiver, got %d", ErrArity, e.Generic, e.Want, e.Got)
}

func (e *ArityError) Unwrap() error { return ErrArity }

// SignatureError is returned when a method declares fixed parameters that
// differ from the frozen parameters of its generic.
type SignatureError struct {
	Generic string
	Key     string
	Want    []string
	Got     []string
}

func (e *SignatureError) Error() string {
	return fmt.Sprintf("%s: method %q for %q declares (%s), generic has (%s)",
		ErrSignatureMismatch, e.Generic, e.Key, strings.Join(e.Got, ", "), strings.Join(e.Want, ", "))
}

func (e *SignatureError) Unwrap() error { return ErrSignatureMismatch }
