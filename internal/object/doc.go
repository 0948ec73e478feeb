// Package object constructs and holds instances of registered classes.
//
// Construction is all-or-nothing: the slot map must match the class's
// effective schema exactly, every value must satisfy its slot's type tag,
// and the applicable validator must pass. Only then is an Instance created
// and indexed in the Store. Slot writes after construction are type-checked
// but do not re-run validity.
//
// Instances carry no lock of their own. Callers sharing one instance across
// goroutines must synchronise writes themselves.
package object
