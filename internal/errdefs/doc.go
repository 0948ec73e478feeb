// Package errdefs defines the error taxonomy shared by the class registry,
// the validity engine, the object store and the generic registry.
//
// Every failure kind has a sentinel value. Failures that need more than a
// name to be diagnosed have a struct type which unwraps to its sentinel, so
// callers can branch with errors.Is and inspect details with errors.As.
package errdefs
