// Package generic implements generic functions: named operations whose
// implementation is chosen at call time from the class of the receiver.
//
// Each generic owns a method table keyed by class or union name. Dispatch
// walks a fixed resolution order and runs the first hit:
//
//  1. a method registered for the receiver's exact class;
//  2. a method registered for a union the class is a direct member of, in
//     union definition order;
//  3. a method registered for an ancestor, nearest first.
//
// If nothing matches the call fails with a *errdefs.MethodDispatchError.
// The remaining entries of the same order are reachable from inside a method
// through Call.Next.
package generic
