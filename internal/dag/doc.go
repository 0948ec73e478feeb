// Package dag provides a small directed acyclic graph used to order
// definitions that refer to each other: classes after their parents, objects
// after the objects their slots reference.
//
// Nodes are identified by strings. Traversals follow insertion order so the
// same input always yields the same order.
package dag
