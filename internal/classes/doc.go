// Package classes is the class registry: it stores class definitions (name,
// parent, slot schema) and class unions, and answers ancestry and union
// membership questions for the validity engine, the object store and the
// generic registry.
//
// Inheritance is single-parent and modelled as an explicit parent-name
// chain. A class's effective slot schema is resolved by walking that chain,
// nearest definition first. Unions are flat: only the classes named at
// definition time are members, never their subclasses.
package classes
