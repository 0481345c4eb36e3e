package typing

// Unit is the result type of effects that only succeed or fail.
type Unit = struct{}
