// Package api defines the wire types and error model for the EchoSyntax
// backend.
//
// The package performs no I/O. It carries the JSON shapes exchanged with
// the browser client on POST /generate-code and POST /execute-code, the
// request validation rules for both, and the kinded [Error] type that
// keeps upstream failure causes distinguishable after they have been
// collapsed to a single HTTP 500 on the wire.
//
// Core types:
//   - [GenerationRequest] / [GenerationResult]: prompt in, the model's JSON answer out
//   - [ExecutionRequest] / [ExecutionResult]: source in, normalized run outcome out
//   - [Error]: error with an [ErrorKind], optional param, and wrapped cause
package api
