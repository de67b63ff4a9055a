// Package execution runs user code on a remote sandbox.
//
// An Executor maps the compiler tag sent by the client to a Judge0
// runtime identifier, submits the code synchronously, and folds the
// verdict into an api.ExecutionResult: any compile_output or stderr makes
// the run a failure, otherwise stdout is the program message.
package execution
