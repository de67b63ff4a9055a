// Package judge0 is a minimal client for the Judge0 submissions API.
//
// Only synchronous submissions are supported: the client posts with
// wait=true and base64 encoding disabled, so the response already carries
// the program's stdout, stderr and compile_output.
package judge0
