// Package openaicompat provides a minimal client for OpenAI-compatible
// Chat Completions backends such as Groq. It handles request
// serialization, response parsing, and mapping of HTTP and network
// failures to kinded api errors.
//
// Only non-streaming completions are supported.
package openaicompat
