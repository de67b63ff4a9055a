// Package generation turns a spoken request into a structured code answer
// by prompting a chat completion backend.
//
// The [Generator] walks an ordered list of candidate models. Each
// candidate gets exactly one attempt, strictly one after another; the
// walk stops at the first candidate that answers and fails with
// api.ErrAllCandidatesExhausted after the last one fails. The walk itself
// is the small state machine in [Walk].
package generation
