// Package backoff is a generic retry executor with bounded exponential
// delay.
//
// It knows nothing about what it runs: it invokes the operation, sleeps
// between failed attempts, and reports the final error. Logging of business
// context belongs to the caller (the scheduler observes terminal failures).
package backoff
