// Package demo holds the three leaf operations of trisynk and the adapters
// that external harnesses drive them through.
//
// All operations are pure and reentrant:
//   - Accumulate sums a borrowed []int64 with two's-complement wrap-around
//   - Increment consumes an int64 by value and returns its successor
//   - ConsumeSlice observes a borrowed []byte and returns its length
//
// Signed overflow wraps modulo 2^64. That is Go's defined behavior for int64
// and is the contract here; it is never reported as an error.
//
// Slices passed to Accumulate and ConsumeSlice are read in place. Neither
// function writes through them or keeps a reference after returning.
package demo
