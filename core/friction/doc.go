// Package friction implements the delay analysis: chaining consecutive
// rentals, flagging the pairs where the previous renter's lateness ate the
// scheduled buffer, and simulating minimum-buffer policies over a range of
// thresholds.
//
// Every function is pure. Callers pass the frozen record set of a dataset and
// receive freshly allocated results; nothing here mutates its inputs.
package friction
