// Package pricing estimates the daily rental price of a listing from its
// vehicle attributes. Predictions come from a pre-fitted regression pipeline,
// either evaluated in process (Pipeline) or forwarded to a remote service.
package pricing
