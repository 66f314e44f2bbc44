package model

import "fmt"

// CheckinType is the check-in method used for a rental.
type CheckinType string

const (
	CheckinMobile  CheckinType = "mobile"
	CheckinConnect CheckinType = "connect"
)

// ParseCheckinType validates a raw check-in label.
func ParseCheckinType(s string) (CheckinType, error) {
	switch CheckinType(s) {
	case CheckinMobile, CheckinConnect:
		return CheckinType(s), nil
	}
	return "", fmt.Errorf("unknown checkin_type %q", s)
}

// RentalState is the final state of a rental.
type RentalState string

const (
	StateEnded    RentalState = "ended"
	StateCanceled RentalState = "canceled"
)

// ParseRentalState validates a raw state label.
func ParseRentalState(s string) (RentalState, error) {
	switch RentalState(s) {
	case StateEnded, StateCanceled:
		return RentalState(s), nil
	}
	return "", fmt.Errorf("unknown state %q", s)
}

// RentalRecord is one completed or canceled rental. Optional fields are nil
// when the source cell was empty.
type RentalRecord struct {
	RentalID                    int64       `json:"rental_id"`
	CarID                       *int64      `json:"car_id,omitempty"`
	PreviousEndedRentalID       *int64      `json:"previous_ended_rental_id"`
	CheckinType                 CheckinType `json:"checkin_type"`
	State                       RentalState `json:"state"`
	DelayAtCheckout             *float64    `json:"delay_at_checkout"`
	TimeDeltaWithPreviousRental *float64    `json:"time_delta_with_previous_rental"`
}

// Int64 returns a pointer to v.
func Int64(v int64) *int64 { return &v }

// Minutes returns a pointer to v.
func Minutes(v float64) *float64 { return &v }
