package pricing

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidFeatures is returned when a feature record fails validation.
var ErrInvalidFeatures = errors.New("invalid features")

// Features describes the listing to price.
type Features struct {
	ModelKey                string `json:"model_key"`
	Mileage                 int    `json:"mileage"`
	EnginePower             int    `json:"engine_power"`
	Fuel                    string `json:"fuel"`
	PaintColor              string `json:"paint_color"`
	CarType                 string `json:"car_type"`
	PrivateParkingAvailable bool   `json:"private_parking_available"`
	HasGPS                  bool   `json:"has_gps"`
	HasAirConditioning      bool   `json:"has_air_conditioning"`
	AutomaticCar            bool   `json:"automatic_car"`
	HasGetaroundConnect     bool   `json:"has_getaround_connect"`
	HasSpeedRegulator       bool   `json:"has_speed_regulator"`
	WinterTires             bool   `json:"winter_tires"`
}

// Validate checks mandatory fields. Mileage and engine power must be strictly
// positive.
func (f Features) Validate() error {
	var problems []string
	if strings.TrimSpace(f.ModelKey) == "" {
		problems = append(problems, "model_key is required")
	}
	if f.Mileage <= 0 {
		problems = append(problems, "mileage must be positive")
	}
	if f.EnginePower <= 0 {
		problems = append(problems, "engine_power must be positive")
	}
	if strings.TrimSpace(f.Fuel) == "" {
		problems = append(problems, "fuel is required")
	}
	if strings.TrimSpace(f.PaintColor) == "" {
		problems = append(problems, "paint_color is required")
	}
	if strings.TrimSpace(f.CarType) == "" {
		problems = append(problems, "car_type is required")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidFeatures, strings.Join(problems, "; "))
	}
	return nil
}

// numeric returns the value of a numeric feature by column name.
func (f Features) numeric(name string) (float64, bool) {
	switch name {
	case "mileage":
		return float64(f.Mileage), true
	case "engine_power":
		return float64(f.EnginePower), true
	}
	return 0, false
}

// categorical returns the value of a categorical feature by column name.
func (f Features) categorical(name string) (string, bool) {
	switch name {
	case "model_key":
		return f.ModelKey, true
	case "fuel":
		return f.Fuel, true
	case "paint_color":
		return f.PaintColor, true
	case "car_type":
		return f.CarType, true
	}
	return "", false
}

// boolean returns the value of an equipment flag by column name.
func (f Features) boolean(name string) (bool, bool) {
	switch name {
	case "private_parking_available":
		return f.PrivateParkingAvailable, true
	case "has_gps":
		return f.HasGPS, true
	case "has_air_conditioning":
		return f.HasAirConditioning, true
	case "automatic_car":
		return f.AutomaticCar, true
	case "has_getaround_connect":
		return f.HasGetaroundConnect, true
	case "has_speed_regulator":
		return f.HasSpeedRegulator, true
	case "winter_tires":
		return f.WinterTires, true
	}
	return false, false
}
