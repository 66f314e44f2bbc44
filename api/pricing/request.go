package pricing

import (
	"fmt"
	"strings"

	"github.com/kilianp07/rentalfriction/core/pricing"
)

// predictRequest is the /predict body. Equipment flags are pointers so that
// an omitted flag is rejected instead of read as false.
type predictRequest struct {
	ModelKey                string `json:"model_key"`
	Mileage                 int    `json:"mileage"`
	EnginePower             int    `json:"engine_power"`
	Fuel                    string `json:"fuel"`
	PaintColor              string `json:"paint_color"`
	CarType                 string `json:"car_type"`
	PrivateParkingAvailable *bool  `json:"private_parking_available"`
	HasGPS                  *bool  `json:"has_gps"`
	HasAirConditioning      *bool  `json:"has_air_conditioning"`
	AutomaticCar            *bool  `json:"automatic_car"`
	HasGetaroundConnect     *bool  `json:"has_getaround_connect"`
	HasSpeedRegulator       *bool  `json:"has_speed_regulator"`
	WinterTires             *bool  `json:"winter_tires"`
}

// features converts the body. The returned Features are filled even when
// flags are missing so the failed lookup can still be journaled.
func (r predictRequest) features() (pricing.Features, error) {
	f := pricing.Features{
		ModelKey:    r.ModelKey,
		Mileage:     r.Mileage,
		EnginePower: r.EnginePower,
		Fuel:        r.Fuel,
		PaintColor:  r.PaintColor,
		CarType:     r.CarType,
	}
	var missing []string
	flag := func(name string, v *bool, dst *bool) {
		if v == nil {
			missing = append(missing, name)
			return
		}
		*dst = *v
	}
	flag("private_parking_available", r.PrivateParkingAvailable, &f.PrivateParkingAvailable)
	flag("has_gps", r.HasGPS, &f.HasGPS)
	flag("has_air_conditioning", r.HasAirConditioning, &f.HasAirConditioning)
	flag("automatic_car", r.AutomaticCar, &f.AutomaticCar)
	flag("has_getaround_connect", r.HasGetaroundConnect, &f.HasGetaroundConnect)
	flag("has_speed_regulator", r.HasSpeedRegulator, &f.HasSpeedRegulator)
	flag("winter_tires", r.WinterTires, &f.WinterTires)
	if len(missing) > 0 {
		return f, fmt.Errorf("%w: missing %s", pricing.ErrInvalidFeatures, strings.Join(missing, ", "))
	}
	return f, nil
}
