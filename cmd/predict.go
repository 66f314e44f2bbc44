package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilianp07/rentalfriction/app"
	"github.com/kilianp07/rentalfriction/config"
	"github.com/kilianp07/rentalfriction/core/pricing"
	"github.com/kilianp07/rentalfriction/infra/logger"
	"github.com/kilianp07/rentalfriction/pkg/export"
)

func newPredictCmd(cfgPath *string) *cobra.Command {
	var (
		f         pricing.Features
		modelPath string
		remoteURL string
	)
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Estimate the daily rental price of a car",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.SetOutput(os.Stderr)
			cfg, err := loadConfig(*cfgPath)
			if err != nil {
				return err
			}
			pc := cfg.Pricing
			switch {
			case remoteURL != "":
				pc.Mode = config.PricingRemote
				pc.Remote.URL = remoteURL
			case modelPath != "":
				pc.Mode = config.PricingLocal
				pc.ModelPath = modelPath
			}
			p, err := app.NewPredictor(pc)
			if err != nil {
				return err
			}
			if p == nil {
				return errors.New("pricing is disabled in the configuration")
			}
			price, err := p.Predict(cmd.Context(), f)
			if err != nil {
				return err
			}
			return export.WriteJSON(cmd.OutOrStdout(), map[string]float64{"prediction": price})
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&modelPath, "model", "", "pipeline artifact, overrides pricing.model_path")
	fl.StringVar(&remoteURL, "remote", "", "remote /predict URL, overrides pricing mode")
	fl.StringVar(&f.ModelKey, "model-key", "", "car brand")
	fl.IntVar(&f.Mileage, "mileage", 0, "mileage in km")
	fl.IntVar(&f.EnginePower, "engine-power", 0, "engine power in hp")
	fl.StringVar(&f.Fuel, "fuel", "diesel", "fuel type")
	fl.StringVar(&f.PaintColor, "paint-color", "black", "paint color")
	fl.StringVar(&f.CarType, "car-type", "sedan", "body type")
	fl.BoolVar(&f.PrivateParkingAvailable, "private-parking", false, "private parking available")
	fl.BoolVar(&f.HasGPS, "gps", false, "has GPS")
	fl.BoolVar(&f.HasAirConditioning, "air-conditioning", false, "has air conditioning")
	fl.BoolVar(&f.AutomaticCar, "automatic", false, "automatic gearbox")
	fl.BoolVar(&f.HasGetaroundConnect, "connect", false, "has a connect box")
	fl.BoolVar(&f.HasSpeedRegulator, "speed-regulator", false, "has a speed regulator")
	fl.BoolVar(&f.WinterTires, "winter-tires", false, "has winter tires")
	_ = cmd.MarkFlagRequired("model-key")
	return cmd
}
