package cmd

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const rentalsCSV = `rental_id,car_id,checkin_type,state,delay_at_checkout_in_minutes,previous_ended_rental_id,time_delta_with_previous_rental_in_minutes
1,10,connect,ended,90,,
2,10,mobile,ended,-5,1,60
3,11,mobile,canceled,,,
`

const modelJSON = `{"version":"test","intercept":100,
"numeric":[{"name":"engine_power","mean":100,"scale":10,"coefficient":5}],
"boolean":[{"name":"has_gps","coefficient":10}]}`

func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	write := func(name, data string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(data), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		return p
	}
	data := write("rentals.csv", rentalsCSV)
	model := write("model.json", modelJSON)
	return write("config.yaml", "dataset:\n  path: "+data+"\npricing:\n  model_path: "+model+"\njournal:\n  backend: none\nlogging:\n  level: error\n")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestAnalyzeSimulateCSV(t *testing.T) {
	cfg := setup(t)
	out, err := run(t, "analyze", "simulate", "-c", cfg, "--scope", "mobile", "-o", "csv", "--start", "0", "--end", "90", "--step", "30")
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v\n%s", err, out)
	}
	if len(rows) != 5 {
		t.Fatalf("expected header + 4 points, got %d", len(rows))
	}
	// mobile scope holds two rentals, the chained one is lost above 60 min
	if got := strings.Join(rows[3], ","); got != "60,0,0,100" {
		t.Fatalf("unexpected 60 min row %s", got)
	}
	if got := strings.Join(rows[4], ","); got != "90,1,1,50" {
		t.Fatalf("unexpected 90 min row %s", got)
	}
}

func TestAnalyzeOverviewJSON(t *testing.T) {
	cfg := setup(t)
	out, err := run(t, "analyze", "overview", "-c", cfg, "-o", "json")
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	for _, want := range []string{`"total_rentals": 3`, `"problematic_count": 1`, `"scope": "all"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %s in\n%s", want, out)
		}
	}
}

func TestAnalyzeErrors(t *testing.T) {
	cfg := setup(t)
	if _, err := run(t, "analyze", "simulate", "-c", cfg, "--threshold", "-1"); err == nil {
		t.Fatal("expected invalid threshold error")
	}
	if _, err := run(t, "analyze", "overview", "-c", cfg, "--scope", "bike"); err == nil {
		t.Fatal("expected invalid scope error")
	}
	if _, err := run(t, "analyze", "overview", "-c", cfg, "--dataset", filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Fatal("expected load error")
	}
	if _, err := run(t, "analyze", "overview", "-c", filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected missing config error")
	}
}

func TestPredict(t *testing.T) {
	cfg := setup(t)
	out, err := run(t, "predict", "-c", cfg, "--model-key", "Renault", "--mileage", "50000", "--engine-power", "120", "--gps")
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if !strings.Contains(out, `"prediction": 120`) {
		t.Fatalf("unexpected output %s", out)
	}
	if _, err := run(t, "predict", "-c", cfg, "--model-key", "Renault", "--mileage", "0", "--engine-power", "120"); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoadEnvFile(t *testing.T) {
	const key = "K_RENTALFRICTION_ENVFILE_TEST"
	p := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(p, []byte(key+"=loaded\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	if err := loadEnvFile(p); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := os.Getenv(key); got != "loaded" {
		t.Fatalf("expected variable exported, got %q", got)
	}
	if err := loadEnvFile(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatal("expected error for explicit missing file")
	}
	if err := loadEnvFile(""); err != nil {
		t.Fatalf("empty path: %v", err)
	}
}
