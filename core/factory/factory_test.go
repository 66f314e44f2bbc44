package factory

import (
	"reflect"
	"testing"
)

type sample struct{ Sheet string }

type sampleConf struct {
	Sheet   string `json:"sheet"`
	MaxRows int    `json:"max_rows"`
}

// Test registry registration and instantiation using Decode.
func TestRegistry_Create(t *testing.T) {
	reg := NewRegistry[*sample]()
	if err := reg.Register("xlsx", func(conf map[string]any) (*sample, error) {
		var c sampleConf
		if err := Decode(conf, &c); err != nil {
			return nil, err
		}
		return &sample{Sheet: c.Sheet}, nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	inst, err := reg.Create(ModuleConfig{Type: "xlsx", Conf: map[string]any{"sheet": "rentals_data"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if inst.Sheet != "rentals_data" {
		t.Fatalf("expected rentals_data got %s", inst.Sheet)
	}
}

// Test duplicate registration and unknown type errors.
func TestRegistry_Errors(t *testing.T) {
	reg := NewRegistry[int]()
	if err := reg.Register("x", func(map[string]any) (int, error) { return 1, nil }); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register("x", func(map[string]any) (int, error) { return 2, nil }); err == nil {
		t.Fatal("expected duplicate error")
	}
	if err := reg.Register("z", nil); err == nil {
		t.Fatal("expected nil factory error")
	}
	if _, err := reg.Create(ModuleConfig{Type: "y"}); err == nil {
		t.Fatal("expected unknown type error")
	}
}

func TestRegistry_Types(t *testing.T) {
	reg := NewRegistry[int]()
	_ = reg.Register("csv", func(map[string]any) (int, error) { return 0, nil })
	_ = reg.Register("appendix", func(map[string]any) (int, error) { return 0, nil })
	if got := reg.Types(); !reflect.DeepEqual(got, []string{"appendix", "csv"}) {
		t.Fatalf("unexpected types %v", got)
	}
}

func TestDecode_WeakNumbers(t *testing.T) {
	var c sampleConf
	if err := Decode(map[string]any{"max_rows": "12"}, &c); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if c.MaxRows != 12 {
		t.Fatalf("expected 12 got %d", c.MaxRows)
	}
}
