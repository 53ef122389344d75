package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const sampleWorld = `{
	"defaultDogSpeed": 3.0,
	"maps": [
		{
			"id": "map1",
			"name": "Map 1",
			"dogSpeed": 4.0,
			"roads": [
				{"x0": 0, "y0": 0, "x1": 40},
				{"x0": 40, "y0": 0, "y1": 30}
			],
			"buildings": [
				{"x": 5, "y": 5, "w": 30, "h": 20}
			],
			"offices": [
				{"id": "o0", "x": 40, "y": 30, "offsetX": 5, "offsetY": 0}
			]
		},
		{
			"id": "town",
			"name": "Town",
			"roads": [
				{"x0": 0, "y0": 0, "y1": 10}
			],
			"buildings": [],
			"offices": []
		}
	]
}`

func TestParse_SampleWorld(t *testing.T) {
	cfg, err := Parse([]byte(sampleWorld))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(cfg.Maps) != 2 {
		t.Fatalf("Expected 2 maps, got %d", len(cfg.Maps))
	}
	if cfg.DogSpeed() != 3.0 {
		t.Errorf("Expected default speed 3.0, got %g", cfg.DogSpeed())
	}

	m := cfg.Maps[0]
	if m.ID != "map1" || m.Name != "Map 1" {
		t.Errorf("Unexpected map identity: %q %q", m.ID, m.Name)
	}
	if m.DogSpeed == nil || *m.DogSpeed != 4.0 {
		t.Errorf("Expected per-map speed 4.0, got %v", m.DogSpeed)
	}
	if len(m.Roads) != 2 || len(m.Buildings) != 1 || len(m.Offices) != 1 {
		t.Errorf("Unexpected map contents: %d roads, %d buildings, %d offices",
			len(m.Roads), len(m.Buildings), len(m.Offices))
	}
	if m.Roads[0].X1 == nil || *m.Roads[0].X1 != 40 {
		t.Errorf("Expected horizontal road to x1=40, got %v", m.Roads[0].X1)
	}
	if m.Roads[1].Y1 == nil || *m.Roads[1].Y1 != 30 {
		t.Errorf("Expected vertical road to y1=30, got %v", m.Roads[1].Y1)
	}

	if cfg.Maps[1].DogSpeed != nil {
		t.Errorf("Expected second map to inherit the default speed")
	}
}

func TestParse_DefaultSpeedFallback(t *testing.T) {
	cfg, err := Parse([]byte(`{"maps": [{"id": "m", "name": "M", "roads": [{"x0": 0, "y0": 0, "x1": 5}]}]}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.DogSpeed() != DefaultDogSpeed {
		t.Errorf("Expected fallback speed %g, got %g", float64(DefaultDogSpeed), cfg.DogSpeed())
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"no maps", `{"maps": []}`, ErrNoMaps},
		{"missing id", `{"maps": [{"name": "M", "roads": [{"x0": 0, "y0": 0, "x1": 5}]}]}`, ErrMissingID},
		{"missing name", `{"maps": [{"id": "m", "roads": [{"x0": 0, "y0": 0, "x1": 5}]}]}`, ErrMissingName},
		{"bad road", `{"maps": [{"id": "m", "name": "M", "roads": [{"x0": 0, "y0": 0}]}]}`, ErrBadRoad},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestParse_MalformedJSON(t *testing.T) {
	if _, err := Parse([]byte(`{"maps": [`)); err == nil {
		t.Error("Expected error for malformed JSON")
	}
}

func TestLoad_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.json")
	if err := os.WriteFile(path, []byte(sampleWorld), 0o644); err != nil {
		t.Fatalf("Failed to write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cfg.Maps) != 2 {
		t.Errorf("Expected 2 maps, got %d", len(cfg.Maps))
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestBuildMap_SpeedInheritance(t *testing.T) {
	cfg, err := Parse([]byte(sampleWorld))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	m1, err := BuildMap(cfg.Maps[0], cfg.DogSpeed())
	if err != nil {
		t.Fatalf("BuildMap failed: %v", err)
	}
	if m1.DogSpeed() != 4.0 {
		t.Errorf("Expected per-map speed 4.0, got %g", m1.DogSpeed())
	}

	m2, err := BuildMap(cfg.Maps[1], cfg.DogSpeed())
	if err != nil {
		t.Fatalf("BuildMap failed: %v", err)
	}
	if m2.DogSpeed() != 3.0 {
		t.Errorf("Expected inherited speed 3.0, got %g", m2.DogSpeed())
	}
}

func TestBuildMap_DuplicateOffice(t *testing.T) {
	mc := MapConfig{
		ID:   "m",
		Name: "M",
		Offices: []OfficeConfig{
			{ID: "o0", X: 0, Y: 0},
			{ID: "o0", X: 1, Y: 0},
		},
	}
	if _, err := BuildMap(mc, 1.0); err == nil {
		t.Error("Expected error for duplicate office id")
	}
}

func TestDescribeMap_RoundTrip(t *testing.T) {
	cfg, err := Parse([]byte(sampleWorld))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	m, err := BuildMap(cfg.Maps[0], cfg.DogSpeed())
	if err != nil {
		t.Fatalf("BuildMap failed: %v", err)
	}

	desc := DescribeMap(m)
	if desc.ID != "map1" || desc.Name != "Map 1" {
		t.Errorf("Unexpected identity: %q %q", desc.ID, desc.Name)
	}
	// Speed is intentionally absent from the description.
	if desc.DogSpeed != nil {
		t.Errorf("Expected no dogSpeed in description, got %v", desc.DogSpeed)
	}

	if len(desc.Roads) != 2 {
		t.Fatalf("Expected 2 roads, got %d", len(desc.Roads))
	}
	if desc.Roads[0].X1 == nil || *desc.Roads[0].X1 != 40 || desc.Roads[0].Y1 != nil {
		t.Errorf("Horizontal road did not round-trip: %+v", desc.Roads[0])
	}
	if desc.Roads[1].Y1 == nil || *desc.Roads[1].Y1 != 30 || desc.Roads[1].X1 != nil {
		t.Errorf("Vertical road did not round-trip: %+v", desc.Roads[1])
	}

	if len(desc.Buildings) != 1 || desc.Buildings[0] != (BuildingConfig{X: 5, Y: 5, W: 30, H: 20}) {
		t.Errorf("Buildings did not round-trip: %+v", desc.Buildings)
	}
	if len(desc.Offices) != 1 || desc.Offices[0] != (OfficeConfig{ID: "o0", X: 40, Y: 30, OffsetX: 5, OffsetY: 0}) {
		t.Errorf("Offices did not round-trip: %+v", desc.Offices)
	}
}

func TestDescribeMap_EmptyCollectionsRenderAsArrays(t *testing.T) {
	m, err := BuildMap(MapConfig{ID: "m", Name: "M"}, 1.0)
	if err != nil {
		t.Fatalf("BuildMap failed: %v", err)
	}

	data, err := json.Marshal(DescribeMap(m))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := `{"id":"m","name":"M","roads":[],"buildings":[],"offices":[]}`
	if string(data) != want {
		t.Errorf("Expected %s, got %s", want, data)
	}
}
