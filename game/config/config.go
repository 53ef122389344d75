package config

import (
	"errors"
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"

	"github.com/avolkov/dogwalk/game/engine"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	ErrNoMaps      = errors.New("config has no maps")
	ErrBadRoad     = errors.New("road needs either x1 or y1")
	ErrMissingID   = errors.New("map id is required")
	ErrMissingName = errors.New("map name is required")
)

// DefaultDogSpeed applies when the config file does not set one.
const DefaultDogSpeed = 1.0

// Config is the parsed world description. Field names mirror the JSON
// schema; the same types serialize map details back out through the
// API, so a loaded map round-trips unchanged.
type Config struct {
	DefaultDogSpeed *float64    `json:"defaultDogSpeed,omitempty"`
	Maps            []MapConfig `json:"maps"`
}

// MapConfig describes one map.
type MapConfig struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	DogSpeed  *float64         `json:"dogSpeed,omitempty"`
	Roads     []RoadConfig     `json:"roads"`
	Buildings []BuildingConfig `json:"buildings"`
	Offices   []OfficeConfig   `json:"offices"`
}

// RoadConfig is horizontal when X1 is present, vertical otherwise
// (then Y1 is required).
type RoadConfig struct {
	X0 int  `json:"x0"`
	Y0 int  `json:"y0"`
	X1 *int `json:"x1,omitempty"`
	Y1 *int `json:"y1,omitempty"`
}

// BuildingConfig is a building footprint.
type BuildingConfig struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// OfficeConfig is a delivery office.
type OfficeConfig struct {
	ID      string `json:"id"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	OffsetX int    `json:"offsetX"`
	OffsetY int    `json:"offsetY"`
}

// Load reads and parses the world description at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses a world description.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.Maps) == 0 {
		return ErrNoMaps
	}
	for _, mc := range c.Maps {
		if mc.ID == "" {
			return ErrMissingID
		}
		if mc.Name == "" {
			return fmt.Errorf("%w: map %q", ErrMissingName, mc.ID)
		}
		for i, rc := range mc.Roads {
			if rc.X1 == nil && rc.Y1 == nil {
				return fmt.Errorf("%w: map %q road %d", ErrBadRoad, mc.ID, i)
			}
		}
	}
	return nil
}

// DogSpeed returns the config's default dog speed.
func (c *Config) DogSpeed() float64 {
	if c.DefaultDogSpeed != nil {
		return *c.DefaultDogSpeed
	}
	return DefaultDogSpeed
}

// BuildMap constructs the engine map described by mc. The default
// speed applies when the map does not set its own.
func BuildMap(mc MapConfig, defaultSpeed float64) (*engine.Map, error) {
	speed := defaultSpeed
	if mc.DogSpeed != nil {
		speed = *mc.DogSpeed
	}

	m := engine.NewMap(mc.ID, mc.Name, speed)
	for _, rc := range mc.Roads {
		start := engine.Point{X: rc.X0, Y: rc.Y0}
		if rc.X1 != nil {
			m.AddRoad(engine.NewHorizontalRoad(start, *rc.X1))
		} else {
			m.AddRoad(engine.NewVerticalRoad(start, *rc.Y1))
		}
	}
	for _, bc := range mc.Buildings {
		m.AddBuilding(engine.NewBuilding(engine.Rectangle{
			Position: engine.Point{X: bc.X, Y: bc.Y},
			Size:     engine.Size{Width: bc.W, Height: bc.H},
		}))
	}
	for _, oc := range mc.Offices {
		office := engine.NewOffice(oc.ID,
			engine.Point{X: oc.X, Y: oc.Y},
			engine.Offset{DX: oc.OffsetX, DY: oc.OffsetY})
		if err := m.AddOffice(office); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// DescribeMap renders an engine map back into the config schema, used
// by the map-detail endpoint. Road objects carry x1 or y1 according to
// orientation so the output matches the file the map came from.
func DescribeMap(m *engine.Map) MapConfig {
	mc := MapConfig{
		ID:        m.ID(),
		Name:      m.Name(),
		Roads:     []RoadConfig{},
		Buildings: []BuildingConfig{},
		Offices:   []OfficeConfig{},
	}
	for _, road := range m.Roads() {
		rc := RoadConfig{X0: road.Start().X, Y0: road.Start().Y}
		if road.IsHorizontal() {
			endX := road.End().X
			rc.X1 = &endX
		} else {
			endY := road.End().Y
			rc.Y1 = &endY
		}
		mc.Roads = append(mc.Roads, rc)
	}
	for _, b := range m.Buildings() {
		bounds := b.Bounds()
		mc.Buildings = append(mc.Buildings, BuildingConfig{
			X: bounds.Position.X,
			Y: bounds.Position.Y,
			W: bounds.Size.Width,
			H: bounds.Size.Height,
		})
	}
	for _, o := range m.Offices() {
		mc.Offices = append(mc.Offices, OfficeConfig{
			ID:      o.ID(),
			X:       o.Position().X,
			Y:       o.Position().Y,
			OffsetX: o.Offset().DX,
			OffsetY: o.Offset().DY,
		})
	}
	return mc
}
