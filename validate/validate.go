// Command validate provides a small CLI that validates world description JSON
// files in a directory (./data by default). It checks:
//   - JSON structure and required fields (ids, names, road axis fields)
//   - Unique map ids and unique office ids per map
//   - Positive building sizes and positive dog speeds
//   - Connectivity: every road on a map is reachable from the first road
//     through overlapping corridors, and every office sits on a corridor
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/avolkov/dogwalk/game/config"
)

// corridorHalfWidth matches the road half-width used by the game engine.
const corridorHalfWidth = 0.5

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// corridor is the axis-aligned footprint of a road widened by the
// corridor half-width on every side.
type corridor struct {
	minX, maxX float64
	minY, maxY float64
}

func roadCorridor(r config.RoadConfig) corridor {
	x0, y0 := float64(r.X0), float64(r.Y0)
	x1, y1 := x0, y0
	if r.X1 != nil {
		x1 = float64(*r.X1)
	}
	if r.Y1 != nil {
		y1 = float64(*r.Y1)
	}
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	return corridor{
		minX: x0 - corridorHalfWidth,
		maxX: x1 + corridorHalfWidth,
		minY: y0 - corridorHalfWidth,
		maxY: y1 + corridorHalfWidth,
	}
}

func (c corridor) overlaps(other corridor) bool {
	return c.minX <= other.maxX && other.minX <= c.maxX &&
		c.minY <= other.maxY && other.minY <= c.maxY
}

func (c corridor) containsPoint(x, y float64) bool {
	return x >= c.minX && x <= c.maxX && y >= c.minY && y <= c.maxY
}

// validateWorld loads and validates a single world description file.
// It performs structural checks, per-map uniqueness checks, and road
// connectivity analysis.
func validateWorld(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	cfg, err := config.Parse(data)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid world description: %v", err))
		return result
	}

	if cfg.DefaultDogSpeed != nil && *cfg.DefaultDogSpeed <= 0 {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("defaultDogSpeed must be positive, got %g", *cfg.DefaultDogSpeed))
	}

	seenMapIDs := map[string]bool{}
	for _, mc := range cfg.Maps {
		if seenMapIDs[mc.ID] {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Duplicate map id: %s", mc.ID))
			continue
		}
		seenMapIDs[mc.ID] = true

		mapResult := validateMap(mc)
		if !mapResult.Valid {
			result.Valid = false
		}
		result.Errors = append(result.Errors, mapResult.Errors...)
	}

	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Maps: %d", len(cfg.Maps)))
		if cfg.DefaultDogSpeed != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("✓ Default dog speed: %g", *cfg.DefaultDogSpeed))
		}
	}

	return result
}

// validateMap checks a single map: office ids, building sizes, speed,
// and corridor connectivity.
func validateMap(mc config.MapConfig) ValidationResult {
	result := ValidationResult{
		Valid:  true,
		Errors: []string{},
	}

	if mc.DogSpeed != nil && *mc.DogSpeed <= 0 {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Map %s: dogSpeed must be positive, got %g", mc.ID, *mc.DogSpeed))
	}

	for i, b := range mc.Buildings {
		if b.W <= 0 || b.H <= 0 {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Map %s: building %d has non-positive size %dx%d", mc.ID, i, b.W, b.H))
		}
	}

	seenOffices := map[string]bool{}
	for _, o := range mc.Offices {
		if seenOffices[o.ID] {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Map %s: duplicate office id: %s", mc.ID, o.ID))
		}
		seenOffices[o.ID] = true
	}

	connectivity := validateConnectivity(mc)
	if !connectivity.Valid {
		result.Valid = false
	}
	result.Errors = append(result.Errors, connectivity.Errors...)

	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Map %s: %d roads, %d buildings, %d offices", mc.ID, len(mc.Roads), len(mc.Buildings), len(mc.Offices)))
	}

	return result
}

// validateConnectivity ensures every road is reachable from the first road
// through overlapping corridors, and every office sits on some corridor.
// Dogs can never leave the corridor network, so a disconnected road or an
// off-road office is unreachable in play.
func validateConnectivity(mc config.MapConfig) ValidationResult {
	result := ValidationResult{
		Valid:  true,
		Errors: []string{},
	}

	if len(mc.Roads) == 0 {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Map %s: has no roads", mc.ID))
		return result
	}

	corridors := make([]corridor, len(mc.Roads))
	for i, r := range mc.Roads {
		corridors[i] = roadCorridor(r)
	}

	// Flood fill over the road graph starting from road 0, where two
	// roads are adjacent when their corridors overlap.
	visited := make([]bool, len(corridors))
	queue := []int{0}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true

		for next := range corridors {
			if !visited[next] && corridors[current].overlaps(corridors[next]) {
				queue = append(queue, next)
			}
		}
	}

	unreachable := 0
	for i, ok := range visited {
		if !ok {
			unreachable++
			result.Errors = append(result.Errors, fmt.Sprintf("Map %s: road %d is unreachable from road 0", mc.ID, i))
		}
	}
	if unreachable > 0 {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Map %s: connectivity failure: %d/%d roads unreachable", mc.ID, unreachable, len(mc.Roads)))
	}

	for _, o := range mc.Offices {
		onRoad := false
		for _, c := range corridors {
			if c.containsPoint(float64(o.X), float64(o.Y)) {
				onRoad = true
				break
			}
		}
		if !onRoad {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Map %s: office %s at (%d,%d) is not on any road", mc.ID, o.ID, o.X, o.Y))
		}
	}

	return result
}

// main scans a directory for *.json files and validates each one, printing a
// concise report and exiting with non-zero status if any are invalid.
func main() {
	configDir := "data"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(configDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding world files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No world files found in %s\n", configDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateWorld(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, e := range result.Errors {
				if !strings.HasPrefix(e, "✓") {
					fmt.Println("  ❌ " + e)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All world descriptions are valid!")
	} else {
		fmt.Println("❌ Some world descriptions have errors")
		os.Exit(1)
	}
}
