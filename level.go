package whatif

import (
	"fmt"
	"os"

	"github.com/setanarut/v"
	"gopkg.in/yaml.v3"
)

// Level describes the initial world: the main ball's spawn point, the
// level's circle and polygon entities, and the flag pickup positions.
type Level struct {
	Ball     v.Vec          `yaml:"ball"`
	Circles  []LevelCircle  `yaml:"circles"`
	Polygons []LevelPolygon `yaml:"polygons"`
	Flags    []v.Vec        `yaml:"flags"`
}

type LevelCircle struct {
	Center   v.Vec   `yaml:"center"`
	Radius   float64 `yaml:"radius"`
	Static   bool    `yaml:"static"`
	Bindable bool    `yaml:"bindable"`
}

type LevelPolygon struct {
	Points   []v.Vec `yaml:"points"`
	Static   bool    `yaml:"static"`
	Bindable bool    `yaml:"bindable"`
}

// ParseLevel decodes a YAML level definition.
func ParseLevel(data []byte) (Level, error) {
	var level Level
	if err := yaml.Unmarshal(data, &level); err != nil {
		return Level{}, fmt.Errorf("parsing level: %w", err)
	}
	for i, poly := range level.Polygons {
		if len(poly.Points) < 3 {
			return Level{}, fmt.Errorf("level polygon %d has %d points, need at least 3", i, len(poly.Points))
		}
	}
	return level, nil
}

// LoadLevel reads and decodes a level file.
func LoadLevel(path string) (Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Level{}, fmt.Errorf("reading level: %w", err)
	}
	return ParseLevel(data)
}
