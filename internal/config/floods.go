package config

import (
	"fmt"
	"os"
	"time"

	"github.com/couchcryptid/flood-flow-dashboard/internal/domain"
	"gopkg.in/yaml.v3"
)

// floodFile is the on-disk layout of a flood calendar:
//
//	floods:
//	  - year: 2014
//	    start: 2014-09-06
//	    end: 2014-09-16
//	    color: "rgba(255, 0, 0, 0.2)"
type floodFile struct {
	Floods []floodEntry `yaml:"floods"`
}

type floodEntry struct {
	Year  int    `yaml:"year"`
	Start string `yaml:"start"`
	End   string `yaml:"end"`
	Color string `yaml:"color"`
}

// LoadFloodCalendar returns the built-in calendar when path is empty, and
// otherwise parses the YAML calendar at path.
func LoadFloodCalendar(path string) (domain.FloodCalendar, error) {
	if path == "" {
		return domain.DefaultFloodCalendar(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.FloodCalendar{}, fmt.Errorf("read flood periods file: %w", err)
	}
	return ParseFloodCalendar(data)
}

// ParseFloodCalendar parses a YAML flood calendar. Dates use the YYYY-MM-DD form.
func ParseFloodCalendar(data []byte) (domain.FloodCalendar, error) {
	var f floodFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return domain.FloodCalendar{}, fmt.Errorf("parse flood periods: %w", err)
	}

	periods := make([]domain.FloodPeriod, 0, len(f.Floods))
	for _, e := range f.Floods {
		start, err := time.Parse(time.DateOnly, e.Start)
		if err != nil {
			return domain.FloodCalendar{}, fmt.Errorf("flood period %d: invalid start %q", e.Year, e.Start)
		}
		end, err := time.Parse(time.DateOnly, e.End)
		if err != nil {
			return domain.FloodCalendar{}, fmt.Errorf("flood period %d: invalid end %q", e.Year, e.End)
		}
		periods = append(periods, domain.FloodPeriod{Year: e.Year, Start: start, End: end, Color: e.Color})
	}
	return domain.NewFloodCalendar(periods)
}
