package internal

import (
	_ "embed"
	"os"

	"github.com/juju/errors"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

// Seed is the data a fresh process starts from.
type Seed struct {
	Catalog    `yaml:",inline"`
	Users      []UserCredential `yaml:"users"`
	Timesheets []TimesheetEntry `yaml:"timesheets"`
}

// LoadSeed reads a YAML seed file, or the embedded demo seed when path is empty.
func LoadSeed(path string) (*Seed, error) {
	data := defaultSeed
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Annotatef(err, "reading seed file %q", path)
		}
		data = b
	}
	return ParseSeed(data)
}

func ParseSeed(data []byte) (*Seed, error) {
	var s Seed
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.Annotate(err, "parsing seed")
	}
	if len(s.Projects) == 0 || len(s.WorkTypes) == 0 {
		return nil, errors.NotValidf("seed without projects or work types")
	}
	seen := make(map[int64]bool, len(s.Timesheets))
	for i, e := range s.Timesheets {
		if seen[e.ID] {
			return nil, errors.AlreadyExistsf("seed timesheet id %d", e.ID)
		}
		seen[e.ID] = true
		if err := s.Catalog.CheckEntry(e); err != nil {
			return nil, errors.Annotatef(err, "seed timesheet %d", e.ID)
		}
		if e.WeekNumber == 0 {
			s.Timesheets[i].WeekNumber, _ = ISOWeek(e.Date)
		}
	}
	return &s, nil
}
