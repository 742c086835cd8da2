package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// StaffSeedEntry is one maintenance staff member in the seed roster.
type StaffSeedEntry struct {
	Name      string `yaml:"name"`
	Email     string `yaml:"email"`
	Phone     string `yaml:"phone"`
	Specialty string `yaml:"specialty"`
	Hostel    string `yaml:"hostel"`
}

// StaffSeed is the YAML document describing the initial staff roster.
type StaffSeed struct {
	Staff []StaffSeedEntry `yaml:"staff"`
}

// LoadStaffSeed parses the staff roster YAML file at path.
func LoadStaffSeed(path string) (*StaffSeed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read staff seed file: %w", err)
	}

	var seed StaffSeed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse staff seed file: %w", err)
	}

	for i, entry := range seed.Staff {
		if entry.Name == "" || entry.Specialty == "" {
			return nil, fmt.Errorf("staff seed entry %d: name and specialty are required", i)
		}
	}

	return &seed, nil
}
