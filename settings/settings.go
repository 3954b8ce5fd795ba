package settings

import (
	"errors"
	"fmt"
	"os"

	"github.com/oomph-ac/coastersim/physics"
	"github.com/pelletier/go-toml"
	"github.com/sirupsen/logrus"
)

// Settings contains everything that can be configured for coastersim.
type Settings struct {
	Log struct {
		// Level is the logrus level name: "debug" also turns on per-node build logs.
		Level string
	}
	Physics struct {
		// Energy selects the velocity integrator, "delta" or "absolute".
		Energy string
	}
	// Workers is the amount of scenes built at once. Zero or less uses one worker per CPU.
	Workers int
	Sentry  struct {
		DSN         string
		Environment string
	}
	StatsView struct {
		Enabled bool
		Addr    string
	}
	Output struct {
		// Dir is where point files are written. Empty writes next to each scene file.
		Dir string
		// Vertices also writes float32 render vertices.
		Vertices bool
	}
}

// DefaultSettings returns the default settings.
func DefaultSettings() Settings {
	s := Settings{}
	s.Log.Level = "info"
	s.Physics.Energy = physics.EnergyModeDelta.String()
	s.Sentry.Environment = "development"
	s.StatsView.Addr = "localhost:18066"
	return s
}

// LogLevel parses the configured log level.
func (s Settings) LogLevel() (logrus.Level, error) {
	return logrus.ParseLevel(s.Log.Level)
}

// EnergyMode parses the configured energy integrator.
func (s Settings) EnergyMode() (physics.EnergyMode, error) {
	return physics.ParseEnergyMode(s.Physics.Energy)
}

// Validate checks that every named option in the settings parses.
func (s Settings) Validate() error {
	if _, err := s.LogLevel(); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	if _, err := s.EnergyMode(); err != nil {
		return fmt.Errorf("invalid energy mode: %w", err)
	}
	return nil
}

// SaveDefault will create and save the default settings file. If the file already exists, it will return an error.
func SaveDefault(path string) error {
	s := DefaultSettings()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if data, err := toml.Marshal(s); err != nil {
			return fmt.Errorf("failed encoding default settings: %w", err)
		} else if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed creating settings file: %w", err)
		}
		return nil
	}
	return errors.New("settings file already exists")
}

// Load will load the settings from your settings file, and return an error if the file does not exist.
// Options missing from the file keep their default values.
func Load(path string) (Settings, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Settings{}, errors.New("settings file doesn't exist")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("error reading config: %w", err)
	}

	settings := DefaultSettings()
	if err = toml.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("error decoding config: %w", err)
	}
	if err = settings.Validate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}
