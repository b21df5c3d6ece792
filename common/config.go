package common

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	DefaultPort     = 3000
	DefaultSlotName = "unknown"

	EnvPort          = "PORT"
	EnvSlotName      = "SLOT_NAME"
	EnvFeatureToggle = "FEATURE_TOGGLE_NEW_UI"
	EnvConfigFile    = "SLOTLAB_CONFIG"
	EnvDotenvFile    = "SLOTLAB_ENV_FILE"

	defaultDotenvFile = ".env"
)

const (
	V1 = "v1"
	V2 = "v2"
)

// Config is built once in main and handed to the server by value.
type Config struct {
	Port          int    `json:"port"`
	SlotName      string `json:"slotName"`
	FeatureToggle bool   `json:"featureToggleNewUI"`
}

func DefaultConfig() Config {
	return Config{Port: DefaultPort, SlotName: DefaultSlotName}
}

func (c Config) WithDefaults() Config {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.SlotName == "" {
		c.SlotName = DefaultSlotName
	}
	return c
}

func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid config: port %d is out of range", c.Port)
	}
	return nil
}

func (c Config) Version() string {
	if c.FeatureToggle {
		return V2
	}
	return V1
}

// AccentColor is the first stop of the landing page gradient.
func (c Config) AccentColor() string {
	if c.FeatureToggle {
		return "#4CAF50"
	}
	return "#2196F3"
}

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Chain returns a LookupFunc asking each of fs in order, first hit wins.
func Chain(fs ...LookupFunc) LookupFunc {
	return func(key string) (string, bool) {
		for _, f := range fs {
			if f == nil {
				continue
			}
			if v, ok := f(key); ok {
				return v, true
			}
		}
		return "", false
	}
}

func MapLookup(m map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

// ApplyEnv overrides c with the values found by lookup.
// Empty PORT and SLOT_NAME keep the current value.
// The toggle is on only for the exact string "true".
func (c Config) ApplyEnv(lookup LookupFunc) (Config, error) {
	if v, ok := lookup(EnvPort); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return c, fmt.Errorf("invalid %s '%s': %w", EnvPort, v, err)
		}
		c.Port = port
	}
	if v, ok := lookup(EnvSlotName); ok && v != "" {
		c.SlotName = v
	}
	if v, ok := lookup(EnvFeatureToggle); ok {
		c.FeatureToggle = v == "true"
	}
	return c, nil
}

// ReadConfig layers defaults, the SLOTLAB_CONFIG yaml file, the dotenv file
// and the process environment, in that order of increasing precedence.
func ReadConfig() (Config, error) {
	return readConfig(os.LookupEnv)
}

func readConfig(env LookupFunc) (Config, error) {
	c := DefaultConfig()
	if path, ok := env(EnvConfigFile); ok && path != "" {
		fc, err := ReadConfigFile(path)
		if err != nil {
			return Config{}, err
		}
		c = fc
	}

	dotenv, err := readDotenv(env)
	if err != nil {
		return Config{}, err
	}

	c, err = c.ApplyEnv(Chain(env, MapLookup(dotenv)))
	if err != nil {
		return Config{}, err
	}
	err = c.Validate()
	if err != nil {
		return Config{}, err
	}
	return c, nil
}

// readDotenv doesn't export anything into the process environment.
// A missing default .env is not an error, a missing explicit one is.
func readDotenv(env LookupFunc) (map[string]string, error) {
	path, explicit := env(EnvDotenvFile)
	if !explicit || path == "" {
		path = defaultDotenvFile
		explicit = false
	}
	m, err := godotenv.Read(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read env file %s: %w", path, err)
	}
	log.Printf("Loaded env file %s\n", path)
	return m, nil
}
