package common

import (
	"fmt"
	"io"
	"os"

	"sigs.k8s.io/yaml"
)

// ReadConfigFile reads a yaml config such as
//
//	port: 8080
//	slotName: staging
//	featureToggleNewUI: true
//
// Missing fields take the defaults.
func ReadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("couldn't open config: %w", err)
	}
	defer f.Close()
	return readConfigFile(f)
}

func readConfigFile(r io.Reader) (Config, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return Config{}, fmt.Errorf("couldn't read config: %w", err)
	}
	var c Config
	err = yaml.UnmarshalStrict(b, &c)
	if err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return c.WithDefaults(), nil
}
