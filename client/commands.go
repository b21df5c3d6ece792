package client

import (
	"fmt"
	"io"

	"github.com/glossd/fetch"
	"github.com/glossd/slotlab/common"
	"github.com/glossd/slotlab/server"
	"sigs.k8s.io/yaml"
)

func BaseURL(port int) string {
	return fmt.Sprintf("http://127.0.0.1:%d", port)
}

func GetHealth(baseURL string) (server.HealthResponse, error) {
	return fetch.Get[server.HealthResponse](baseURL + "/health")
}

func GetInfo(baseURL string) (server.InfoResponse, error) {
	return fetch.Get[server.InfoResponse](baseURL + "/api/info")
}

// Health prints the health response and reports whether the server is healthy.
func Health(w io.Writer, baseURL string) error {
	r, err := GetHealth(baseURL)
	if err != nil {
		return fmt.Errorf("server hasn't responded: %w", err)
	}
	fmt.Fprintf(w, "status=%s, slot=%s, timestamp=%s\n", r.Status, r.Slot, r.Timestamp)
	if r.Status != server.StatusHealthy {
		return fmt.Errorf("server is %s", r.Status)
	}
	return nil
}

// Info prints /api/info as yaml.
func Info(w io.Writer, baseURL string) error {
	r, err := GetInfo(baseURL)
	if err != nil {
		return fmt.Errorf("server hasn't responded: %w", err)
	}
	b, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal info: %w", err)
	}
	_, err = w.Write(b)
	return err
}

func IsServerRunning(port int) bool {
	return common.IsPortOpen(port)
}
