package server

import (
	"time"

	"github.com/glossd/fetch"
	"github.com/glossd/slotlab/common"
)

// TimeFormat matches JavaScript's Date.toISOString.
const TimeFormat = "2006-01-02T15:04:05.000Z"

const StatusHealthy = "healthy"

type handlers struct {
	config common.Config
	now    func() time.Time
}

func (h handlers) timestamp() string {
	return h.now().UTC().Format(TimeFormat)
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Slot      string `json:"slot"`
}

func (h handlers) Health(_ fetch.Empty) (*HealthResponse, error) {
	return &HealthResponse{
		Status:    StatusHealthy,
		Timestamp: h.timestamp(),
		Slot:      h.config.SlotName,
	}, nil
}

type InfoResponse struct {
	Slot          string `json:"slot"`
	FeatureToggle bool   `json:"featureToggle"`
	Version       string `json:"version"`
	Timestamp     string `json:"timestamp"`
}

func (h handlers) Info(_ fetch.Empty) (*InfoResponse, error) {
	return &InfoResponse{
		Slot:          h.config.SlotName,
		FeatureToggle: h.config.FeatureToggle,
		Version:       h.config.Version(),
		Timestamp:     h.timestamp(),
	}, nil
}
