package mqttbridge

import (
	"fmt"

	"github.com/denisbrodbeck/machineid"
)

const (
	appID    = "vnhdrive"
	idLength = 12
)

// ClientID returns configured when set, otherwise a stable id derived from
// the machine id. The raw machine id is never exposed on the broker.
func ClientID(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	id, err := machineid.ProtectedID(appID)
	if err != nil {
		return "", fmt.Errorf("failed to read machine id: %w", err)
	}
	return shortID(id), nil
}

func shortID(id string) string {
	if len(id) > idLength {
		return id[:idLength]
	}
	return id
}
