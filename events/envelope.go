package events

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const producer = "zest-order"

// Envelope wraps every published event.
type Envelope[T any] struct {
	EventName    string    `json:"eventName"`
	EventVersion int       `json:"eventVersion"`
	EventID      string    `json:"eventId"`
	Producer     string    `json:"producer"`
	PartitionKey string    `json:"partitionKey"`
	OccurredAt   time.Time `json:"occurredAt"`
	Payload      T         `json:"payload"`
}

func newEnvelope[T any](name string, version int, key string, payload T) Envelope[T] {
	return Envelope[T]{
		EventName:    name,
		EventVersion: version,
		EventID:      uuid.NewString(),
		Producer:     producer,
		PartitionKey: key,
		OccurredAt:   time.Now().UTC(),
		Payload:      payload,
	}
}

// Validate checks the envelope identity on the consuming side.
func (e Envelope[T]) Validate(expectedName string, expectedVersion int) error {
	if e.EventName != expectedName {
		return fmt.Errorf("unexpected eventName: %s", e.EventName)
	}
	if e.EventVersion != expectedVersion {
		return fmt.Errorf("unexpected eventVersion: %d", e.EventVersion)
	}
	if e.PartitionKey == "" {
		return fmt.Errorf("missing partitionKey")
	}
	return nil
}
