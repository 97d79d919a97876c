package domain

import "github.com/google/uuid"

// Service salon service from the catalogue; only the duration matters for availability
type Service struct {
	ID              uuid.UUID
	Name            string
	DurationMinutes int
}
