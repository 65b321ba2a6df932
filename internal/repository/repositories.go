package repository

import (
	"github.com/gladeswatch/backend/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Sightings  *SightingRepository
	Operations *OperationRepository
}

// NewRepositories constructs the repository container from the shared
// database pool on the application container.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Sightings:  NewSightingRepository(s),
		Operations: NewOperationRepository(s),
	}
}
