package service

import (
	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/gladeswatch/backend/internal/server"
)

// AuthService initializes Clerk with the configured secret key. The
// Clerk SDK is configured globally; the middleware layer consumes it.
type AuthService struct {
	server *server.Server
}

// NewAuthService sets the Clerk secret key and returns the service.
func NewAuthService(s *server.Server) *AuthService {
	clerk.SetKey(s.Config.Auth.SecretKey)
	return &AuthService{
		server: s,
	}
}
