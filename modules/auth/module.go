package auth

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-monolith/mono"
	"gorm.io/gorm"
)

// Module provides account services as a mono module. The gorm handle is
// shared with the task module and owned by main.
type Module struct {
	db      *gorm.DB
	repo    *UserRepository
	service *Service
}

// NewModule creates a new auth module on an already opened database handle.
func NewModule(db *gorm.DB) *Module {
	return &Module{db: db}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "auth"
}

// Init migrates the user table and builds the service.
func (m *Module) Init(_ mono.ServiceContainer) error {
	m.repo = NewUserRepository(m.db)
	if err := m.repo.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate user table: %w", err)
	}

	m.service = NewService(m.repo, NewPasswordHasher(), NewJWTManager(loadJWTConfig()))
	log.Println("[auth] User table migrated")
	return nil
}

// Start starts the module (no-op for this module).
func (m *Module) Start(_ context.Context) error {
	log.Println("[auth] Module started")
	return nil
}

// Stop stops the module. The shared database handle is closed by main.
func (m *Module) Stop(_ context.Context) error {
	log.Println("[auth] Module stopped")
	return nil
}

// GetService returns the auth service.
func (m *Module) GetService() *Service {
	return m.service
}

// loadJWTConfig reads token settings from the environment, falling back to
// defaults.
func loadJWTConfig() JWTConfig {
	config := DefaultJWTConfig()

	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		config.SecretKey = secret
	}
	if issuer := os.Getenv("JWT_ISSUER"); issuer != "" {
		config.Issuer = issuer
	}
	if ttl := os.Getenv("JWT_TTL"); ttl != "" {
		if duration, err := time.ParseDuration(ttl); err == nil {
			config.TokenDuration = duration
		} else {
			log.Printf("[auth] Warning: invalid JWT_TTL %q, using default", ttl)
		}
	}

	return config
}
