package task

import (
	"context"
	"fmt"
	"log"

	"github.com/go-monolith/mono"
	"gorm.io/gorm"
)

// Module provides task services as a mono module. The gorm handle is shared
// with the auth module and owned by main.
type Module struct {
	db          *gorm.DB
	repo        *Repository
	service     *Service
	attachments AttachmentStore
}

// NewModule creates a new task module on an already opened database handle.
func NewModule(db *gorm.DB) *Module {
	return &Module{db: db}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "task"
}

// SetAttachmentStore sets the attachment storage dependency.
func (m *Module) SetAttachmentStore(store AttachmentStore) {
	m.attachments = store
}

// Init migrates the task table and creates the repository.
func (m *Module) Init(_ mono.ServiceContainer) error {
	m.repo = NewRepository(m.db)
	if err := m.repo.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate task table: %w", err)
	}

	log.Println("[task] Task table migrated")
	return nil
}

// Start wires the service once the attachment store is available.
func (m *Module) Start(_ context.Context) error {
	if m.attachments == nil {
		return fmt.Errorf("task service not initialized: attachment store not set")
	}

	m.service = NewService(m.repo, m.attachments)
	log.Println("[task] Module started")
	return nil
}

// Stop stops the module. The shared database handle is closed by main.
func (m *Module) Stop(_ context.Context) error {
	log.Println("[task] Module stopped")
	return nil
}

// GetService returns the task service.
func (m *Module) GetService() *Service {
	return m.service
}

// GetRepository returns the task repository.
func (m *Module) GetRepository() *Repository {
	return m.repo
}

// HealthCheck verifies the database connection is healthy.
func (m *Module) HealthCheck(ctx context.Context) error {
	if m.db == nil {
		return fmt.Errorf("database not initialized")
	}
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
