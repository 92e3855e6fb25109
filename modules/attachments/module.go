package attachments

import (
	"context"
	"fmt"
	"log"

	"github.com/go-monolith/mono"
)

// Module provides attachment storage as a mono module.
type Module struct {
	service    *Service
	store      *JetStreamObjectStore
	natsURL    string
	bucketName string
}

// NewModule creates a new attachments module.
func NewModule(natsURL, bucketName string) *Module {
	return &Module{
		natsURL:    natsURL,
		bucketName: bucketName,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "attachments"
}

// Init connects to NATS and binds the object store bucket.
func (m *Module) Init(_ mono.ServiceContainer) error {
	store, err := NewJetStreamObjectStore(m.natsURL, m.bucketName)
	if err != nil {
		return fmt.Errorf("failed to create object store: %w", err)
	}

	if err := store.Init(context.Background()); err != nil {
		store.Close()
		return fmt.Errorf("failed to init bucket %q: %w", m.bucketName, err)
	}

	m.store = store
	m.service = NewService(store)
	log.Printf("[attachments] Connected to NATS at %s (bucket: %s)", m.natsURL, m.bucketName)

	return nil
}

// Start starts the module (no-op for this module).
func (m *Module) Start(_ context.Context) error {
	log.Println("[attachments] Module started")
	return nil
}

// Stop closes the NATS connection.
func (m *Module) Stop(_ context.Context) error {
	if m.store != nil {
		m.store.Close()
	}
	log.Println("[attachments] Module stopped")
	return nil
}

// GetService returns the attachment service.
func (m *Module) GetService() *Service {
	return m.service
}

// HealthCheck verifies the NATS connection is alive.
func (m *Module) HealthCheck(_ context.Context) error {
	if m.store == nil || !m.store.IsConnected() {
		return fmt.Errorf("object store not connected")
	}
	return nil
}
