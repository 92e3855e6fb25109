package reports

import (
	"context"
	"fmt"
	"log"

	"github.com/go-monolith/mono"
)

// Module provides report services as a mono module.
type Module struct {
	engine   *Engine
	service  *Service
	tasks    TaskDirectory
	accounts AccountDirectory
	cache    ReportCache
}

// NewModule creates a new reports module.
func NewModule() *Module {
	return &Module{}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "reports"
}

// SetTaskDirectory sets the task store dependency.
func (m *Module) SetTaskDirectory(tasks TaskDirectory) {
	m.tasks = tasks
}

// SetAccountDirectory sets the account lookup dependency.
func (m *Module) SetAccountDirectory(accounts AccountDirectory) {
	m.accounts = accounts
}

// SetReportCache sets the cache dependency.
func (m *Module) SetReportCache(cache ReportCache) {
	m.cache = cache
}

// Init creates the report engine.
func (m *Module) Init(_ mono.ServiceContainer) error {
	m.engine = NewEngine()
	return nil
}

// Start wires the cache-aside service once all dependencies are set.
func (m *Module) Start(_ context.Context) error {
	if m.tasks == nil || m.accounts == nil || m.cache == nil {
		return fmt.Errorf("reports service not initialized: missing dependencies")
	}

	m.service = NewService(m.engine, m.tasks, m.accounts, m.cache)
	log.Println("[reports] Module started")
	return nil
}

// Stop stops the module (no-op for this module).
func (m *Module) Stop(_ context.Context) error {
	log.Println("[reports] Module stopped")
	return nil
}

// GetService returns the reports service.
func (m *Module) GetService() *Service {
	return m.service
}
