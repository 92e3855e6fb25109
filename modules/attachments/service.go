// Package attachments stores and releases the binary blobs attached to tasks.
package attachments

import (
	"context"
	"fmt"
	"log"
)

// Service provides attachment operations over an ObjectStore.
type Service struct {
	store ObjectStore
}

// NewService creates a new attachment service.
func NewService(store ObjectStore) *Service {
	return &Service{store: store}
}

// storageKey places every blob under its owner, named by task identity so no
// two tasks can share a key. Re-uploading the same filename for the same task
// overwrites the previous blob.
func storageKey(ownerID, taskID, filename string) string {
	return fmt.Sprintf("%s/%s-%s", ownerID, taskID, filename)
}

// Store saves an attachment blob and returns the key recorded on the task row.
func (s *Service) Store(ctx context.Context, ownerID, taskID, filename string, data []byte, contentType string) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("attachment filename is required")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := storageKey(ownerID, taskID, filename)
	if _, err := s.store.Put(ctx, key, data, contentType); err != nil {
		return "", fmt.Errorf("failed to store attachment: %w", err)
	}
	return key, nil
}

// Fetch retrieves an attachment blob by its key.
func (s *Service) Fetch(ctx context.Context, key string) ([]byte, *ObjectInfo, error) {
	return s.store.Get(ctx, key)
}

// Release deletes the blob behind a task attachment. Best effort: the caller
// treats failure as non-fatal, so a row delete is never rolled back over a
// stranded blob.
func (s *Service) Release(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	if err := s.store.Delete(ctx, key); err != nil {
		log.Printf("[attachments] Warning: failed to release %s: %v", key, err)
		return err
	}
	return nil
}
