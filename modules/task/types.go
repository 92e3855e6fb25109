package task

import "context"

// Upload carries an attachment file received with a create or update request.
type Upload struct {
	Filename    string
	Data        []byte
	ContentType string
}

// Input is the parsed create/update payload. Date and status fields stay raw
// strings here: the service owns parsing and completion stamping so the API
// layer cannot drift from the store's rules. An empty CompletionStatus means
// the field was absent from the form.
type Input struct {
	Title            string
	Description      string
	DueDate          string
	Attachment       *Upload
	CompletionDate   string
	CompletionStatus string
}

// AttachmentStore is the port to attachment blob storage. Keys are scoped by
// task identity, so one task's write can never touch another task's blob.
type AttachmentStore interface {
	Store(ctx context.Context, ownerID, taskID, filename string, data []byte, contentType string) (string, error)
	Release(ctx context.Context, key string) error
}
