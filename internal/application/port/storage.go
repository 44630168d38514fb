package port

import "context"

// StoredReceipt is the pointer a receipt store hands back for an uploaded file.
type StoredReceipt struct {
	URL       string `json:"url"`
	StorageID string `json:"storage_id"`
}

// ReceiptStore accepts receipt files and returns durable references to them.
// The store's internals (disk, GridFS, cloud bucket) are a collaborator
// concern; claims only keep the returned pointers.
type ReceiptStore interface {
	Save(ctx context.Context, filename string, content []byte) (*StoredReceipt, error)
	Delete(ctx context.Context, storageID string) error
}
