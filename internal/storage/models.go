package storage

import "time"

// ExportRecord is one archived chat-history export.
type ExportRecord struct {
	ID            string // UUID
	ExportedAt    time.Time
	Model         string
	ExchangeCount int
	Document      []byte // JSON snapshot, same shape as the file export
}
