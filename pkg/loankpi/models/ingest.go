package models

import "time"

// Ingestion is the result of storing one uploaded workbook.
type Ingestion struct {
	Matched    bool   `json:"matched"`
	TargetFile string `json:"targetFile,omitempty"`
	// QueueID identifies an unmatched upload held for review.
	QueueID string `json:"queueId,omitempty"`
}

// PendingUpload is an upload that matched no programme workbook and is
// held in the inbox for review.
type PendingUpload struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	Size       int       `json:"size"`
	ReceivedAt time.Time `json:"receivedAt"`
}
