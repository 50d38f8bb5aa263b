package types

import (
	"io"
	"time"
)

// UploadState is the lifecycle state of one tracked upload attempt.
type UploadState string

const (
	UploadStateUploading UploadState = "uploading"
	UploadStateSuccess   UploadState = "success"
	UploadStateError     UploadState = "error"
)

// NetworkStatus is a per-role connectivity flag derived from fetch failures.
type NetworkStatus string

const (
	NetworkOnline  NetworkStatus = "online"
	NetworkOffline NetworkStatus = "offline"
)

// FileUploadStatus is ephemeral, client-only tracking state for one in-flight
// or recently-completed upload attempt. It is UI feedback state, not the
// source of truth for whether a file exists.
type FileUploadStatus struct {
	FileID     string      `json:"fileId"`
	Status     UploadState `json:"status"`
	Progress   int         `json:"progress"`
	FileName   string      `json:"fileName"`
	Role       Role        `json:"role"`
	DocID      string      `json:"docId"`
	Error      string      `json:"error,omitempty"`
	RetryCount int         `json:"retryCount"`
	Timestamp  time.Time   `json:"timestamp"`
}

// FileError records the most recent error for a fileId, independently of the
// transient status display so it can be inspected or cleared on its own.
type FileError struct {
	Error      string    `json:"error"`
	Timestamp  time.Time `json:"timestamp"`
	RetryCount int       `json:"retryCount"`
}

// FilePayload is a binary upload payload with its name and size.
type FilePayload struct {
	Name        string
	Size        int64
	ContentType string
	Reader      io.Reader
}
