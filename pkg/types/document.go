package types

import (
	"errors"
	"time"
)

// DocumentStatus is the aggregate review state of a requirement or a single
// uploaded file. A requirement with no uploaded files carries the zero value.
type DocumentStatus string

const (
	DocumentStatusNotSubmitted DocumentStatus = "not_submitted"
	DocumentStatusPending      DocumentStatus = "pending"
	DocumentStatusApproved     DocumentStatus = "approved"
	DocumentStatusRejected     DocumentStatus = "rejected"
)

var (
	ErrRequirementNotFound = errors.New("document requirement not found")
	ErrDocumentNotFound    = errors.New("uploaded document not found")
)

// DocumentRequirement is a named document slot a role's profile must or may
// satisfy, e.g. "Commercial Registration". The definition is server-owned;
// only its UploadedFiles list mutates client-side.
type DocumentRequirement struct {
	ID            string         `json:"id"`
	Label         string         `json:"label"`
	Description   string         `json:"description,omitempty"`
	Mandatory     bool           `json:"mandatory"`
	MaxFiles      int            `json:"maxFiles"`
	MaxFileSizeMB int            `json:"maxFileSizeMb"`
	AcceptTypes   []string       `json:"acceptTypes"`
	Status        DocumentStatus `json:"status,omitempty"`
	UploadedFiles []UploadedFile `json:"uploadedFiles"`
	ReviewComment string         `json:"reviewComment,omitempty"`
}

// UploadedFile is a concrete file attached to a DocumentRequirement. The ID
// is server-assigned once the file is persisted.
type UploadedFile struct {
	ID          string         `json:"id"`
	FileName    string         `json:"fileName"`
	CustomName  string         `json:"customName,omitempty"`
	Description string         `json:"description,omitempty"`
	FileURL     string         `json:"fileUrl,omitempty"`
	UploadedAt  time.Time      `json:"uploadedAt"`
	ExpiryDate  *time.Time     `json:"expiryDate,omitempty"`
	Status      DocumentStatus `json:"status"`
	Size        int64          `json:"size"`
}

// FileMetadata carries optional caller-supplied attributes for an upload.
// Nil fields are left untouched on update.
type FileMetadata struct {
	CustomName  *string    `form:"custom_name"`
	Description *string    `form:"description"`
	ExpiryDate  *time.Time `form:"expiry_date"`
}

// UploadResult is what the document service returns for a persisted upload.
type UploadResult struct {
	File    UploadedFile `json:"file"`
	Message string       `json:"message"`
}
