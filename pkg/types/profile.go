package types

import "time"

// RequirementDefinition is a row in the per-role document requirement
// catalog. Seeded from internal/seed; admin-owned.
type RequirementDefinition struct {
	ID                 string    `db:"id"`
	Role               Role      `db:"role"`
	Label              string    `db:"label"`
	Description        *string   `db:"description"`
	Code               string    `db:"code"`
	Category           string    `db:"category"`
	AcceptedFileTypes  []string  `db:"accepted_file_types"` // text[] column
	MaxFileSizeMB      int       `db:"max_file_size_mb"`
	AllowMultipleFiles bool      `db:"allow_multiple_files"`
	MaxFilesCount      int       `db:"max_files_count"`
	DisplayOrder       int       `db:"display_order"`
	IsActive           bool      `db:"is_active"`
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`
}

// ProfileDocument is a row for one uploaded file backing a requirement.
type ProfileDocument struct {
	ID            string         `db:"id"`
	RequirementID string         `db:"requirement_id"`
	UserID        string         `db:"user_id"`
	Role          Role           `db:"role"`
	FileName      string         `db:"file_name"`
	CustomName    *string        `db:"custom_name"`
	Description   *string        `db:"description"`
	FileSizeBytes int64          `db:"file_size_bytes"`
	MimeType      string         `db:"mime_type"`
	StorageKey    string         `db:"storage_key"`
	Status        DocumentStatus `db:"status"`
	AdminNotes    *string        `db:"admin_notes"`
	ExpiryDate    *time.Time     `db:"expiry_date"`
	UploadedAt    time.Time      `db:"uploaded_at"`
}
