package types

import "time"

// BackendDocument is the wire shape the document service serves for one
// requirement. Field names follow the backend's snake_case contract.
type BackendDocument struct {
	ID                 string                    `json:"id"`
	Name               string                    `json:"name"`
	Description        string                    `json:"description"`
	Code               string                    `json:"code"`
	Category           string                    `json:"category"`
	AcceptedFileTypes  []string                  `json:"accepted_file_types"`
	MaxFileSizeMB      int                       `json:"max_file_size_mb"`
	AllowMultipleFiles bool                      `json:"allow_multiple_files"`
	MaxFilesCount      int                       `json:"max_files_count"`
	UserDocumentStatus string                    `json:"user_document_status"`
	UploadedDocuments  []BackendUploadedDocument `json:"uploaded_documents"`
}

// BackendDocumentCategoryMandatory marks a requirement as required for
// profile completion.
const BackendDocumentCategoryMandatory = "mandatory"

// BackendUploadedDocument is the wire shape of one persisted file.
type BackendUploadedDocument struct {
	ID               string     `json:"id"`
	OriginalFilename string     `json:"original_filename"`
	Name             string     `json:"name"`
	Description      string     `json:"description"`
	FileSize         int64      `json:"file_size"`
	FileURL          string     `json:"file_url,omitempty"`
	ExpiryDate       *time.Time `json:"expiry_date"`
	Status           string     `json:"status"`
	AdminNotes       string     `json:"admin_notes"`
	CreatedAt        time.Time  `json:"created_at"`
}

// ToUploadedFile converts the wire shape into the client-side record.
func (d BackendUploadedDocument) ToUploadedFile() UploadedFile {
	return UploadedFile{
		ID:          d.ID,
		FileName:    d.OriginalFilename,
		CustomName:  d.Name,
		Description: d.Description,
		FileURL:     d.FileURL,
		UploadedAt:  d.CreatedAt,
		ExpiryDate:  d.ExpiryDate,
		Status:      DocumentStatus(d.Status),
		Size:        d.FileSize,
	}
}
