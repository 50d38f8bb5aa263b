package tracker

import (
	"testing"
	"time"

	"binaahub/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformDocument(t *testing.T) {
	uploadedAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	doc := types.BackendDocument{
		ID:                 "req-1",
		Name:               "Commercial Registration",
		Description:        "Valid commercial registration certificate",
		Code:               "CR",
		Category:           "mandatory",
		AcceptedFileTypes:  []string{"application/pdf", ".jpg"},
		MaxFileSizeMB:      10,
		AllowMultipleFiles: true,
		MaxFilesCount:      3,
		UserDocumentStatus: "pending",
		UploadedDocuments: []types.BackendUploadedDocument{
			{
				ID:               "file-1",
				OriginalFilename: "cr.pdf",
				Name:             "CR 2026",
				FileSize:         2048,
				Status:           "pending",
				AdminNotes:       "renew before expiry",
				CreatedAt:        uploadedAt,
			},
		},
	}

	req, ok := transformDocument(doc)
	require.True(t, ok)

	assert.Equal(t, "req-1", req.ID)
	assert.Equal(t, "Commercial Registration", req.Label)
	assert.True(t, req.Mandatory)
	assert.Equal(t, 3, req.MaxFiles)
	assert.Equal(t, 10, req.MaxFileSizeMB)
	assert.Equal(t, types.DocumentStatusPending, req.Status)
	assert.Equal(t, "renew before expiry", req.ReviewComment)

	require.Len(t, req.UploadedFiles, 1)
	assert.Equal(t, "cr.pdf", req.UploadedFiles[0].FileName)
	assert.Equal(t, "CR 2026", req.UploadedFiles[0].CustomName)
	assert.Equal(t, int64(2048), req.UploadedFiles[0].Size)
	assert.Equal(t, uploadedAt, req.UploadedFiles[0].UploadedAt)
}

func TestTransformDocumentDefaults(t *testing.T) {
	req, ok := transformDocument(types.BackendDocument{
		ID:                 "req-2",
		Name:               "Portfolio",
		Category:           "optional",
		AllowMultipleFiles: false,
		MaxFilesCount:      5,
		UserDocumentStatus: "garbage",
	})
	require.True(t, ok)

	assert.False(t, req.Mandatory)
	// Single-file requirements ignore the backend count.
	assert.Equal(t, 1, req.MaxFiles)
	assert.Empty(t, string(req.Status))
	assert.Empty(t, req.ReviewComment)
}

func TestTransformDocumentsSkipsMalformed(t *testing.T) {
	tr := newTestTracker(&mockService{})

	out := tr.transformDocuments([]types.BackendDocument{
		{Name: "missing id"},
		{ID: "req-1", Name: "Tax Certificate"},
	})

	require.Len(t, out, 1)
	assert.Equal(t, "req-1", out[0].ID)
}
