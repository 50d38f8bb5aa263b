package tracker

import (
	"binaahub/pkg/types"

	"github.com/sirupsen/logrus"
)

// transformDocuments maps the backend wire shape into client requirement
// records. Malformed records are logged and skipped rather than propagated.
func (t *Tracker) transformDocuments(docs []types.BackendDocument) []*types.DocumentRequirement {
	out := make([]*types.DocumentRequirement, 0, len(docs))
	for _, doc := range docs {
		req, ok := transformDocument(doc)
		if !ok {
			t.logger.WithFields(logrus.Fields{
				"name": doc.Name,
				"code": doc.Code,
			}).Warn("skipping malformed backend document")
			continue
		}
		out = append(out, req)
	}
	return out
}

func transformDocument(doc types.BackendDocument) (*types.DocumentRequirement, bool) {
	if doc.ID == "" {
		return nil, false
	}

	maxFiles := 1
	if doc.AllowMultipleFiles && doc.MaxFilesCount > 1 {
		maxFiles = doc.MaxFilesCount
	}

	req := &types.DocumentRequirement{
		ID:            doc.ID,
		Label:         doc.Name,
		Description:   doc.Description,
		Mandatory:     doc.Category == types.BackendDocumentCategoryMandatory,
		MaxFiles:      maxFiles,
		MaxFileSizeMB: doc.MaxFileSizeMB,
		AcceptTypes:   append([]string(nil), doc.AcceptedFileTypes...),
		Status:        transformStatus(doc.UserDocumentStatus),
		UploadedFiles: make([]types.UploadedFile, 0, len(doc.UploadedDocuments)),
	}

	for _, uploaded := range doc.UploadedDocuments {
		req.UploadedFiles = append(req.UploadedFiles, uploaded.ToUploadedFile())
	}

	// The latest admin note rides on the first uploaded document.
	if len(doc.UploadedDocuments) > 0 {
		req.ReviewComment = doc.UploadedDocuments[0].AdminNotes
	}

	return req, true
}

func transformStatus(status string) types.DocumentStatus {
	switch types.DocumentStatus(status) {
	case types.DocumentStatusNotSubmitted, types.DocumentStatusPending,
		types.DocumentStatusApproved, types.DocumentStatusRejected:
		return types.DocumentStatus(status)
	}
	return ""
}
