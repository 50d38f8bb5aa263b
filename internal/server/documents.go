package server

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"binaahub/internal/utils"
	"binaahub/pkg/types"

	"github.com/alexedwards/flow"
)

func (s *Service) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	role, err := s.roleFromPath(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	requirements, err := s.requirementRepo.RequirementsByRole(r.Context(), role)
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch requirement catalog")
		s.internalServerError(w)
		return
	}

	documents, err := s.documentRepo.DocumentsByRoleAndUser(r.Context(), role, userID)
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch uploaded documents")
		s.internalServerError(w)
		return
	}

	byRequirement := make(map[string][]types.ProfileDocument)
	for _, doc := range documents {
		byRequirement[doc.RequirementID] = append(byRequirement[doc.RequirementID], doc)
	}

	payload := make([]types.BackendDocument, 0, len(requirements))
	for _, requirement := range requirements {
		payload = append(payload, s.backendDocument(r, requirement, byRequirement[requirement.ID]))
	}

	s.respondJSON(w, http.StatusOK, payload)
}

// backendDocument merges a requirement definition with the user's uploads
// into the wire shape
func (s *Service) backendDocument(r *http.Request, requirement *types.RequirementDefinition, documents []types.ProfileDocument) types.BackendDocument {
	uploaded := make([]types.BackendUploadedDocument, 0, len(documents))
	for _, doc := range documents {
		uploaded = append(uploaded, s.backendUploadedDocument(r, doc))
	}

	description := ""
	if requirement.Description != nil {
		description = *requirement.Description
	}

	return types.BackendDocument{
		ID:                 requirement.ID,
		Name:               requirement.Label,
		Description:        description,
		Code:               requirement.Code,
		Category:           requirement.Category,
		AcceptedFileTypes:  requirement.AcceptedFileTypes,
		MaxFileSizeMB:      requirement.MaxFileSizeMB,
		AllowMultipleFiles: requirement.AllowMultipleFiles,
		MaxFilesCount:      requirement.MaxFilesCount,
		UserDocumentStatus: string(aggregateStatus(documents)),
		UploadedDocuments:  uploaded,
	}
}

func (s *Service) backendUploadedDocument(r *http.Request, doc types.ProfileDocument) types.BackendUploadedDocument {
	out := types.BackendUploadedDocument{
		ID:               doc.ID,
		OriginalFilename: doc.FileName,
		FileSize:         doc.FileSizeBytes,
		ExpiryDate:       doc.ExpiryDate,
		Status:           string(doc.Status),
		CreatedAt:        doc.UploadedAt,
	}
	if doc.CustomName != nil {
		out.Name = *doc.CustomName
	}
	if doc.Description != nil {
		out.Description = *doc.Description
	}
	if doc.AdminNotes != nil {
		out.AdminNotes = *doc.AdminNotes
	}

	url, err := s.objectStorage.PresignDownload(r.Context(), doc.StorageKey, s.presignExpiry())
	if err != nil {
		s.logger.WithError(err).WithField("document_id", doc.ID).Warn("failed to presign document url")
	} else {
		out.FileURL = url
	}

	return out
}

// aggregateStatus derives a requirement's review state from its files.
// Rejection surfaces ahead of anything still in review.
func aggregateStatus(documents []types.ProfileDocument) types.DocumentStatus {
	if len(documents) == 0 {
		return types.DocumentStatusNotSubmitted
	}

	status := types.DocumentStatusApproved
	for _, doc := range documents {
		switch doc.Status {
		case types.DocumentStatusRejected:
			return types.DocumentStatusRejected
		case types.DocumentStatusPending:
			status = types.DocumentStatusPending
		}
	}

	return status
}

func (s *Service) handleUploadDocumentFile(w http.ResponseWriter, r *http.Request) {
	role, err := s.roleFromPath(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	requirement, err := s.requirementRepo.Requirement(r.Context(), flow.Param(r.Context(), "docID"))
	if err != nil {
		if errors.Is(err, types.ErrRequirementNotFound) {
			s.respondError(w, http.StatusNotFound, "unknown document requirement")
			return
		}
		s.logger.WithError(err).Error("failed to fetch requirement")
		s.internalServerError(w)
		return
	}

	maxBytes := int64(s.config.MaxUploadSizeMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	err = r.ParseMultipartForm(maxBytes)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, "file field is required")
		return
	}
	defer file.Close()

	if err := validateFile(requirement, header.Filename, header.Size); err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	existing, err := s.documentRepo.DocumentsByRequirement(r.Context(), requirement.ID, userID)
	if err != nil {
		s.logger.WithError(err).Error("failed to count uploaded documents")
		s.internalServerError(w)
		return
	}

	maxFiles := 1
	if requirement.AllowMultipleFiles && requirement.MaxFilesCount > 1 {
		maxFiles = requirement.MaxFilesCount
	}
	if len(existing) >= maxFiles {
		s.respondError(w, http.StatusUnprocessableEntity,
			fmt.Sprintf("requirement allows at most %d file(s)", maxFiles))
		return
	}

	var meta types.FileMetadata
	err = decoder.Decode(&meta, r.MultipartForm.Value)
	if err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, "invalid file metadata")
		return
	}

	doc := &types.ProfileDocument{
		ID:            utils.NanoID(),
		RequirementID: requirement.ID,
		UserID:        userID,
		Role:          role,
		FileName:      header.Filename,
		CustomName:    meta.CustomName,
		Description:   meta.Description,
		FileSizeBytes: header.Size,
		MimeType:      header.Header.Get("Content-Type"),
		Status:        types.DocumentStatusPending,
		ExpiryDate:    meta.ExpiryDate,
	}
	doc.StorageKey = fmt.Sprintf("%s/%s/%s/%s-%s", userID, role, requirement.ID, doc.ID, header.Filename)

	_, err = s.objectStorage.UploadFile(r.Context(), doc.StorageKey, file, doc.MimeType)
	if err != nil {
		s.logger.WithError(err).Error("failed to store uploaded file")
		s.internalServerError(w)
		return
	}

	err = s.documentRepo.CreateDocument(r.Context(), doc)
	if err != nil {
		s.logger.WithError(err).Error("failed to persist uploaded document")
		s.internalServerError(w)
		return
	}

	s.respondJSON(w, http.StatusCreated, types.UploadResult{
		File:    uploadedFileFromDocument(doc),
		Message: "file uploaded",
	})
}

func uploadedFileFromDocument(doc *types.ProfileDocument) types.UploadedFile {
	out := types.UploadedFile{
		ID:         doc.ID,
		FileName:   doc.FileName,
		UploadedAt: doc.UploadedAt,
		ExpiryDate: doc.ExpiryDate,
		Status:     doc.Status,
		Size:       doc.FileSizeBytes,
	}
	if doc.CustomName != nil {
		out.CustomName = *doc.CustomName
	}
	if doc.Description != nil {
		out.Description = *doc.Description
	}
	return out
}

// validateFile checks extension and size against the requirement definition
func validateFile(requirement *types.RequirementDefinition, fileName string, size int64) error {
	if requirement.MaxFileSizeMB > 0 && size > int64(requirement.MaxFileSizeMB)<<20 {
		return fmt.Errorf("file exceeds the %dMB limit", requirement.MaxFileSizeMB)
	}

	if len(requirement.AcceptedFileTypes) == 0 {
		return nil
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	for _, accepted := range requirement.AcceptedFileTypes {
		if strings.EqualFold(strings.TrimPrefix(accepted, "."), strings.TrimPrefix(ext, ".")) {
			return nil
		}
	}

	return fmt.Errorf("file type %s is not accepted for this requirement", ext)
}

func (s *Service) handleUpdateDocumentFile(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.ownedDocument(w, r)
	if !ok {
		return
	}

	err := r.ParseForm()
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid form body")
		return
	}

	var meta types.FileMetadata
	err = decoder.Decode(&meta, r.PostForm)
	if err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, "invalid file metadata")
		return
	}

	err = s.documentRepo.UpdateDocumentMetadata(r.Context(), doc.ID, meta.CustomName, meta.Description, meta.ExpiryDate)
	if err != nil {
		s.logger.WithError(err).Error("failed to update document metadata")
		s.internalServerError(w)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Service) handleRemoveDocumentFile(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.ownedDocument(w, r)
	if !ok {
		return
	}

	requirement, err := s.requirementRepo.Requirement(r.Context(), doc.RequirementID)
	if err == nil && requirement.Category == types.BackendDocumentCategoryMandatory && doc.Status == types.DocumentStatusApproved {
		s.respondError(w, http.StatusForbidden, "approved mandatory documents cannot be removed")
		return
	}

	err = s.objectStorage.DeleteFile(r.Context(), doc.StorageKey)
	if err != nil {
		s.logger.WithError(err).WithField("document_id", doc.ID).Error("failed to delete stored file")
		s.internalServerError(w)
		return
	}

	err = s.documentRepo.DeleteDocument(r.Context(), doc.ID)
	if err != nil {
		s.logger.WithError(err).Error("failed to delete document record")
		s.internalServerError(w)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func (s *Service) handleDownloadDocumentFile(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.ownedDocument(w, r)
	if !ok {
		return
	}

	url, err := s.objectStorage.PresignDownload(r.Context(), doc.StorageKey, s.presignExpiry())
	if err != nil {
		s.logger.WithError(err).Error("failed to presign download url")
		s.internalServerError(w)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (s *Service) handleSubmitDocuments(w http.ResponseWriter, r *http.Request) {
	role, err := s.roleFromPath(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	completed, total, err := s.mandatoryCompletion(r, role, userID)
	if err != nil {
		s.logger.WithError(err).Error("failed to compute mandatory completion")
		s.internalServerError(w)
		return
	}
	if completed < total {
		s.respondError(w, http.StatusUnprocessableEntity,
			fmt.Sprintf("%d of %d mandatory documents uploaded", completed, total))
		return
	}

	approved, err := s.documentRepo.ApprovePendingDocuments(r.Context(), role, userID)
	if err != nil {
		s.logger.WithError(err).Error("failed to approve pending documents")
		s.internalServerError(w)
		return
	}

	err = s.userRepo.MarkSubmitted(r.Context(), userID)
	if err != nil {
		s.logger.WithError(err).Error("failed to mark profile submitted")
		s.internalServerError(w)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"status":         "submitted",
		"approved_count": approved,
	})
}

func (s *Service) handleCompletionStatus(w http.ResponseWriter, r *http.Request) {
	role, err := s.roleFromPath(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	completed, total, err := s.mandatoryCompletion(r, role, userID)
	if err != nil {
		s.logger.WithError(err).Error("failed to compute mandatory completion")
		s.internalServerError(w)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]int{
		"completed": completed,
		"total":     total,
	})
}

// mandatoryCompletion counts mandatory requirements with at least one
// non-rejected upload
func (s *Service) mandatoryCompletion(r *http.Request, role types.Role, userID string) (int, int, error) {
	requirements, err := s.requirementRepo.RequirementsByRole(r.Context(), role)
	if err != nil {
		return 0, 0, err
	}

	documents, err := s.documentRepo.DocumentsByRoleAndUser(r.Context(), role, userID)
	if err != nil {
		return 0, 0, err
	}

	live := make(map[string]int)
	for _, doc := range documents {
		if doc.Status != types.DocumentStatusRejected {
			live[doc.RequirementID]++
		}
	}

	completed, total := 0, 0
	for _, requirement := range requirements {
		if requirement.Category != types.BackendDocumentCategoryMandatory {
			continue
		}
		total++
		if live[requirement.ID] > 0 {
			completed++
		}
	}

	return completed, total, nil
}

// ownedDocument loads the :fileID document and enforces that it belongs to
// the caller and to the :docID requirement in the path
func (s *Service) ownedDocument(w http.ResponseWriter, r *http.Request) (*types.ProfileDocument, bool) {
	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "authentication required")
		return nil, false
	}

	doc, err := s.documentRepo.Document(r.Context(), flow.Param(r.Context(), "fileID"))
	if err != nil {
		if errors.Is(err, types.ErrDocumentNotFound) {
			s.respondError(w, http.StatusNotFound, "uploaded document not found")
			return nil, false
		}
		s.logger.WithError(err).Error("failed to fetch document")
		s.internalServerError(w)
		return nil, false
	}

	if doc.UserID != userID || doc.RequirementID != flow.Param(r.Context(), "docID") {
		s.respondError(w, http.StatusNotFound, "uploaded document not found")
		return nil, false
	}

	return doc, true
}

func (s *Service) presignExpiry() time.Duration {
	return time.Duration(s.config.S3PresignExpirySec) * time.Second
}
