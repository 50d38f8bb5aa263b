package tracker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"binaahub/internal/docservice"
	"binaahub/pkg/types"
)

// UploadFile runs one tracked upload attempt and blocks until it settles.
// It returns the generated fileId together with the outcome: upload errors
// are recorded in the store AND returned so callers can react inline, while
// cancellations settle silently with a nil error.
//
// Count, size, and type limits are the caller's responsibility (see
// CanAddFiles); the tracker only reflects service-side rejections.
func (t *Tracker) UploadFile(ctx context.Context, role types.Role, docID string, file types.FilePayload, meta *types.FileMetadata) (string, error) {
	fileID := newFileID(role, docID, file.Name)
	return fileID, t.uploadWithID(ctx, fileID, role, docID, file, meta)
}

// UploadBatch fans a multi-file input out into one concurrent upload per
// file with settle-all semantics: every attempt runs to completion no matter
// how its siblings fare, individual errors stay attached to their own
// fileId, and the batch itself never reports an aggregate failure.
func (t *Tracker) UploadBatch(ctx context.Context, role types.Role, docID string, files []types.FilePayload) []string {
	fileIDs := make([]string, len(files))

	var wg sync.WaitGroup
	for i, file := range files {
		fileIDs[i] = newFileID(role, docID, file.Name)

		wg.Add(1)
		go func(fileID string, file types.FilePayload) {
			defer wg.Done()
			_ = t.uploadWithID(ctx, fileID, role, docID, file, nil)
		}(fileIDs[i], file)
	}
	wg.Wait()

	return fileIDs
}

// RetryUpload re-runs a failed attempt under its original fileId so the
// retry count carries forward. The tracker does not retain file payloads, so
// the caller must re-supply the file.
func (t *Tracker) RetryUpload(ctx context.Context, role types.Role, docID, fileID string, file types.FilePayload, meta *types.FileMetadata) error {
	return t.uploadWithID(ctx, fileID, role, docID, file, meta)
}

// CancelUpload aborts an in-flight upload and synchronously removes every
// trace of it: controller, uploading flag, and status record. Unknown or
// already-settled fileIds are a no-op.
func (t *Tracker) CancelUpload(fileID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cancel, ok := t.controllers[fileID]
	if !ok {
		return
	}
	cancel()
	delete(t.controllers, fileID)
	delete(t.uploading, fileID)
	delete(t.statuses, fileID)
}

func (t *Tracker) uploadWithID(ctx context.Context, fileID string, role types.Role, docID string, file types.FilePayload, meta *types.FileMetadata) error {
	uploadCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	t.mu.Lock()
	prevRetries := 0
	if prior, ok := t.fileErrors[fileID]; ok {
		prevRetries = prior.RetryCount
	}
	delete(t.fileErrors, fileID)

	t.controllers[fileID] = cancel
	t.uploading[fileID] = true
	t.statuses[fileID] = &types.FileUploadStatus{
		FileID:    fileID,
		Status:    types.UploadStateUploading,
		Progress:  0,
		FileName:  file.Name,
		Role:      role,
		DocID:     docID,
		Timestamp: time.Now(),
	}
	t.mu.Unlock()

	result, err := t.svc.UploadFile(uploadCtx, role, docID, file, meta)

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, live := t.controllers[fileID]; !live {
		// Cancelled while in flight. CancelUpload already cleared the
		// bookkeeping; drop the outcome either way.
		return nil
	}
	delete(t.controllers, fileID)
	delete(t.uploading, fileID)

	if err != nil {
		if docservice.IsCancellation(err) {
			delete(t.statuses, fileID)
			return nil
		}

		message := docservice.FormatError(err)
		retries := prevRetries + 1
		t.fileErrors[fileID] = &types.FileError{
			Error:      message,
			Timestamp:  time.Now(),
			RetryCount: retries,
		}
		if status, ok := t.statuses[fileID]; ok {
			status.Status = types.UploadStateError
			status.Error = message
			status.RetryCount = retries
		}
		t.logger.WithError(err).WithField("file_id", fileID).Error("upload failed")
		return err
	}

	// New evidence always resets the requirement to pending review.
	if req := t.findRequirementLocked(role, docID); req != nil {
		req.UploadedFiles = append(req.UploadedFiles, result.File)
		req.Status = types.DocumentStatusPending
	}

	if status, ok := t.statuses[fileID]; ok {
		status.Status = types.UploadStateSuccess
		status.Progress = 100
	}
	t.scheduleSuccessClear(fileID)

	return nil
}

// scheduleSuccessClear expires the transient success banner so it does not
// linger. Statuses that changed state in the meantime are left alone.
func (t *Tracker) scheduleSuccessClear(fileID string) {
	time.AfterFunc(t.successDisplay, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if status, ok := t.statuses[fileID]; ok && status.Status == types.UploadStateSuccess {
			delete(t.statuses, fileID)
		}
	})
}

// ClearFileError removes the recorded error for a fileId.
func (t *Tracker) ClearFileError(fileID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.fileErrors, fileID)
	if status, ok := t.statuses[fileID]; ok && status.Status == types.UploadStateError {
		delete(t.statuses, fileID)
	}
}

// RemoveFile deletes a persisted file remotely and only then mutates local
// state; there is no optimistic removal. A requirement whose last file is
// removed loses its status entirely.
func (t *Tracker) RemoveFile(ctx context.Context, role types.Role, docID, fileID string) error {
	if err := t.svc.RemoveFile(ctx, role, docID, fileID); err != nil {
		return fmt.Errorf("failed to remove file: %s", docservice.FormatError(err))
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	req := t.findRequirementLocked(role, docID)
	if req == nil {
		return nil
	}

	kept := req.UploadedFiles[:0]
	for _, f := range req.UploadedFiles {
		if f.ID != fileID {
			kept = append(kept, f)
		}
	}
	req.UploadedFiles = kept
	if len(req.UploadedFiles) == 0 {
		req.Status = ""
	}

	return nil
}

// DownloadFile resolves a download URL, preferring the service and falling
// back to the locally-known fileUrl when the remote call fails.
func (t *Tracker) DownloadFile(ctx context.Context, role types.Role, docID, fileID string) (string, error) {
	url, err := t.svc.DownloadFile(ctx, role, docID, fileID)
	if err == nil && url != "" {
		return url, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if req := t.findRequirementLocked(role, docID); req != nil {
		for _, f := range req.UploadedFiles {
			if f.ID == fileID && f.FileURL != "" {
				return f.FileURL, nil
			}
		}
	}

	if err == nil {
		err = fmt.Errorf("no download url for file %s", fileID)
	}
	return "", fmt.Errorf("failed to resolve download url: %s", docservice.FormatError(err))
}

// UpdateFileMetadata overwrites the supplied metadata fields on the matching
// uploaded file. Pure local mutation: persisting the change is the caller's
// concern.
func (t *Tracker) UpdateFileMetadata(role types.Role, docID, fileID string, meta types.FileMetadata) {
	t.mu.Lock()
	defer t.mu.Unlock()

	req := t.findRequirementLocked(role, docID)
	if req == nil {
		return
	}

	for i := range req.UploadedFiles {
		if req.UploadedFiles[i].ID != fileID {
			continue
		}
		if meta.CustomName != nil {
			req.UploadedFiles[i].CustomName = *meta.CustomName
		}
		if meta.Description != nil {
			req.UploadedFiles[i].Description = *meta.Description
		}
		if meta.ExpiryDate != nil {
			req.UploadedFiles[i].ExpiryDate = meta.ExpiryDate
		}
		return
	}
}

// newFileID builds the composite upload-attempt key. The timestamp component
// keeps rapid re-uploads of the same file name distinct.
func newFileID(role types.Role, docID, fileName string) string {
	return fmt.Sprintf("%s-%s-%s-%d", role, docID, fileName, time.Now().UnixMilli())
}
