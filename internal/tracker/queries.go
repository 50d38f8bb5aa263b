package tracker

import (
	"sort"

	"binaahub/pkg/types"
)

// Documents returns a snapshot of the role's requirements.
func (t *Tracker) Documents(role types.Role) []types.DocumentRequirement {
	t.mu.Lock()
	defer t.mu.Unlock()

	reqs := t.roleDocuments[role]
	out := make([]types.DocumentRequirement, 0, len(reqs))
	for _, req := range reqs {
		out = append(out, copyRequirement(req))
	}
	return out
}

// DocumentRequirement looks up one requirement by id, returning a snapshot.
func (t *Tracker) DocumentRequirement(role types.Role, docID string) (types.DocumentRequirement, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	req := t.findRequirementLocked(role, docID)
	if req == nil {
		return types.DocumentRequirement{}, false
	}
	return copyRequirement(req), true
}

// UploadedFilesCount sums uploaded files across all of the role's
// requirements.
func (t *Tracker) UploadedFilesCount(role types.Role) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	count := 0
	for _, req := range t.roleDocuments[role] {
		count += len(req.UploadedFiles)
	}
	return count
}

// MandatoryCompletionStatus counts mandatory requirements that carry at
// least one uploaded file against the mandatory total.
func (t *Tracker) MandatoryCompletionStatus(role types.Role) (completed, total int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, req := range t.roleDocuments[role] {
		if !req.Mandatory {
			continue
		}
		total++
		if len(req.UploadedFiles) > 0 {
			completed++
		}
	}
	return completed, total
}

// CanAddFiles reports whether new files may be attached. Approved documents
// are locked against further additions; an unknown docID returns true and
// existence stays the caller's check.
func (t *Tracker) CanAddFiles(role types.Role, docID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	req := t.findRequirementLocked(role, docID)
	if req == nil {
		return true
	}
	return req.Status != types.DocumentStatusApproved
}

// CanRemoveFiles reports whether files may be detached. Only evidence that
// is both mandatory and already approved is protected from deletion.
func (t *Tracker) CanRemoveFiles(role types.Role, docID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	req := t.findRequirementLocked(role, docID)
	if req == nil {
		return true
	}
	return !(req.Mandatory && req.Status == types.DocumentStatusApproved)
}

// IsLoading reports whether a fetch is in flight for the role.
func (t *Tracker) IsLoading(role types.Role) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loading[role]
}

// IsSubmitting reports whether a submission is in flight for the role.
func (t *Tracker) IsSubmitting(role types.Role) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.submitting[role]
}

// SubmitSuccess reports whether the role's last submission succeeded.
func (t *Tracker) SubmitSuccess(role types.Role) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.submitSuccess[role]
}

// RoleError returns the role-level error string, empty when healthy.
func (t *Tracker) RoleError(role types.Role) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.roleErrors[role]
}

// NetworkStatus returns the role's connectivity flag.
func (t *Tracker) NetworkStatus(role types.Role) types.NetworkStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	if status, ok := t.network[role]; ok {
		return status
	}
	return types.NetworkOnline
}

// IsUploading reports whether the attempt is still in flight.
func (t *Tracker) IsUploading(fileID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.uploading[fileID]
}

// UploadStatus returns the tracked status for one attempt.
func (t *Tracker) UploadStatus(fileID string) (types.FileUploadStatus, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	status, ok := t.statuses[fileID]
	if !ok {
		return types.FileUploadStatus{}, false
	}
	return *status, true
}

// UploadStatuses returns every tracked attempt, oldest first.
func (t *Tracker) UploadStatuses() []types.FileUploadStatus {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]types.FileUploadStatus, 0, len(t.statuses))
	for _, status := range t.statuses {
		out = append(out, *status)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

// FileError returns the recorded error for one attempt.
func (t *Tracker) FileError(fileID string) (types.FileError, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	fileErr, ok := t.fileErrors[fileID]
	if !ok {
		return types.FileError{}, false
	}
	return *fileErr, true
}

func copyRequirement(req *types.DocumentRequirement) types.DocumentRequirement {
	out := *req
	out.AcceptTypes = append([]string(nil), req.AcceptTypes...)
	out.UploadedFiles = append([]types.UploadedFile(nil), req.UploadedFiles...)
	return out
}
