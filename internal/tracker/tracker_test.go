package tracker

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"binaahub/internal/docservice"
	"binaahub/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockService struct {
	mu          sync.Mutex
	fetchCalls  int
	submitCalls int

	fetchFn    func(ctx context.Context, role types.Role) ([]types.BackendDocument, error)
	uploadFn   func(ctx context.Context, role types.Role, docID string, file types.FilePayload, meta *types.FileMetadata) (*types.UploadResult, error)
	removeFn   func(ctx context.Context, role types.Role, docID, fileID string) error
	downloadFn func(ctx context.Context, role types.Role, docID, fileID string) (string, error)
	submitFn   func(ctx context.Context, role types.Role) error
}

func (m *mockService) FetchDocuments(ctx context.Context, role types.Role) ([]types.BackendDocument, error) {
	m.mu.Lock()
	m.fetchCalls++
	m.mu.Unlock()
	if m.fetchFn != nil {
		return m.fetchFn(ctx, role)
	}
	return nil, nil
}

func (m *mockService) UploadFile(ctx context.Context, role types.Role, docID string, file types.FilePayload, meta *types.FileMetadata) (*types.UploadResult, error) {
	if m.uploadFn != nil {
		return m.uploadFn(ctx, role, docID, file, meta)
	}
	return &types.UploadResult{
		File: types.UploadedFile{
			ID:       "srv-" + file.Name,
			FileName: file.Name,
			Status:   types.DocumentStatusPending,
			Size:     file.Size,
		},
	}, nil
}

func (m *mockService) RemoveFile(ctx context.Context, role types.Role, docID, fileID string) error {
	if m.removeFn != nil {
		return m.removeFn(ctx, role, docID, fileID)
	}
	return nil
}

func (m *mockService) DownloadFile(ctx context.Context, role types.Role, docID, fileID string) (string, error) {
	if m.downloadFn != nil {
		return m.downloadFn(ctx, role, docID, fileID)
	}
	return "", nil
}

func (m *mockService) SubmitDocuments(ctx context.Context, role types.Role) error {
	m.mu.Lock()
	m.submitCalls++
	m.mu.Unlock()
	if m.submitFn != nil {
		return m.submitFn(ctx, role)
	}
	return nil
}

func (m *mockService) counts() (fetch, submit int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetchCalls, m.submitCalls
}

func newTestTracker(svc DocumentService) *Tracker {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	t := New(svc, logger)
	t.fetchDelay = time.Millisecond
	t.submitDelay = time.Millisecond
	t.successDisplay = 10 * time.Millisecond
	return t
}

func seedRequirement(t *Tracker, role types.Role, req *types.DocumentRequirement) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.roleDocuments[role] = append(t.roleDocuments[role], req)
}

func backendDoc(id string) types.BackendDocument {
	return types.BackendDocument{
		ID:            id,
		Name:          "Commercial Registration",
		Category:      types.BackendDocumentCategoryMandatory,
		MaxFileSizeMB: 10,
		MaxFilesCount: 1,
	}
}

func TestFetchDocumentsCachesLoadedRoles(t *testing.T) {
	svc := &mockService{
		fetchFn: func(ctx context.Context, role types.Role) ([]types.BackendDocument, error) {
			return []types.BackendDocument{backendDoc("doc-1")}, nil
		},
	}
	tr := newTestTracker(svc)

	tr.FetchDocuments(context.Background(), types.RoleContractor, false)
	tr.FetchDocuments(context.Background(), types.RoleContractor, false)

	fetches, _ := svc.counts()
	assert.Equal(t, 1, fetches)
	assert.Len(t, tr.Documents(types.RoleContractor), 1)
}

func TestFetchDocumentsForceRefreshBypassesCache(t *testing.T) {
	svc := &mockService{
		fetchFn: func(ctx context.Context, role types.Role) ([]types.BackendDocument, error) {
			return []types.BackendDocument{backendDoc("doc-1")}, nil
		},
	}
	tr := newTestTracker(svc)

	tr.FetchDocuments(context.Background(), types.RoleContractor, false)
	tr.FetchDocuments(context.Background(), types.RoleContractor, true)

	fetches, _ := svc.counts()
	assert.Equal(t, 2, fetches)
}

func TestFetchDocumentsRetriesThenSucceeds(t *testing.T) {
	attempt := 0
	svc := &mockService{}
	svc.fetchFn = func(ctx context.Context, role types.Role) ([]types.BackendDocument, error) {
		attempt++
		if attempt < 3 {
			return nil, &docservice.NetworkError{Message: "connection refused"}
		}
		return []types.BackendDocument{backendDoc("doc-1")}, nil
	}
	tr := newTestTracker(svc)

	tr.FetchDocuments(context.Background(), types.RoleSupplier, false)

	fetches, _ := svc.counts()
	assert.Equal(t, 3, fetches)
	assert.Empty(t, tr.RoleError(types.RoleSupplier))
	assert.Len(t, tr.Documents(types.RoleSupplier), 1)
	assert.Equal(t, types.NetworkOnline, tr.NetworkStatus(types.RoleSupplier))
}

func TestFetchDocumentsNetworkFailureFlagsOffline(t *testing.T) {
	svc := &mockService{
		fetchFn: func(ctx context.Context, role types.Role) ([]types.BackendDocument, error) {
			return nil, &docservice.NetworkError{Message: "connection refused"}
		},
	}
	tr := newTestTracker(svc)

	tr.FetchDocuments(context.Background(), types.RoleIndividual, false)

	fetches, _ := svc.counts()
	assert.Equal(t, 3, fetches)
	assert.Equal(t, "Network Error: connection refused", tr.RoleError(types.RoleIndividual))
	assert.Equal(t, types.NetworkOffline, tr.NetworkStatus(types.RoleIndividual))
	assert.False(t, tr.IsLoading(types.RoleIndividual))
}

func TestFetchDocumentsAPIFailureStaysOnline(t *testing.T) {
	svc := &mockService{
		fetchFn: func(ctx context.Context, role types.Role) ([]types.BackendDocument, error) {
			return nil, &docservice.APIError{Status: 500, Message: "boom"}
		},
	}
	tr := newTestTracker(svc)

	tr.FetchDocuments(context.Background(), types.RoleIndividual, false)

	assert.Equal(t, "boom (Status: 500)", tr.RoleError(types.RoleIndividual))
	assert.Equal(t, types.NetworkOnline, tr.NetworkStatus(types.RoleIndividual))
}

func TestUploadFileAppendsAndResetsStatus(t *testing.T) {
	svc := &mockService{}
	tr := newTestTracker(svc)
	seedRequirement(tr, types.RoleContractor, &types.DocumentRequirement{
		ID:        "doc-1",
		Label:     "Commercial Registration",
		Mandatory: true,
		MaxFiles:  3,
		Status:    types.DocumentStatusApproved,
		UploadedFiles: []types.UploadedFile{
			{ID: "existing", FileName: "old.pdf"},
		},
	})

	fileID, err := tr.UploadFile(context.Background(), types.RoleContractor, "doc-1",
		types.FilePayload{Name: "license.pdf", Size: 128, Reader: strings.NewReader("pdf")}, nil)
	require.NoError(t, err)
	require.NotEmpty(t, fileID)

	req, ok := tr.DocumentRequirement(types.RoleContractor, "doc-1")
	require.True(t, ok)
	assert.Len(t, req.UploadedFiles, 2)
	assert.Equal(t, types.DocumentStatusPending, req.Status)

	status, ok := tr.UploadStatus(fileID)
	require.True(t, ok)
	assert.Equal(t, types.UploadStateSuccess, status.Status)
	assert.Equal(t, 100, status.Progress)
	assert.False(t, tr.IsUploading(fileID))
}

func TestUploadSuccessStatusExpires(t *testing.T) {
	svc := &mockService{}
	tr := newTestTracker(svc)
	seedRequirement(tr, types.RoleContractor, &types.DocumentRequirement{ID: "doc-1"})

	fileID, err := tr.UploadFile(context.Background(), types.RoleContractor, "doc-1",
		types.FilePayload{Name: "license.pdf", Reader: strings.NewReader("pdf")}, nil)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		_, ok := tr.UploadStatus(fileID)
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestUploadFileRecordsErrorAndReturnsIt(t *testing.T) {
	svc := &mockService{
		uploadFn: func(ctx context.Context, role types.Role, docID string, file types.FilePayload, meta *types.FileMetadata) (*types.UploadResult, error) {
			return nil, &docservice.ValidationError{Message: "file too large"}
		},
	}
	tr := newTestTracker(svc)
	seedRequirement(tr, types.RoleSupplier, &types.DocumentRequirement{ID: "doc-1"})

	fileID, err := tr.UploadFile(context.Background(), types.RoleSupplier, "doc-1",
		types.FilePayload{Name: "huge.pdf", Reader: strings.NewReader("pdf")}, nil)
	require.Error(t, err)

	fileErr, ok := tr.FileError(fileID)
	require.True(t, ok)
	assert.Equal(t, "Validation Error: file too large", fileErr.Error)
	assert.Equal(t, 1, fileErr.RetryCount)

	status, ok := tr.UploadStatus(fileID)
	require.True(t, ok)
	assert.Equal(t, types.UploadStateError, status.Status)
	assert.Equal(t, "Validation Error: file too large", status.Error)

	req, _ := tr.DocumentRequirement(types.RoleSupplier, "doc-1")
	assert.Empty(t, req.UploadedFiles)
}

func TestRetryUploadIncrementsRetryCount(t *testing.T) {
	svc := &mockService{
		uploadFn: func(ctx context.Context, role types.Role, docID string, file types.FilePayload, meta *types.FileMetadata) (*types.UploadResult, error) {
			return nil, &docservice.APIError{Status: 502, Message: "bad gateway"}
		},
	}
	tr := newTestTracker(svc)
	seedRequirement(tr, types.RoleSupplier, &types.DocumentRequirement{ID: "doc-1"})

	fileID, err := tr.UploadFile(context.Background(), types.RoleSupplier, "doc-1",
		types.FilePayload{Name: "cert.pdf", Reader: strings.NewReader("pdf")}, nil)
	require.Error(t, err)

	err = tr.RetryUpload(context.Background(), types.RoleSupplier, "doc-1", fileID,
		types.FilePayload{Name: "cert.pdf", Reader: strings.NewReader("pdf")}, nil)
	require.Error(t, err)

	fileErr, ok := tr.FileError(fileID)
	require.True(t, ok)
	assert.Equal(t, 2, fileErr.RetryCount)
}

func TestCancelUploadLeavesNoTrace(t *testing.T) {
	started := make(chan string, 1)
	svc := &mockService{
		uploadFn: func(ctx context.Context, role types.Role, docID string, file types.FilePayload, meta *types.FileMetadata) (*types.UploadResult, error) {
			started <- file.Name
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	tr := newTestTracker(svc)
	seedRequirement(tr, types.RoleContractor, &types.DocumentRequirement{ID: "doc-1"})

	done := make(chan error, 1)
	go func() {
		_, err := tr.UploadFile(context.Background(), types.RoleContractor, "doc-1",
			types.FilePayload{Name: "slow.pdf", Reader: strings.NewReader("pdf")}, nil)
		done <- err
	}()

	<-started
	statuses := tr.UploadStatuses()
	require.Len(t, statuses, 1)
	fileID := statuses[0].FileID

	tr.CancelUpload(fileID)
	require.NoError(t, <-done)

	_, hasStatus := tr.UploadStatus(fileID)
	assert.False(t, hasStatus)
	_, hasError := tr.FileError(fileID)
	assert.False(t, hasError)
	assert.False(t, tr.IsUploading(fileID))

	tr.mu.Lock()
	_, hasController := tr.controllers[fileID]
	tr.mu.Unlock()
	assert.False(t, hasController)
}

func TestCancelUploadUnknownFileIsNoop(t *testing.T) {
	tr := newTestTracker(&mockService{})
	tr.CancelUpload("no-such-file")
	assert.Empty(t, tr.UploadStatuses())
}

func TestUploadBatchIsolatesFailures(t *testing.T) {
	svc := &mockService{
		uploadFn: func(ctx context.Context, role types.Role, docID string, file types.FilePayload, meta *types.FileMetadata) (*types.UploadResult, error) {
			if file.Name == "two.pdf" {
				return nil, &docservice.APIError{Status: 500, Message: "storage write failed"}
			}
			return &types.UploadResult{
				File: types.UploadedFile{ID: "srv-" + file.Name, FileName: file.Name},
			}, nil
		},
	}
	tr := newTestTracker(svc)
	seedRequirement(tr, types.RoleContractor, &types.DocumentRequirement{ID: "doc-1", MaxFiles: 5})

	fileIDs := tr.UploadBatch(context.Background(), types.RoleContractor, "doc-1", []types.FilePayload{
		{Name: "one.pdf", Reader: strings.NewReader("1")},
		{Name: "two.pdf", Reader: strings.NewReader("2")},
		{Name: "three.pdf", Reader: strings.NewReader("3")},
	})
	require.Len(t, fileIDs, 3)

	req, _ := tr.DocumentRequirement(types.RoleContractor, "doc-1")
	names := make([]string, 0, len(req.UploadedFiles))
	for _, f := range req.UploadedFiles {
		names = append(names, f.FileName)
	}
	assert.ElementsMatch(t, []string{"one.pdf", "three.pdf"}, names)

	_, failedRecorded := tr.FileError(fileIDs[1])
	assert.True(t, failedRecorded)
	_, okRecorded := tr.FileError(fileIDs[0])
	assert.False(t, okRecorded)
}

func TestCanAddAndRemoveFilesBoundaries(t *testing.T) {
	cases := []struct {
		name      string
		mandatory bool
		status    types.DocumentStatus
		canAdd    bool
		canRemove bool
	}{
		{"mandatory approved", true, types.DocumentStatusApproved, false, false},
		{"mandatory pending", true, types.DocumentStatusPending, true, true},
		{"optional approved", false, types.DocumentStatusApproved, false, true},
		{"optional rejected", false, types.DocumentStatusRejected, true, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tr := newTestTracker(&mockService{})
			seedRequirement(tr, types.RoleIndividual, &types.DocumentRequirement{
				ID:        "doc-1",
				Mandatory: tc.mandatory,
				Status:    tc.status,
			})

			assert.Equal(t, tc.canAdd, tr.CanAddFiles(types.RoleIndividual, "doc-1"))
			assert.Equal(t, tc.canRemove, tr.CanRemoveFiles(types.RoleIndividual, "doc-1"))
		})
	}
}

func TestCanAddFilesUnknownRequirement(t *testing.T) {
	tr := newTestTracker(&mockService{})
	assert.True(t, tr.CanAddFiles(types.RoleIndividual, "missing"))
	assert.True(t, tr.CanRemoveFiles(types.RoleIndividual, "missing"))
}

func TestMandatoryCompletionStatus(t *testing.T) {
	tr := newTestTracker(&mockService{})
	uploaded := []types.UploadedFile{{ID: "f1", FileName: "a.pdf"}}

	seedRequirement(tr, types.RoleEngineeringOffice, &types.DocumentRequirement{ID: "m1", Mandatory: true, UploadedFiles: uploaded})
	seedRequirement(tr, types.RoleEngineeringOffice, &types.DocumentRequirement{ID: "m2", Mandatory: true, UploadedFiles: uploaded})
	seedRequirement(tr, types.RoleEngineeringOffice, &types.DocumentRequirement{ID: "m3", Mandatory: true})
	seedRequirement(tr, types.RoleEngineeringOffice, &types.DocumentRequirement{ID: "o1", UploadedFiles: uploaded})
	seedRequirement(tr, types.RoleEngineeringOffice, &types.DocumentRequirement{ID: "o2", UploadedFiles: uploaded})

	completed, total := tr.MandatoryCompletionStatus(types.RoleEngineeringOffice)
	assert.Equal(t, 2, completed)
	assert.Equal(t, 3, total)
	assert.Equal(t, 4, tr.UploadedFilesCount(types.RoleEngineeringOffice))
}

func TestRemoveFileClearsStatusWhenEmpty(t *testing.T) {
	tr := newTestTracker(&mockService{})
	seedRequirement(tr, types.RoleContractor, &types.DocumentRequirement{
		ID:            "doc-1",
		Status:        types.DocumentStatusPending,
		UploadedFiles: []types.UploadedFile{{ID: "f1", FileName: "a.pdf"}},
	})

	err := tr.RemoveFile(context.Background(), types.RoleContractor, "doc-1", "f1")
	require.NoError(t, err)

	req, _ := tr.DocumentRequirement(types.RoleContractor, "doc-1")
	assert.Empty(t, req.UploadedFiles)
	assert.Empty(t, string(req.Status))
}

func TestRemoveFileRemoteFailureKeepsLocalState(t *testing.T) {
	svc := &mockService{
		removeFn: func(ctx context.Context, role types.Role, docID, fileID string) error {
			return &docservice.APIError{Status: 403, Message: "forbidden"}
		},
	}
	tr := newTestTracker(svc)
	seedRequirement(tr, types.RoleContractor, &types.DocumentRequirement{
		ID:            "doc-1",
		UploadedFiles: []types.UploadedFile{{ID: "f1", FileName: "a.pdf"}},
	})

	err := tr.RemoveFile(context.Background(), types.RoleContractor, "doc-1", "f1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "forbidden (Status: 403)")

	req, _ := tr.DocumentRequirement(types.RoleContractor, "doc-1")
	assert.Len(t, req.UploadedFiles, 1)
}

func TestDownloadFileFallsBackToLocalURL(t *testing.T) {
	svc := &mockService{
		downloadFn: func(ctx context.Context, role types.Role, docID, fileID string) (string, error) {
			return "", &docservice.NetworkError{Message: "connection refused"}
		},
	}
	tr := newTestTracker(svc)
	seedRequirement(tr, types.RoleContractor, &types.DocumentRequirement{
		ID:            "doc-1",
		UploadedFiles: []types.UploadedFile{{ID: "f1", FileURL: "https://cdn.example.com/f1.pdf"}},
	})

	url, err := tr.DownloadFile(context.Background(), types.RoleContractor, "doc-1", "f1")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/f1.pdf", url)

	_, err = tr.DownloadFile(context.Background(), types.RoleContractor, "doc-1", "missing")
	require.Error(t, err)
}

func TestUpdateFileMetadataPartialOverwrite(t *testing.T) {
	tr := newTestTracker(&mockService{})
	seedRequirement(tr, types.RoleSupplier, &types.DocumentRequirement{
		ID: "doc-1",
		UploadedFiles: []types.UploadedFile{
			{ID: "f1", CustomName: "old name", Description: "old description"},
		},
	})

	name := "new name"
	tr.UpdateFileMetadata(types.RoleSupplier, "doc-1", "f1", types.FileMetadata{CustomName: &name})

	req, _ := tr.DocumentRequirement(types.RoleSupplier, "doc-1")
	assert.Equal(t, "new name", req.UploadedFiles[0].CustomName)
	assert.Equal(t, "old description", req.UploadedFiles[0].Description)
}

func TestSubmitDocumentsFlipsPendingToApproved(t *testing.T) {
	svc := &mockService{}
	tr := newTestTracker(svc)
	seedRequirement(tr, types.RoleContractor, &types.DocumentRequirement{ID: "d1", Status: types.DocumentStatusPending})
	seedRequirement(tr, types.RoleContractor, &types.DocumentRequirement{ID: "d2", Status: types.DocumentStatusRejected})

	tr.SubmitDocuments(context.Background(), types.RoleContractor)

	req1, _ := tr.DocumentRequirement(types.RoleContractor, "d1")
	req2, _ := tr.DocumentRequirement(types.RoleContractor, "d2")
	assert.Equal(t, types.DocumentStatusApproved, req1.Status)
	assert.Equal(t, types.DocumentStatusRejected, req2.Status)
	assert.True(t, tr.SubmitSuccess(types.RoleContractor))
	assert.False(t, tr.IsSubmitting(types.RoleContractor))

	tr.ClearSubmitSuccess(types.RoleContractor)
	assert.False(t, tr.SubmitSuccess(types.RoleContractor))
}

func TestSubmitDocumentsRetriesThenRecordsError(t *testing.T) {
	svc := &mockService{
		submitFn: func(ctx context.Context, role types.Role) error {
			return &docservice.APIError{Status: 500, Message: "submit failed"}
		},
	}
	tr := newTestTracker(svc)

	tr.SubmitDocuments(context.Background(), types.RoleSupplier)

	_, submits := svc.counts()
	assert.Equal(t, 2, submits)
	assert.Equal(t, "submit failed (Status: 500)", tr.RoleError(types.RoleSupplier))
	assert.False(t, tr.SubmitSuccess(types.RoleSupplier))
	assert.False(t, tr.IsSubmitting(types.RoleSupplier))
}
