package tracker

import (
	"context"
	"sync"
	"time"

	"binaahub/internal/docservice"
	"binaahub/pkg/types"

	"github.com/sirupsen/logrus"
)

// DocumentService is the backend collaborator the tracker drives. The HTTP
// client in internal/docservice satisfies it.
type DocumentService interface {
	FetchDocuments(ctx context.Context, role types.Role) ([]types.BackendDocument, error)
	UploadFile(ctx context.Context, role types.Role, docID string, file types.FilePayload, meta *types.FileMetadata) (*types.UploadResult, error)
	RemoveFile(ctx context.Context, role types.Role, docID, fileID string) error
	DownloadFile(ctx context.Context, role types.Role, docID, fileID string) (string, error)
	SubmitDocuments(ctx context.Context, role types.Role) error
}

const (
	fetchAttempts     = 3
	fetchInitialDelay = time.Second

	submitAttempts     = 2
	submitInitialDelay = 2 * time.Second

	successDisplayFor = 3 * time.Second
)

// Tracker owns the full lifecycle of concurrent, cancellable, retryable file
// uploads for each role's document requirements. All maps are keyed so that
// one fileId correlates its status, error, and cancellation handle; all
// state is guarded by mu and mutated only through Tracker methods. Consumers
// read through the query methods and receive snapshots.
type Tracker struct {
	svc    DocumentService
	logger *logrus.Logger

	fetchDelay     time.Duration
	submitDelay    time.Duration
	successDisplay time.Duration

	mu            sync.Mutex
	roleDocuments map[types.Role][]*types.DocumentRequirement
	loading       map[types.Role]bool
	roleErrors    map[types.Role]string
	network       map[types.Role]types.NetworkStatus
	submitting    map[types.Role]bool
	submitSuccess map[types.Role]bool

	uploading   map[string]bool
	statuses    map[string]*types.FileUploadStatus
	fileErrors  map[string]*types.FileError
	controllers map[string]context.CancelFunc
}

func New(svc DocumentService, logger *logrus.Logger) *Tracker {
	return &Tracker{
		svc:    svc,
		logger: logger,

		fetchDelay:     fetchInitialDelay,
		submitDelay:    submitInitialDelay,
		successDisplay: successDisplayFor,

		roleDocuments: make(map[types.Role][]*types.DocumentRequirement),
		loading:       make(map[types.Role]bool),
		roleErrors:    make(map[types.Role]string),
		network:       make(map[types.Role]types.NetworkStatus),
		submitting:    make(map[types.Role]bool),
		submitSuccess: make(map[types.Role]bool),

		uploading:   make(map[string]bool),
		statuses:    make(map[string]*types.FileUploadStatus),
		fileErrors:  make(map[string]*types.FileError),
		controllers: make(map[string]context.CancelFunc),
	}
}

// FetchDocuments loads the role's requirement catalog. Already-loaded roles
// are a no-op unless forceRefresh is set. Failures are recorded in the
// role's error slot rather than returned; callers observe state through the
// query methods.
func (t *Tracker) FetchDocuments(ctx context.Context, role types.Role, forceRefresh bool) {
	t.mu.Lock()
	if t.loading[role] {
		t.mu.Unlock()
		return
	}
	if _, loaded := t.roleDocuments[role]; loaded && !forceRefresh {
		t.mu.Unlock()
		return
	}
	t.loading[role] = true
	delete(t.roleErrors, role)
	t.mu.Unlock()

	docs, err := docservice.WithRetry(ctx, fetchAttempts, t.fetchDelay, docservice.FixedBackoff,
		func(ctx context.Context) ([]types.BackendDocument, error) {
			return t.svc.FetchDocuments(ctx, role)
		})

	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.loading, role)

	if err != nil {
		t.roleErrors[role] = docservice.FormatError(err)
		if docservice.IsNetworkError(err) {
			t.network[role] = types.NetworkOffline
		} else {
			t.network[role] = types.NetworkOnline
		}
		t.logger.WithError(err).WithField("role", role).Error("failed to fetch role documents")
		return
	}

	t.roleDocuments[role] = t.transformDocuments(docs)
	t.network[role] = types.NetworkOnline
}

// SubmitDocuments submits the role's uploaded evidence for review. On
// success every requirement currently pending is optimistically flipped to
// approved ahead of authoritative server confirmation. Failures land in the
// role's error slot.
func (t *Tracker) SubmitDocuments(ctx context.Context, role types.Role) {
	t.mu.Lock()
	if t.submitting[role] {
		t.mu.Unlock()
		return
	}
	t.submitting[role] = true
	delete(t.roleErrors, role)
	t.mu.Unlock()

	err := docservice.Retry(ctx, submitAttempts, t.submitDelay, docservice.FixedBackoff,
		func(ctx context.Context) error {
			return t.svc.SubmitDocuments(ctx, role)
		})

	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.submitting, role)

	if err != nil {
		t.roleErrors[role] = docservice.FormatError(err)
		t.logger.WithError(err).WithField("role", role).Error("failed to submit role documents")
		return
	}

	for _, req := range t.roleDocuments[role] {
		if req.Status == types.DocumentStatusPending {
			req.Status = types.DocumentStatusApproved
		}
	}
	t.submitSuccess[role] = true
}

// ClearSubmitSuccess resets the role's submission banner flag.
func (t *Tracker) ClearSubmitSuccess(role types.Role) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.submitSuccess, role)
}

func (t *Tracker) findRequirementLocked(role types.Role, docID string) *types.DocumentRequirement {
	for _, req := range t.roleDocuments[role] {
		if req.ID == docID {
			return req
		}
	}
	return nil
}
