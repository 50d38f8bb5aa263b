package server

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"binaahub/internal/storage"
	"binaahub/internal/store"
	"binaahub/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/go-playground/form/v4"
	"github.com/gorilla/securecookie"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/sirupsen/logrus"
)

var decoder = form.NewDecoder()

type Service struct {
	logger          *logrus.Logger
	config          *types.Config
	userRepo        *store.UserRepository
	requirementRepo *store.RequirementRepository
	documentRepo    *store.DocumentRepository
	objectStorage   *storage.S3Storage

	cognitoClient *cognitoidentityprovider.Client
	cookie        *securecookie.SecureCookie

	jwksCache *jwk.Cache
	jwksURL   string

	server *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	cognitoClient *cognitoidentityprovider.Client,
	objectStorage *storage.S3Storage,
	userRepo *store.UserRepository,
	requirementRepo *store.RequirementRepository,
	documentRepo *store.DocumentRepository,
	jwkCache *jwk.Cache,
	jwksURL string,
) (*Service, error) {
	mux := flow.New()

	hashKey, _ := base64.StdEncoding.DecodeString(config.CookieHashKey)
	blockKey, _ := base64.StdEncoding.DecodeString(config.CookieBlockKey)

	s := &Service{
		logger:        logger,
		config:        config,
		cognitoClient: cognitoClient,
		cookie:        securecookie.New(hashKey, blockKey),

		userRepo:        userRepo,
		requirementRepo: requirementRepo,
		documentRepo:    documentRepo,
		objectStorage:   objectStorage,

		jwksCache: jwkCache,
		jwksURL:   jwksURL,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			Handler:           mux,
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	s.buildRouter(mux)

	return s, nil
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.StripTrailingSlash)
	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)

	r.HandleFunc("/register", s.handlePostRegister, http.MethodPost)
	r.HandleFunc("/login", s.handlePostLogin, http.MethodPost)
	r.HandleFunc("/logout", s.handlePostLogout, http.MethodPost)

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireAuth)

		r.HandleFunc("/api/profile/:role/documents", s.handleListDocuments, http.MethodGet)
		r.HandleFunc("/api/profile/:role/documents/submit", s.handleSubmitDocuments, http.MethodPost)
		r.HandleFunc("/api/profile/:role/documents/:docID/files", s.handleUploadDocumentFile, http.MethodPost)
		r.HandleFunc("/api/profile/:role/documents/:docID/files/:fileID", s.handleUpdateDocumentFile, http.MethodPatch)
		r.HandleFunc("/api/profile/:role/documents/:docID/files/:fileID", s.handleRemoveDocumentFile, http.MethodDelete)
		r.HandleFunc("/api/profile/:role/documents/:docID/files/:fileID/download", s.handleDownloadDocumentFile, http.MethodGet)
		r.HandleFunc("/api/profile/:role/completion", s.handleCompletionStatus, http.MethodGet)
	})
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Service) userIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(contextKeyUserID).(string)
	if !ok {
		return "", fmt.Errorf("user id not found in context")
	}
	return userID, nil
}

func (s *Service) roleFromPath(r *http.Request) (types.Role, error) {
	role := types.Role(flow.Param(r.Context(), "role"))
	if !role.Valid() {
		return "", fmt.Errorf("unknown role %q", role)
	}
	return role, nil
}
