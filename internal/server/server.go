package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"sponsors/internal/auth"
	"sponsors/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/go-playground/form/v4"
	"github.com/sirupsen/logrus"
)

// ManageSponsorsRole is the capability every mutating endpoint requires.
const ManageSponsorsRole = "manage_sponsors"

var decoder = form.NewDecoder()

type SponsorRepository interface {
	Sponsors(ctx context.Context) ([]*types.Sponsor, error)
	Sponsor(ctx context.Context, id int64) (*types.Sponsor, error)
	CreateSponsor(ctx context.Context, sponsor *types.Sponsor) error
	UpdateSponsor(ctx context.Context, sponsor *types.Sponsor) error
	DeleteSponsor(ctx context.Context, id int64) (*types.Sponsor, error)
}

type LevelRepository interface {
	Levels(ctx context.Context) ([]*types.Level, error)
	Level(ctx context.Context, id int64) (*types.Level, error)
	CreateLevel(ctx context.Context, level *types.Level) error
	UpdateLevel(ctx context.Context, level *types.Level) error
	DeleteLevel(ctx context.Context, id int64) (*types.Level, error)
}

type LogoResolver interface {
	Resolve(ctx context.Context, sponsorName string, logo *string) (*string, error)
}

type MediaService interface {
	Upload(ctx context.Context, id, filename, contentType string, body io.Reader) (*types.Media, error)
	URL(ctx context.Context, id string) (string, error)
}

type Authorizer interface {
	Authorize(r *http.Request, required []string) (*auth.Principal, error)
}

type Service struct {
	logger       *logrus.Logger
	config       *types.Config
	sponsorsRepo SponsorRepository
	levelsRepo   LevelRepository
	logos        LogoResolver
	media        MediaService
	authorizer   Authorizer

	server *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	sponsorsRepo SponsorRepository,
	levelsRepo LevelRepository,
	logos LogoResolver,
	media MediaService,
	authorizer Authorizer,
) (*Service, error) {
	if config.MountPrefix != "" && !strings.HasPrefix(config.MountPrefix, "/") {
		return nil, fmt.Errorf("mount prefix %q must start with /", config.MountPrefix)
	}
	if config.MediaPrefix != "" && !strings.HasPrefix(config.MediaPrefix, "/") {
		return nil, fmt.Errorf("media prefix %q must start with /", config.MediaPrefix)
	}

	mux := flow.New()

	s := &Service{
		logger:       logger,
		config:       config,
		sponsorsRepo: sponsorsRepo,
		levelsRepo:   levelsRepo,
		logos:        logos,
		media:        media,
		authorizer:   authorizer,

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

func (s *Service) Handler() http.Handler {
	return s.server.Handler
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.NotFound = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		s.writeError(w, http.StatusNotFound, "Not Found")
	})

	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)

	s.Mount(r)
}

// Mount registers the sponsor and media route groups on r under the
// configured prefixes. A host application can call it on its own mux
// instead of running the bundled server.
func (s *Service) Mount(r *flow.Mux) {
	prefix := strings.TrimSuffix(s.config.MountPrefix, "/")
	mediaPrefix := strings.TrimSuffix(s.config.MediaPrefix, "/")

	handle(r, prefix+"/component", s.handleGetComponent, http.MethodGet)
	handle(r, prefix+"/component/schema", s.handleGetComponentSchema, http.MethodGet)
	handle(r, prefix, s.handleListSponsors, http.MethodGet)
	handle(r, prefix+"/levels", s.handleListLevels, http.MethodGet)
	handle(r, prefix+"/levels/:id|^[0-9]+$", s.handleGetLevel, http.MethodGet)

	if s.media != nil {
		handle(r, mediaPrefix+"/:id", s.handleGetMedia, http.MethodGet)
	}

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireRoles(ManageSponsorsRole))

		handle(r, prefix, s.handleCreateSponsor, http.MethodPost)
		handle(r, prefix+"/:id|^[0-9]+$", s.handleUpdateSponsor, http.MethodPut)
		handle(r, prefix+"/:id|^[0-9]+$", s.handleDeleteSponsor, http.MethodDelete)

		handle(r, prefix+"/levels", s.handleCreateLevel, http.MethodPost)
		handle(r, prefix+"/levels/:id|^[0-9]+$", s.handleUpdateLevel, http.MethodPut)
		handle(r, prefix+"/levels/:id|^[0-9]+$", s.handleDeleteLevel, http.MethodDelete)

		if s.media != nil {
			handle(r, mediaPrefix+"/:id", s.handleUploadMedia, http.MethodPut)
		}
	})
}

// handle registers pattern with and without a trailing slash; the host
// front end calls both forms.
func handle(r *flow.Mux, pattern string, fn http.HandlerFunc, method string) {
	if pattern == "" {
		pattern = "/"
	}

	r.HandleFunc(pattern, fn, method)
	if pattern != "/" {
		r.HandleFunc(pattern+"/", fn, method)
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
