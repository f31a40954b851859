package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/hackadmin/apps/shared"
	"github.com/trezcool/hackadmin/core"
	inmemdb "github.com/trezcool/hackadmin/storage/inmem"
)

type (
	ServerDeps struct {
		Conf           *core.Config
		Logger         core.Logger
		DB             *inmemdb.DB
		Validate       *validator.Validate
		Translator     ut.Translator
		DisableReqLogs bool
	}

	// Server is an in-memory stand-in for the hackathon platform REST API.
	Server struct {
		deps     ServerDeps
		app      *echo.Echo
		jwt      jwtConfig
		faults   *faults
		errors   chan error
		shutdown chan os.Signal
	}
)

var _ http.Handler = (*Server)(nil)

func NewServer(deps ServerDeps) *Server {
	if deps.Logger == nil {
		deps.Logger = core.NopLogger{}
	}
	if deps.DB == nil {
		deps.DB = inmemdb.NewDB()
	}
	if deps.Validate == nil || deps.Translator == nil {
		deps.Validate, deps.Translator = shared.NewValidator(deps.Conf)
	}

	s := &Server{
		deps:     deps,
		app:      echo.New(),
		jwt:      newJWTConfig(deps.Conf),
		faults:   newFaults(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.deps.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(s.faults.middleware)

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.SignalShutdown)
	s.app.Debug = false // error bodies must keep the platform shape

	s.app.GET("/", home)

	api := s.app.Group("/api")
	registerAuthAPI(api, s.deps, s.jwt)

	admin := api.Group("")
	if conf.Sandbox.RequireAuth {
		admin.Use(s.jwt.middleware())
	}
	registerPlatformAPI(admin, s.deps)
}

// Start blocks until the server stops. Startup errors are sent on Errors().
func (s *Server) Start() {
	if err := s.app.Start(s.deps.Conf.Sandbox.Addr); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error { return s.errors }

func (s *Server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

// SignalShutdown asks the owner of the server to shut it down.
func (s *Server) SignalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	signal.Stop(s.shutdown)
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	signal.Stop(s.shutdown)
	return s.app.Close()
}

// InjectFault makes every request whose path starts with prefix fail with f.
func (s *Server) InjectFault(prefix string, f Fault) { s.faults.set(prefix, f) }

func (s *Server) ClearFaults() { s.faults.clear() }

func (s *Server) DB() *inmemdb.DB { return s.deps.DB }

// GenerateToken returns a valid token for adm, for tests and local scripts.
func (s *Server) GenerateToken(adm inmemdb.AdminRecord) (string, error) {
	return s.jwt.generateToken(s.jwt.claims(adm.Admin))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Hackathon platform sandbox")
}
