// Package sandbox is a local stand-in for the signing service and the MH
// identity and reception APIs. It signs with HS256 and keeps every
// received document in memory.
package sandbox

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"

	"github.com/rezonia/dte-emitter/internal/logger"
)

// Config holds sandbox configuration
type Config struct {
	Address string

	// Identity credentials accepted by /seguridad/auth. An empty User
	// accepts any user with Password.
	User     string
	Password string

	// Users answered with 403
	BlockedUsers []string

	// Private key password the fake signer expects
	PrivateKeyPassword string

	// HMAC key of the issued JWS
	SigningKey string

	TokenTTL     time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool
}

// Server fakes the signer and the authority over HTTP
type Server struct {
	config *Config
	router *gin.Engine
	clock  clockwork.Clock
	logger *slog.Logger

	mu       sync.Mutex
	tokens   map[string]time.Time // token value -> expiry
	records  map[string]*record   // generation code -> received document
	failNext int
}

// Option configures the sandbox
type Option func(*Server)

// WithClock sets the clock used for seals and token expiry
func WithClock(clock clockwork.Clock) Option {
	return func(s *Server) {
		s.clock = clock
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// NewServer creates a sandbox server
func NewServer(config *Config, opts ...Option) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	if config.SigningKey == "" {
		config.SigningKey = "sandbox-signing-key"
	}
	if config.TokenTTL == 0 {
		config.TokenTTL = 48 * time.Hour
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if config.Debug {
		router.Use(gin.Logger())
	}

	s := &Server{
		config:  config,
		router:  router,
		clock:   clockwork.NewRealClock(),
		logger:  logger.Discard(),
		tokens:  make(map[string]time.Time),
		records: make(map[string]*record),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	// Signing service
	s.router.POST("/firmardocumento/", s.handleSign)

	// Authority
	s.router.POST("/seguridad/auth", s.handleLogin)
	fesv := s.router.Group("/fesv", s.requireToken)
	{
		fesv.POST("/recepciondte", s.handleReception)
		fesv.POST("/anulardte", s.handleInvalidation)
		fesv.POST("/recepcion/consultadte/", s.handleConsult)
	}
}

// Run starts the HTTP server
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	s.logger.Info("sandbox listening", "address", s.config.Address)
	return srv.ListenAndServe()
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

// FailNext makes the next n authority calls answer 503
func (s *Server) FailNext(n int) {
	s.mu.Lock()
	s.failNext = n
	s.mu.Unlock()
}

// RevokeTokens forgets every issued token, as an early expiry would
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	s.tokens = make(map[string]time.Time)
	s.mu.Unlock()
}

// Received returns the number of documents accepted so far
func (s *Server) Received() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   s.clock.Now().UTC().Format(time.RFC3339),
	})
}
