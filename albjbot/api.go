package albjbot

import (
	"context"
	"errors"
	"fmt"
	"github.com/gin-contrib/cors"
	ginPprof "github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"log/slog"
	"net"
	"net/http"
	"os"
	"runtime"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	healthPathHealth   = "/health"
	healthPathRoot     = "/"
	healthPathMetrics  = "/metrics"
	healthPathDebug    = "/debug"
	pprofPrefix        = "/debug/pprof"
	healthStatusOK     = "healthy"
	rootResponseText   = "ALBJ Discord Bot is online"
	xRequestIDHeader   = "X-Request-ID"
	filteredEnvValue   = "[FILTERED]"
	healthReadyTimeout = 5 * time.Second

	statusTimestampFormat = "2006-01-02T15:04:05.000Z"
)

// sensitiveEnvMarkers hides matching environment variables from /debug
var sensitiveEnvMarkers = []string{"TOKEN", "SECRET", "KEY", "PASSWORD", "DSN", "DATABASE"}

// HealthServer serves the health check endpoints used by deployment
// platforms. It only reads from the Status it was constructed with, so
// it keeps answering whether or not the gateway connection is up.
type HealthServer struct {
	config     *HealthConfig
	status     *Status
	gatherer   prometheus.Gatherer
	httpServer *http.Server
	engine     *gin.Engine
	logger     *slog.Logger

	listener net.Listener
	mu       sync.Mutex
	ready    chan struct{}
}

// healthCheckResponse is the body of GET /health
type healthCheckResponse struct {
	Status        string        `json:"status"`
	Uptime        float64       `json:"uptime"`
	Timestamp     string        `json:"timestamp"`
	Environment   string        `json:"environment"`
	DiscordStatus DiscordStatus `json:"discordStatus"`
}

type debugResponse struct {
	Timestamp   string            `json:"timestamp"`
	Status      StatusSnapshot    `json:"status"`
	Environment map[string]string `json:"environment"`
	Runtime     debugRuntimeInfo  `json:"runtime"`
	Build       *debugBuildInfo   `json:"build,omitempty"`
}

type debugRuntimeInfo struct {
	GoVersion    string `json:"go_version"`
	GOOS         string `json:"goos"`
	GOARCH       string `json:"goarch"`
	NumCPU       int    `json:"num_cpu"`
	NumGoroutine int    `json:"num_goroutine"`
	HeapAlloc    uint64 `json:"heap_alloc"`
	Sys          uint64 `json:"sys"`
	PID          int    `json:"pid"`
	Hostname     string `json:"hostname,omitempty"`
}

type debugBuildInfo struct {
	Path     string            `json:"path"`
	Main     string            `json:"main"`
	Settings map[string]string `json:"settings,omitempty"`
}

// httpError represents an error message returned to the client
type httpError struct {
	Error string `json:"error"`
}

// NewHealthServer builds the gin engine and HTTP server. The server isn't
// listening until Serve is called.
func NewHealthServer(
	config *HealthConfig,
	status *Status,
	gatherer prometheus.Gatherer,
) *HealthServer {
	logger := componentLogger("health", config.LogLevel)

	r := gin.New()

	s := &HealthServer{
		config:   config,
		status:   status,
		gatherer: gatherer,
		engine:   r,
		logger:   logger,
		ready:    make(chan struct{}),
	}

	s.httpServer = &http.Server{
		Addr:              net.JoinHostPort(config.Host, strconv.Itoa(config.Port)),
		Handler:           r,
		WriteTimeout:      config.WriteTimeout,
		IdleTimeout:       config.IdleTimeout,
		ReadTimeout:       config.ReadTimeout,
		ReadHeaderTimeout: config.ReadHeaderTimeout,
	}

	corsConfig := config.CORS.GINConfig()
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	}

	r.Use(
		gin.Recovery(),
		requestIDMiddleware(),
		ginLoggingMiddleware(logger),
		cors.New(corsConfig),
	)

	r.GET(healthPathHealth, s.healthCheck)
	r.HEAD(healthPathHealth, s.healthCheck)
	r.GET(healthPathRoot, s.root)
	r.NoRoute(
		func(c *gin.Context) {
			c.AbortWithStatusJSON(http.StatusNotFound, httpError{Error: "not found"})
		},
	)
	if gatherer != nil {
		r.GET(
			healthPathMetrics,
			gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})),
		)
	}

	if config.Development {
		r.GET(healthPathDebug, s.debugInfo)
		ginPprof.Register(r, pprofPrefix)
	}
	return s
}

// Serve listens on the configured address and serves until the server
// is shut down. It returns http.ErrServerClosed after Shutdown.
func (s *HealthServer) Serve(ctx context.Context) error {
	s.mu.Lock()
	if s.listener == nil {
		listenCfg := &net.ListenConfig{}
		ln, err := listenCfg.Listen(ctx, s.config.ListenNetwork, s.httpServer.Addr)
		if err != nil {
			s.mu.Unlock()
			return fmt.Errorf("error listening on %s: %w", s.httpServer.Addr, err)
		}
		s.listener = ln
		close(s.ready)
	}
	ln := s.listener
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "health check server listening", "addr", ln.Addr().String())
	return s.httpServer.Serve(ln)
}

// Addr returns the listener's address once Serve has started listening,
// or an error if it doesn't within the timeout.
func (s *HealthServer) Addr(ctx context.Context) (net.Addr, error) {
	ctx, cancel := context.WithTimeout(ctx, healthReadyTimeout)
	defer cancel()
	select {
	case <-s.ready:
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.listener.Addr(), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Shutdown gracefully stops the server
func (s *HealthServer) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *HealthServer) healthCheck(c *gin.Context) {
	now := s.status.Now()
	c.JSON(
		http.StatusOK, healthCheckResponse{
			Status:        healthStatusOK,
			Uptime:        s.status.Uptime().Seconds(),
			Timestamp:     now.UTC().Format(statusTimestampFormat),
			Environment:   s.status.Environment(),
			DiscordStatus: s.status.Discord(),
		},
	)
}

func (s *HealthServer) root(c *gin.Context) {
	c.String(http.StatusOK, rootResponseText)
}

func (s *HealthServer) debugInfo(c *gin.Context) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	hostname, _ := os.Hostname()

	resp := debugResponse{
		Timestamp:   s.status.Now().UTC().Format(statusTimestampFormat),
		Status:      s.status.Snapshot(),
		Environment: filteredEnviron(os.Environ()),
		Runtime: debugRuntimeInfo{
			GoVersion:    runtime.Version(),
			GOOS:         runtime.GOOS,
			GOARCH:       runtime.GOARCH,
			NumCPU:       runtime.NumCPU(),
			NumGoroutine: runtime.NumGoroutine(),
			HeapAlloc:    mem.HeapAlloc,
			Sys:          mem.Sys,
			PID:          os.Getpid(),
			Hostname:     hostname,
		},
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		b := &debugBuildInfo{
			Path:     bi.Path,
			Main:     bi.Main.Version,
			Settings: map[string]string{},
		}
		for _, setting := range bi.Settings {
			b.Settings[setting.Key] = setting.Value
		}
		resp.Build = b
	}
	c.IndentedJSON(http.StatusOK, resp)
}

// filteredEnviron converts KEY=value pairs to a map, replacing the values
// of anything that looks like a credential
func filteredEnviron(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, _ := strings.Cut(kv, "=")
		if k == "" {
			continue
		}
		upper := strings.ToUpper(k)
		for _, marker := range sensitiveEnvMarkers {
			if strings.Contains(upper, marker) {
				v = filteredEnvValue
				break
			}
		}
		env[k] = v
	}
	return env
}

// requestIDMiddleware sets X-Request-ID on the response, reusing the
// incoming header when present.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(xRequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(xRequestIDHeader, id)
		c.Header(xRequestIDHeader, id)
		c.Next()
	}
}

// ginContextLogger returns the slog.Logger from the given gin context,
// or, if it doesn't exist, creates a logger with request details included,
// and sets the logger in the context so the next call to ginContextLogger
// will return the new logger.
func ginContextLogger(c *gin.Context, base *slog.Logger) *slog.Logger {
	if logger, ok := c.Get(string(loggerContextKey)); ok {
		if requestLogger, ok := logger.(*slog.Logger); ok {
			return requestLogger
		}
	}
	if base == nil {
		base = slog.Default()
	}
	requestID, _ := c.Get(xRequestIDHeader)
	path := c.Request.URL.Path
	if raw := c.Request.URL.RawQuery; raw != "" {
		path = path + "?" + raw
	}

	requestLogger := base.With(
		slog.Group(
			"request",
			"method", c.Request.Method,
			"path", path,
			"remote_ip", c.RemoteIP(),
			"user_agent", c.Request.UserAgent(),
		),
		slog.Any(xRequestIDHeader, requestID),
	)
	c.Set(string(loggerContextKey), requestLogger)
	return requestLogger
}

// ginLoggingMiddleware logs each request with its duration and response
// status. Health probes are logged at debug level, since platforms poll
// them constantly.
func ginLoggingMiddleware(base *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestLogger := ginContextLogger(c, base)
		c.Next()
		latency := time.Since(start)

		var errs []error
		for _, e := range c.Errors.ByType(gin.ErrorTypePrivate) {
			errs = append(errs, e.Err)
		}
		response := slog.Group(
			"response",
			"status_code", c.Writer.Status(),
			"body_size", c.Writer.Size(),
		)
		msg := fmt.Sprintf("%s %s finished", c.Request.Method, c.Request.URL.Path)
		switch {
		case len(errs) > 0:
			requestLogger.Error(msg, "duration", latency, "errors", errs, response)
		case c.Request.URL.Path == healthPathHealth:
			requestLogger.Debug(msg, "duration", latency, response)
		default:
			requestLogger.Info(msg, "duration", latency, response)
		}
	}
}
