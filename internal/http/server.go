package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"

	"financas/internal/core"
	"financas/internal/ledger"
	"financas/internal/log"
	"financas/internal/services"
	appweb "financas/web"
)

// LedgerService is the application logic behind the handlers.
type LedgerService interface {
	Add(ctx context.Context, tx core.Transaction) error
	Clear(ctx context.Context) error
	View(ctx context.Context, criteria ledger.Criteria) (services.View, error)
	Ready(ctx context.Context) error
}

type Server struct {
	http.Server
	templates       *template.Template
	ledger          LedgerService
	logger          *log.Logger
	rateLimiter     *rateLimiter
	securityMetrics *securityMetrics
	shutdownOnce    sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
// postsPerMinute bounds the number of POST requests accepted per client.
func NewServer(addr string, svc LedgerService, logger *log.Logger, postsPerMinute int) *Server {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr: addr,
		},
		ledger:          svc,
		logger:          logger,
		rateLimiter:     newRateLimiter(postsPerMinute),
		securityMetrics: &securityMetrics{},
	}

	t, err := parseTemplates()
	if err != nil {
		logger.Warn("Failed parsing templates", log.FieldError, err.Error())
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600")
			static.ServeHTTP(w, r)
		}))
	} else {
		logger.Warn("Failed to mount embedded static FS", log.FieldError, err.Error())
	}

	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/transactions", s.handleAddTransaction)
	mux.HandleFunc("/transactions/clear", s.handleClearAll)

	// UI partials
	mux.HandleFunc("/ui/categories", s.handleCategoryOptions)
	mux.HandleFunc("/ui/ledger", s.handleLedger)

	s.Handler = log.RequestLogger(logger, requestIDFor, extractClientIP)(s.withSecurity(mux))
	return s
}

func parseTemplates() (*template.Template, error) {
	return template.New("financas").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
}

var templateFuncs = template.FuncMap{
	"reais":     func(m core.Money) string { return formatReais(m.Cents) },
	"monthName": monthName,
}

// withSecurity applies rate limiting to POST requests and sets the security
// headers on every response.
func (s *Server) withSecurity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := log.FromContext(ctx)
		clientIP := extractClientIP(r)

		if detectSuspiciousRequest(r, s.securityMetrics) {
			logger.WarnContext(ctx, "Suspicious request",
				log.FieldClientIP, clientIP,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
		}

		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP, s.securityMetrics) {
			logger.WarnContext(ctx, "Rate limit exceeded", log.FieldClientIP, clientIP, log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Muitas requisições. Tente novamente mais tarde.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' https://unpkg.com 'unsafe-eval'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}

// Shutdown gracefully shuts down the server and the rate limiter cleanup.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
