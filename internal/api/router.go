package api

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/manosbatsis/bw-sometime/internal/auth"

	"github.com/rs/zerolog"
)

// New builds the JSON API router with authentication and request logging
// applied to every route.
func New(basePath string, h *Handlers, authn *auth.Chain, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /delegates", h.SearchDelegates)
	mux.HandleFunc("GET /delegates/name/{name}", h.DelegateByName)
	mux.HandleFunc("GET /delegates/id/{id}", h.DelegateByID)
	mux.HandleFunc("GET /delegates/id/{id}/vcard", h.DelegateVCard)
	mux.HandleFunc("GET /delegates/attr/{attr}/{value}", h.DelegateByAttr)
	mux.HandleFunc("GET /people", h.SearchPeople)
	mux.HandleFunc("GET /people/{username}", h.PersonByUsername)
	mux.HandleFunc("POST /reminders", h.ScheduleReminder)
	mux.HandleFunc("GET /reminders", h.ListReminders)
	mux.HandleFunc("DELETE /reminders/{id}", h.DeleteReminder)

	var handler http.Handler = mux
	if basePath != "" && basePath != "/" {
		handler = http.StripPrefix(strings.TrimSuffix(basePath, "/"), mux)
	}
	handler = authenticate(handler, authn)
	return requestLogger(handler, logger)
}

// authenticate resolves the principal from the Authorization header and
// stores it in the request context. Requests with no usable credentials
// are rejected before reaching a handler.
func authenticate(next http.Handler, authn *auth.Chain) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")

		var p *auth.Principal
		var err error
		switch {
		case authn.BearerEnabled() && strings.HasPrefix(strings.ToLower(header), "bearer "):
			p, err = authn.BearerAuthenticate(r.Context(), header[len("bearer "):])
		case authn.BasicEnabled():
			p, err = authn.BasicAuthenticate(r.Context(), header)
		default:
			err = http.ErrNotSupported
		}
		if err != nil || p == nil {
			w.Header().Set("WWW-Authenticate", `Basic realm="sometime"`)
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
	bytes       int
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.wroteHeader {
		r.status = code
		r.wroteHeader = true
		r.ResponseWriter.WriteHeader(code)
	}
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	n, err := r.ResponseWriter.Write(p)
	r.bytes += n
	return n, err
}

func requestLogger(next http.Handler, logger zerolog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w}
		start := time.Now()
		next.ServeHTTP(rec, r)
		logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote", realIP(r)).
			Int("status", statusOrDefault(rec.status)).
			Int("bytes", rec.bytes).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

func realIP(req *http.Request) string {
	xff := req.Header.Get("X-Forwarded-For")
	if xff != "" {
		parts := strings.Split(xff, ",")
		ip := strings.TrimSpace(parts[0])
		if ip != "" {
			return ip
		}
	}
	if xr := req.Header.Get("X-Real-IP"); xr != "" {
		return xr
	}
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}
	return host
}

func statusOrDefault(st int) int {
	if st == 0 {
		return http.StatusOK
	}
	return st
}
