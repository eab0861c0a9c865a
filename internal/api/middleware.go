package api

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// visitorTTL is how long an idle client keeps its limiter
const visitorTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiter keeps one token bucket per client address
type clientLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

func newClientLimiter(limit rate.Limit, burst int) *clientLimiter {
	return &clientLimiter{
		visitors:  make(map[string]*visitor),
		limit:     limit,
		burst:     burst,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// getLimiter returns the limiter for ip, creating it on first use. Idle
// visitors are dropped at most once per visitorTTL.
func (cl *clientLimiter) getLimiter(ip string) *rate.Limiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	now := cl.now()
	if now.Sub(cl.lastSweep) > visitorTTL {
		for key, v := range cl.visitors {
			if now.Sub(v.lastSeen) > visitorTTL {
				delete(cl.visitors, key)
			}
		}
		cl.lastSweep = now
	}

	v, ok := cl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(cl.limit, cl.burst)}
		cl.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

func (cl *clientLimiter) size() int {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return len(cl.visitors)
}

// clientIP strips the port from the remote address
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// rateLimit rejects clients that exceed their token bucket. Health checks
// are never limited.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	if s.limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" {
			next.ServeHTTP(w, r)
			return
		}

		ip := clientIP(r)
		if !s.limiter.getLimiter(ip).Allow() {
			s.logger.WithField("client", ip).Warn("Rate limit exceeded")
			s.respondError(w, http.StatusTooManyRequests, "Too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// Hijack lets the websocket upgrade take over the connection
func (sr *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := sr.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	sr.status = http.StatusSwitchingProtocols
	return hj.Hijack()
}

func (sr *statusRecorder) Unwrap() http.ResponseWriter {
	return sr.ResponseWriter
}

func (sr *statusRecorder) Flush() {
	if f, ok := sr.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// instrument counts requests by method and status code and logs them at
// debug level.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.opts.Metrics.HTTPRequest(r.Method, strconv.Itoa(rec.status))
		s.logger.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start),
		}).Debug("HTTP request")
	})
}
