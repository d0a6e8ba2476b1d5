package apiserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/siteledger/siteledger/pkg/store"
)

type contextKey string

const accountIDKey contextKey = "accountID"

// tokenAuthMiddleware resolves the bearer token to an account and puts
// the account id on the request context. Unverifiable tokens get a
// uniform 403 so callers cannot probe which account ids exist.
func tokenAuthMiddleware(s *store.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authorization := r.Header.Get("Authorization")
			token := strings.TrimPrefix(authorization, "Bearer ")
			if token == "" || token == authorization {
				writeError(w, http.StatusForbidden, errors.New("bearer token required"))
				return
			}

			acct, err := s.AuthenticateToken(token)
			if err != nil {
				if !errors.Is(err, store.ErrNotFound) {
					logrus.Errorf("token verification failed: %v", err)
				}
				writeError(w, http.StatusForbidden, errors.New("forbidden"))
				return
			}

			ctx := context.WithValue(r.Context(), accountIDKey, acct.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func accountIDFromContext(ctx context.Context) string {
	accountID, _ := ctx.Value(accountIDKey).(string)
	return accountID
}

// statusWriter captures the written status code for the request log.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (sw *statusWriter) WriteHeader(code int) {
	if sw.wroteHeader {
		return
	}
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
	sw.wroteHeader = true
}

func clientIP(req *http.Request) string {
	if ip := req.Header.Get("X-Forwarded-For"); ip != "" {
		return strings.Split(ip, ", ")[0]
	}
	if ip := req.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	host, _, _ := net.SplitHostPort(req.RemoteAddr)
	return host
}

// loggingMiddleware logs each request with its duration and recovers
// panics into a 500.
func loggingMiddleware(logger *logrus.Entry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w}

			defer func() {
				if err := recover(); err != nil {
					sw.WriteHeader(http.StatusInternalServerError)
					logger.WithFields(logrus.Fields{
						"err":   err,
						"trace": string(debug.Stack()),
					}).Error("panic while handling request")
				}

				status := sw.status
				if status == 0 {
					status = http.StatusOK
				}
				logger.WithFields(logrus.Fields{
					"status":   status,
					"method":   r.Method,
					"path":     r.URL.EscapedPath(),
					"remote":   clientIP(r),
					"duration": fmt.Sprintf("%dms", time.Since(start).Milliseconds()),
				}).Info("handled request")
			}()

			next.ServeHTTP(sw, r)
		})
	}
}
