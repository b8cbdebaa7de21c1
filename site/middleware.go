package site

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/suaybkiraci/BlogSite/auth"
	"github.com/suaybkiraci/BlogSite/database"
)

type contextKey string

const currentUserContextKey = contextKey("current_user")

// RealIPMiddleware rewrites RemoteAddr from proxy headers so rate limiting
// and anonymous view fingerprints see the actual client.
func RealIPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ip := r.Header.Get("X-Real-IP"); ip != "" {
			r.RemoteAddr = ip
		} else if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			parts := strings.Split(forwarded, ",")
			r.RemoteAddr = strings.TrimSpace(parts[0])
		}
		next.ServeHTTP(w, r)
	})
}

// bearerToken pulls the token out of the Authorization header, or returns
// the empty string.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	token := strings.TrimPrefix(header, "Bearer ")
	if token == header {
		return ""
	}
	return token
}

// TryPutUserInContextMiddleware resolves the caller when a valid token is
// present, and stays silent otherwise. Public-optional routes read the
// result with GetSignedInUserOrNil.
func (s *Server) TryPutUserInContextMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user := s.Auth.AuthorizeOptional(bearerToken(r)); user != nil {
			ctx := context.WithValue(r.Context(), currentUserContextKey, user)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

// AuthProtectedMiddleware rejects the request unless the token resolves to
// an eligible account.
func (s *Server) AuthProtectedMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := s.Auth.Authorize(bearerToken(r))
		if err != nil {
			// A token pointing at a deleted account is an auth failure
			// here, not a missing resource.
			if errors.Is(err, auth.ErrAccountNotFound) {
				err = auth.ErrInvalidToken
			}
			writeError(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), currentUserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetSignedInUserOrNil returns the context user, or nil for anonymous.
func GetSignedInUserOrNil(r *http.Request) *database.User {
	user, _ := r.Context().Value(currentUserContextKey).(*database.User)
	return user
}

// viewerKey identifies an anonymous viewer for view dedup: the client IP if
// we have one, else a shared catch-all key.
func viewerKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if host == "" {
		return "anonymous"
	}
	return host
}
