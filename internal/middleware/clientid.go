// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// ClientIDKey is the context key for the browser's client id.
	ClientIDKey contextKey = "client_id"

	// ClientCookieName is the cookie that identifies a browser across requests.
	ClientCookieName = "pinstudio_client"

	clientCookieMaxAge = 365 * 24 * 60 * 60
)

// ClientID makes sure every request carries a client id. A missing or
// malformed pinstudio_client cookie is replaced with a fresh UUID. A client
// has at most one current generation.
func ClientID(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if cookie, err := r.Cookie(ClientCookieName); err == nil {
				if parsed, err := uuid.Parse(cookie.Value); err == nil {
					id = parsed.String()
				}
			}

			if id == "" {
				id = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     ClientCookieName,
					Value:    id,
					Path:     "/",
					MaxAge:   clientCookieMaxAge,
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), ClientIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClientIDFromCtx returns the client id stored by ClientID, or "".
func ClientIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(ClientIDKey).(string)
	return id
}
