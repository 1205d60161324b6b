// Package middleware provides HTTP middleware components.
package middleware

import (
	"net/http"

	"github.com/todoapp/gobackend/internal/auth"
	"github.com/todoapp/gobackend/internal/constants"
)

// JWTAuth is middleware that requires a valid bearer access token.
func JWTAuth(jwtService auth.JWTValidator) func(http.Handler) http.Handler {
	jwtProvider := auth.NewJWTAuthProvider(jwtService)
	return auth.RequireAuth(jwtProvider)
}

// SecurityHeaders adds security-related HTTP headers to every response.
func SecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(constants.HeaderXContentTypeOptions, constants.ContentTypeOptionsNoSniff)
			w.Header().Set(constants.HeaderXFrameOptions, constants.FrameOptionsDeny)
			w.Header().Set(constants.HeaderReferrerPolicy, constants.ReferrerPolicyStrictOrigin)
			w.Header().Set(constants.HeaderContentSecurityPolicy, constants.CSPDefaultSrc)

			next.ServeHTTP(w, r)
		})
	}
}
