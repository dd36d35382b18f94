// backend/internal/auth/middleware.go
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/dgrijalva/jwt-go"
)

type contextKey string

// StudentIDKey is the request-context key carrying the authenticated student.
const StudentIDKey contextKey = "student_id"

// JWTMiddleware validates the bearer token and stores the authenticated
// student id in the request context.
func JWTMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			bearerToken := strings.Split(authHeader, " ")
			if len(bearerToken) != 2 || bearerToken[0] != "Bearer" {
				http.Error(w, "Invalid token format", http.StatusUnauthorized)
				return
			}

			token, err := jwt.ParseWithClaims(bearerToken[1], &jwt.MapClaims{}, func(token *jwt.Token) (interface{}, error) {
				return []byte(jwtSecret), nil
			})

			if err != nil {
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			claims, ok := token.Claims.(*jwt.MapClaims)
			if !ok || !token.Valid {
				http.Error(w, "Invalid token claims", http.StatusUnauthorized)
				return
			}

			studentID, ok := (*claims)["student_id"].(string)
			if !ok || studentID == "" {
				http.Error(w, "Invalid student ID in token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), StudentIDKey, studentID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
