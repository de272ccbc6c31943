package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ricebook-backend/utils"
)

const (
	// ContextUserIDKey is the key used to store authenticated user ID in Gin context.
	ContextUserIDKey = "user_id"
	// ContextUsernameKey stores the username inside Gin context.
	ContextUsernameKey = "username"
	// AuthCookieName is the httpOnly cookie carrying the session token.
	AuthCookieName = "auth_token"
)

// AuthRequired ensures the request carries a valid session token, either in
// the auth cookie (browser clients) or as a bearer Authorization header.
// The resolved principal is placed into the request context; handlers never
// read ambient session state.
func AuthRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := tokenFromRequest(ctx)
		if token == "" {
			utils.Error(ctx, http.StatusUnauthorized, 40101, "authentication required")
			ctx.Abort()
			return
		}

		if utils.IsTokenBlacklisted(token) {
			utils.Error(ctx, http.StatusUnauthorized, 40104, "session revoked")
			ctx.Abort()
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid session token")
			ctx.Abort()
			return
		}

		ctx.Set(ContextUserIDKey, claims.UserID)
		ctx.Set(ContextUsernameKey, claims.Username)
		ctx.Next()
	}
}

// TokenFromRequest extracts the session token from the cookie or the
// Authorization header; empty when neither is present.
func TokenFromRequest(ctx *gin.Context) string {
	return tokenFromRequest(ctx)
}

func tokenFromRequest(ctx *gin.Context) string {
	if cookie, err := ctx.Cookie(AuthCookieName); err == nil && cookie != "" {
		return cookie
	}

	authHeader := ctx.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
