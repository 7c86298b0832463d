package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/arjunmehta/mockview/internal/auth"
	"github.com/arjunmehta/mockview/pkg/response"
	"github.com/gin-gonic/gin"
)

func (app *application) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := verifyClaimsFromAuthHeader(c, app.Handler.TokenMaker)
		if err != nil {
			response.Unauthorized(c, err.Error())
			c.Abort()
			return
		}

		// Check if user still exists
		_, err = app.Handler.Store.GetUserByID(c.Request.Context(), claims.UserID)
		if err != nil {
			response.Unauthorized(c, "unauthorized access")
			c.Abort()
			return
		}

		c.Set("claims", claims)
		c.Next()
	}
}

func (app *application) HRAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := verifyClaimsFromAuthHeader(c, app.Handler.TokenMaker)
		if err != nil {
			response.Unauthorized(c, err.Error())
			c.Abort()
			return
		}

		user, err := app.Handler.Store.GetUserByID(c.Request.Context(), claims.UserID)
		if err != nil {
			response.Unauthorized(c, "unauthorized access")
			c.Abort()
			return
		}
		if !user.Role.IsHR() {
			response.Forbidden(c, "HR access required")
			c.Abort()
			return
		}

		c.Set("claims", claims)
		c.Next()
	}
}

func (app *application) CORSMiddleware() gin.HandlerFunc {
	trusted := app.Config.GetCORSOrigins()

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		for _, o := range trusted {
			if o == origin {
				c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
				c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
				c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
				c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")
				c.Writer.Header().Add("Vary", "Origin")
				break
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func verifyClaimsFromAuthHeader(c *gin.Context, tokenMaker *auth.JWTMaker) (*auth.UserClaims, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, fmt.Errorf("authorization header is missing")
	}

	fields := strings.Fields(authHeader)
	if len(fields) != 2 || fields[0] != "Bearer" {
		return nil, fmt.Errorf("invalid authorization header")
	}

	token := fields[1]
	claims, err := tokenMaker.VerifyToken(token)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	return claims, nil
}
