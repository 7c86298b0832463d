package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (app *application) routes() http.Handler {
	if app.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	// simple logger middleware that uses zap
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		app.Logger.Sugar().Infow("http", "method", c.Request.Method, "path", c.Request.URL.Path, "status", c.Writer.Status(), "duration", time.Since(start))
	})

	r.Use(app.CORSMiddleware())

	v1 := r.Group("/api/v1")
	{
		v1.POST("/signup", app.Handler.SignUp)
		v1.POST("/login", app.Handler.Login)
		v1.POST("/tokens/renew", app.Handler.RenewAccessToken)
		v1.POST("/password-reset", app.Handler.RequestPasswordReset)
		v1.POST("/password-reset/confirm", app.Handler.ConfirmPasswordReset)
	}

	protected := v1.Group("/")
	protected.Use(app.AuthMiddleware())
	{
		protected.GET("/me", app.Handler.Me)
		protected.PATCH("/me/preferences", app.Handler.UpdatePreferences)
		protected.POST("/logout", app.Handler.Logout)
		protected.POST("/tokens/revoke", app.Handler.RevokeSession)

		// live interview sessions
		protected.POST("/sessions", app.Handler.CreateSession)
		protected.GET("/sessions/:id", app.Handler.GetSession)
		protected.DELETE("/sessions/:id", app.Handler.DeleteSession)
		protected.POST("/sessions/:id/analyze", app.Handler.AnalyzeSession)
		protected.POST("/sessions/:id/start", app.Handler.StartSession)
		protected.POST("/sessions/:id/answers", app.Handler.SubmitAnswer)
		protected.POST("/sessions/:id/speech", app.Handler.SessionSpeech)

		// completed interview reports
		protected.GET("/interviews", app.Handler.ListInterviews)
		protected.GET("/interviews/:id", app.Handler.GetReport)
		protected.GET("/skills/history", app.Handler.SkillHistory)
	}

	hr := v1.Group("/")
	hr.Use(app.HRAuthMiddleware())
	{
		hr.GET("/interviews/stats", app.Handler.InterviewStats)
	}

	return r
}
