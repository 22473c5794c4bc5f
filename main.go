package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"liamed-backend/audit"
	"liamed-backend/conn"
	"liamed-backend/consults"
	"liamed-backend/diagnosis"
	"liamed-backend/endpoints"
	"liamed-backend/login"
	"liamed-backend/migrations"
	"liamed-backend/prompts"
)

func main() {
	_ = godotenv.Load()
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	db, err := conn.NewMySQL()
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	migrations.Init(db)
	if err := migrations.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}
	if err := migrations.SeedDefaultAdmin(); err != nil {
		log.Warn().Err(err).Msg("admin seed failed")
	}
	if err := migrations.SeedDefaultPrompts(); err != nil {
		log.Warn().Err(err).Msg("prompt seed failed")
	}

	auditor := audit.NewLogger(db)
	endpointRepo := endpoints.NewRepository(db)
	promptRepo := prompts.NewRepository(db)
	consultRepo := consults.NewRepository(db)
	diagnosisRepo := diagnosis.NewRepository(db)

	diagnoser := diagnosis.NewHandler(
		diagnosisRepo, consultRepo, endpointRepo, promptRepo, auditor,
		os.Getenv("OPENAI_API_KEY"), os.Getenv("UPLOAD_DIR"),
	)

	r := gin.Default()
	r.POST("/login", login.Handler)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authed := r.Group("", login.RequireAuth())
	authed.POST("/logout", login.Logout)
	diagnoser.RegisterRoutes(authed)
	consults.NewHandler(consultRepo, auditor).RegisterRoutes(authed)

	admin := r.Group("", login.RequireAuth(), login.RequireAdmin())
	prompts.NewHandler(promptRepo, auditor).RegisterRoutes(admin)
	endpoints.NewHandler(endpointRepo).RegisterRoutes(admin)
	admin.GET("/audit", audit.NewHandler(db).List)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
