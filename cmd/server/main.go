package main

import (
	"log"
	"time"

	"student-sync-backend/internal/app"
	"student-sync-backend/internal/config"
	"student-sync-backend/internal/repository"
	"student-sync-backend/internal/routes"
	"student-sync-backend/internal/services/studentsync"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	db := config.InitDB(cfg)
	if err := config.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	var runs studentsync.RunStore = studentsync.NewMemoryRunStore()
	if client := config.InitRedis(cfg); client != nil {
		runs = studentsync.NewRedisRunStore(client, cfg.RunTTL)
	}

	services := app.NewServices(repository.NewStore(db), runs, cfg)

	r := gin.Default()
	// CORS config
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, services)

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
