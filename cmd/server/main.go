package main

import (
	"context"
	"log"

	"smartgrader-composer/internal/config"
	"smartgrader-composer/internal/database"
	"smartgrader-composer/internal/handlers"
	"smartgrader-composer/internal/middleware"
	"smartgrader-composer/internal/services"
	"smartgrader-composer/internal/ws"

	_ "smartgrader-composer/docs"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           SmartGrader Test Composer API
// @version         1.0
// @description     Author multiple-choice tests as drafts and save them on a SmartGrader server
// @host            localhost:8080
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter "Bearer {token}"

func main() {
	cfg := config.Load()

	var store services.DraftStore = services.NewMemoryDraftStore()
	if cfg.Autosave {
		db := database.Connect(cfg)
		database.AutoMigrate(db)
		store = services.NewGormDraftStore(db)
	} else {
		log.Println("AUTOSAVE not set, drafts are kept in memory")
	}

	grader := services.NewGraderClient(cfg.GraderBaseURL, cfg.GraderTimeout)
	if cfg.GraderEmail != "" {
		if err := grader.Login(context.Background(), cfg.GraderEmail, cfg.GraderPassword); err != nil {
			log.Printf("grader login failed, requests will be anonymous: %v", err)
		} else {
			log.Printf("logged in to %s as %s", cfg.GraderBaseURL, cfg.GraderEmail)
		}
	}

	hub := ws.NewHub()
	tokens := services.NewDraftTokens(cfg.JWTSecret)
	draftService := services.NewDraftService(store, grader, hub, cfg.DefaultNumOptions)

	draftHandler := handlers.NewDraftHandler(draftService, tokens)
	wsHandler := handlers.NewWSHandler(hub, draftService)
	testHandler := handlers.NewTestHandler(grader)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/ws/drafts/:id", middleware.DraftAuth(tokens), wsHandler.HandleWebSocket)

	api := r.Group("/api/v1")
	{
		api.POST("/drafts", draftHandler.CreateDraft)
		api.POST("/tests/:test_id/pdf", testHandler.GeneratePDF)

		drafts := api.Group("/drafts/:id")
		drafts.Use(middleware.DraftAuth(tokens))
		{
			drafts.GET("", draftHandler.GetDraft)
			drafts.PUT("", draftHandler.UpdateDraft)
			drafts.DELETE("", draftHandler.DiscardDraft)
			drafts.PUT("/options", draftHandler.SetOptionCount)
			drafts.POST("/questions", draftHandler.AddQuestion)
			drafts.PUT("/questions/:qid", draftHandler.UpdateQuestion)
			drafts.DELETE("/questions/:qid", draftHandler.RemoveQuestion)
			drafts.POST("/import", draftHandler.ImportQuestions)
			drafts.GET("/export", draftHandler.ExportQuestions)
			drafts.POST("/generate", draftHandler.Generate)
			drafts.POST("/submit", draftHandler.Submit)
		}
	}

	log.Printf("server starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
