package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gbianchi/implant-passport-api/internal/auth"
	"github.com/gbianchi/implant-passport-api/internal/config"
	"github.com/gbianchi/implant-passport-api/internal/handlers"
	"github.com/gbianchi/implant-passport-api/internal/middleware"
	"github.com/gbianchi/implant-passport-api/internal/passport"
	"github.com/gbianchi/implant-passport-api/internal/pdf"
	"github.com/gbianchi/implant-passport-api/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// --- Database Connection ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)
	db := client.Database(cfg.MongoDatabase)
	if err := store.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}
	log.Println("Successfully connected to MongoDB!")

	// --- Services ---
	identities := store.NewMongoIdentityStore(db)
	passports := store.NewMongoPassportStore(db)
	tokens := auth.NewTokenService([]byte(cfg.JWTSecret), cfg.TokenTTL)
	authenticator := auth.NewAuthenticator(identities, tokens)
	manager := passport.NewManager(passports)
	renderer := pdf.NewRenderer()

	h := handlers.NewHandler(authenticator, manager, renderer)

	// --- Gin Router ---
	r := gin.Default()
	r.Use(middleware.RequestID())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// --- Routes ---
	authRoutes := r.Group("/api/auth")
	{
		authRoutes.POST("/signup", h.Signup)
		authRoutes.POST("/login", h.Login)
		authRoutes.GET("/profile", middleware.Auth(authenticator), h.Profile)
	}

	passportRoutes := r.Group("/api/passport")
	passportRoutes.Use(middleware.Auth(authenticator))
	{
		passportRoutes.POST("", h.CreatePassport)
		passportRoutes.GET("", h.ListPassports)
		passportRoutes.GET("/:id", h.GetPassport)
		passportRoutes.PUT("/:id", h.UpdatePassport)
		passportRoutes.DELETE("/:id", h.DeletePassport)
		passportRoutes.GET("/:id/pdf", h.DownloadPassportPDF)
	}

	log.Printf("Starting server on port %s", cfg.Port)
	r.Run(":" + cfg.Port)
}
