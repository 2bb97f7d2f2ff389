package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/kwadjoe/campuslinkbackend/controllers"
	"github.com/kwadjoe/campuslinkbackend/database"
	"github.com/kwadjoe/campuslinkbackend/middleware"
	"github.com/kwadjoe/campuslinkbackend/models"
	"github.com/kwadjoe/campuslinkbackend/repository"
	"github.com/kwadjoe/campuslinkbackend/services"
	"github.com/kwadjoe/campuslinkbackend/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	ctx := context.Background()
	usersCol := database.OpenCollection("users")
	if err := utils.SeedAdminUser(ctx, usersCol); err != nil {
		log.Fatal(err)
	}

	users := repository.NewMongoUserStore(usersCol)
	blacklist := services.NewTokenBlacklist()
	otps := services.NewOTPManager(services.NewSMTPMailerFromEnv())

	auth := controllers.NewAuthController(users, blacklist, otps)
	usersCtrl := controllers.NewUsersController(users)
	imageValidator := utils.NewImageValidator()

	r := gin.New()

	origins := os.Getenv("ALLOWED_ORIGINS")
	allowedOrigins := map[string]bool{}
	for _, origin := range strings.Split(origins, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			allowedOrigins[origin] = true
		}
	}
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return allowedOrigins[origin]
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	r.POST("/auth/register", auth.Register())
	r.POST("/auth/login", auth.Login())
	r.POST("/auth/logout", auth.Logout())
	r.POST("/auth/refresh", auth.Refresh())
	r.POST("/auth/forgot-password", auth.ForgotPassword())
	r.POST("/auth/verify-otp", auth.VerifyOtp())
	r.POST("/auth/resend-otp", auth.ResendOtp())
	r.POST("/auth/reset-password", auth.ResetPassword())

	r.GET("/buildings", controllers.GetBuildings())
	r.GET("/buildings/:id", controllers.GetBuilding())
	r.GET("/buildings/slug/:slug", controllers.GetBuilding())
	r.GET("/events", controllers.GetEvents())
	r.GET("/events/:id", controllers.GetEvent())

	authed := r.Group("/")
	authed.Use(middleware.AuthMiddleware(blacklist))
	{
		authed.GET("/users/me", usersCtrl.Me())
	}

	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(blacklist), middleware.RequireRole(models.RoleAdmin))
	{
		admin.POST("/buildings", controllers.AddBuilding())
		admin.PATCH("/buildings/:id", controllers.UpdateBuilding())
		admin.DELETE("/buildings/:id", controllers.DeleteBuilding())
		admin.POST("/buildings/:id/images", controllers.UploadBuildingImages(imageValidator))

		admin.POST("/events", controllers.AddEvent())
		admin.PATCH("/events/:id", controllers.UpdateEvent())
		admin.DELETE("/events/:id", controllers.DeleteEvent())
		admin.POST("/events/:id/poster", controllers.UploadEventPoster(imageValidator))
	}

	// Server listens on 0.0.0.0:8080 by default
	r.Run()
}
