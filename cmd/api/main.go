package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	config "github.com/localhive/local_hive/configs"
	"github.com/localhive/local_hive/database"
	"github.com/localhive/local_hive/handlers"
	"github.com/localhive/local_hive/jobs"
	"github.com/localhive/local_hive/notifications"
	"github.com/localhive/local_hive/repository"
	"github.com/localhive/local_hive/routes"
	"github.com/localhive/local_hive/services"
	"github.com/localhive/local_hive/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

func main() {
	database.ConnectDB()
	database.Migrate()
	notifications.InitEmailService()

	var redisClient *redis.Client
	if addr := config.Config("REDIS_ADDR"); addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: config.Config("REDIS_PASSWORD"),
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Printf("⚠️ Redis unavailable, geocode caching disabled: %v", err)
			redisClient = nil
		}
	}

	bookingService := services.NewBookingService(repository.NewGormBookingStore(database.DB))
	chatService := services.NewChatService(repository.NewGormChatStore(database.DB))
	geocodingService := services.NewGeocodingService(redisClient)

	var generator services.ContentGenerator
	if g, err := services.NewGeminiGenerator(context.Background()); err != nil {
		log.Printf("⚠️ AI provider unavailable, recommendations will fall back: %v", err)
	} else {
		generator = g
	}
	aiService := services.NewAIService(generator, repository.NewGormSessionLister(database.DB))

	bookingHandler := handlers.NewBookingHandler(bookingService)
	chatHandler := handlers.NewChatHandler(chatService)
	aiHandler := handlers.NewAIHandler(aiService)
	geocodeHandler := handlers.NewGeocodeHandler(geocodingService)

	c := cron.New()
	c.AddFunc("*/5 * * * *", jobs.SendSessionReminders)
	c.AddFunc("@hourly", jobs.NotifyStalePendingRequests)
	go c.Start()
	log.Println("✅ Cron jobs scheduled successfully.")

	app := fiber.New(fiber.Config{
		Prefork:           false,
		AppName:           "Local Hive",
		CaseSensitive:     true,
		StrictRouting:     true,
		EnablePrintRoutes: true,
		PassLocalsToViews: true,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"code":    code,
				"message": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Welcome to Local Hive API",
		})
	})

	routes.AuthRoutes(app)
	routes.ProfileRoutes(app)
	routes.SessionRoutes(app)
	routes.BookingRoutes(app, bookingHandler)
	routes.MessagingRoutes(app, chatHandler)
	routes.AIRoutes(app, aiHandler)
	routes.GeocodeRoutes(app, geocodeHandler)
	routes.UploadRoutes(app)

	go websocket.RunHub()

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	log.Println("✅ Server is running on port 8080")
	if err := app.Listen(":8080"); err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}
