package main

import (
	"backend-campus-queue/internal/config"
	"backend-campus-queue/internal/http/handler"
	"backend-campus-queue/internal/http/middleware"
	"log"
	"os"
	"runtime"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
)

func main() {
	runtime.GOMAXPROCS(runtime.NumCPU())

	app := fiber.New(fiber.Config{
		Prefork:       false,
		CaseSensitive: true,
		StrictRouting: true,
	})

	config.LoadEnv()
	config.InitRedis()
	config.InitDB()
	defer config.CloseDB()

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Campus queue API up",
		})
	})

	// Realtime channel
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/queue", websocket.New(handler.QueueWebSocket))

	// Public surface (no auth)
	app.Post("/san/login", handler.Login)
	app.Get("/api/public/queue-lookup/:queueId", handler.QueueLookup)
	app.Get("/api/public/queue-data/:department", handler.GetQueueData)
	app.Get("/api/public/settings/:department", handler.GetSettings)
	app.Post("/api/public/queue-ratings", handler.CreateRating)
	app.Post("/api/public/document-requests", handler.CreateDocumentRequest)
	app.Post("/api/public/queue/take", handler.TakeQueue)

	// Database export (maintenance, basic auth)
	app.Get("/api/export/database", middleware.BasicAuth(), handler.ExportDatabase)

	// Base API (everything below requires login)
	api := app.Group("/api", middleware.JWTAuth())

	// Auth
	api.Post("/logout", handler.Logout)

	// Queue window actions
	api.Post("/queue/next", handler.CallNextQueue)
	api.Post("/queue/recall", handler.RecallCurrent)
	api.Post("/queue/previous", handler.RecallPrevious)
	api.Post("/queue/skip", handler.SkipQueue)
	api.Post("/queue/transfer", handler.TransferQueue)
	api.Post("/queue/stop", handler.StopServing)
	api.Post("/queue/requeue-all", handler.RequeueAll)
	api.Post("/queue/requeue-selected", handler.RequeueSelected)

	// Dashboard data
	api.Get("/audit", handler.GetAuditLogs)
	api.Get("/transactions", handler.GetTransactions)
	api.Get("/queue-ratings", handler.GetRatings)
	api.Get("/document-requests", handler.GetDocumentRequests)
	api.Patch("/document-requests/:id", handler.UpdateDocumentRequest)
	api.Delete("/document-requests/:id", handler.DeleteDocumentRequest)

	// Windows
	api.Get("/windows", handler.GetAllWindows)
	api.Get("/windows/paginate", handler.GetAllWindowsPagination)
	api.Get("/windows/:id", handler.GetWindowByID)
	api.Post("/windows", middleware.RoleAuth("super_admin"), handler.CreateWindow)
	api.Put("/windows/:id", handler.UpdateWindow)
	api.Delete("/windows/:id", middleware.RoleAuth("super_admin"), handler.DeleteWindow)

	// Services
	api.Get("/services", handler.GetAllServices)
	api.Get("/services/paginate", handler.GetAllServicesPagination)
	api.Get("/services/:id", handler.GetServiceByID)
	api.Post("/services", middleware.RoleAuth("super_admin"), handler.CreateService)
	api.Put("/services/:id", middleware.RoleAuth("super_admin"), handler.UpdateService)
	api.Delete("/services/:id", middleware.RoleAuth("super_admin"), handler.DeleteService)

	// Settings
	api.Put("/settings/:department", middleware.RoleAuth("super_admin"), handler.UpdateSettings)

	// ===== SUPER ADMIN ROUTES =====
	api.Get("/users/paginate", middleware.RoleAuth("super_admin"), handler.GetAllUsersPagination)
	api.Get("/users", middleware.RoleAuth("super_admin"), handler.GetAllUsers)
	api.Get("/users/:id", middleware.RoleAuth("super_admin"), handler.GetUserByID)
	api.Post("/users", middleware.RoleAuth("super_admin"), handler.CreateUser)
	api.Put("/users/:id", middleware.RoleAuth("super_admin"), handler.UpdateUser)
	api.Delete("/users/:id/permanent", middleware.RoleAuth("super_admin"), handler.HardDeleteUser)

	addr := os.Getenv("APP_HOST") + ":" + os.Getenv("APP_PORT")
	log.Println("Server listening on", addr)
	log.Fatal(app.Listen(addr))
}
