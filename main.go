package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"cinema_booking/config"
	"cinema_booking/database"
	"cinema_booking/handler"
	"cinema_booking/helper"
	"cinema_booking/router"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	database.ConnectDB()
	database.ConnectRedis()

	app := fiber.New(fiber.Config{
		AppName: "cinema_booking",
	})

	app.Use(recover.New())
	app.Use(logger.New())
	corsConfig := cors.Config{AllowOrigins: "*"}
	if origins := config.Config("CORS_ORIGINS"); origins != "" {
		corsConfig.AllowOrigins = origins
		corsConfig.AllowCredentials = true
	}
	app.Use(cors.New(corsConfig))

	router.SetupRoutes(app)

	handler.StartSeatMapRelay()
	helper.StartReconciliationAudit()
	helper.StartArtifactRetrySweep()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit

		helper.StopReconciliationAudit()
		helper.StopArtifactRetrySweep()
		_ = app.Shutdown()
	}()

	port := config.Config("PORT")
	if port == "" {
		port = "8080"
	}
	if err := app.Listen(":" + port); err != nil {
		log.Fatal(err)
	}
}
