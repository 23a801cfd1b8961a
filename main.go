package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/meetsync/reservation-service/config"
	"github.com/meetsync/reservation-service/internal/consumer"
	"github.com/meetsync/reservation-service/internal/handler"
	"github.com/meetsync/reservation-service/internal/meetinglink"
	"github.com/meetsync/reservation-service/internal/middleware"
	"github.com/meetsync/reservation-service/internal/notification"
	"github.com/meetsync/reservation-service/internal/repository"
	"github.com/meetsync/reservation-service/internal/scheduler"
	"github.com/meetsync/reservation-service/internal/service"
	"github.com/meetsync/reservation-service/pkg/database"
	"github.com/meetsync/reservation-service/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()

	db := database.NewPostgresDB(cfg.DSN())

	// Repositories
	roomRepo := repository.NewRoomRepository(db)
	userRepo := repository.NewUserRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	approvalRepo := repository.NewApprovalRepository(db)

	// RabbitMQ consumer: sync rooms and users from the directory service
	mqConsumer, err := rabbitmq.NewConsumer(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ: %v", err)
	}
	defer mqConsumer.Close()

	msgs, err := mqConsumer.Consume()
	if err != nil {
		log.Fatalf("failed to start consuming: %v", err)
	}
	consumer.NewDirectoryConsumer(roomRepo, userRepo).Start(msgs)

	// RabbitMQ publisher: notification sink
	publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ publisher: %v", err)
	}
	defer publisher.Close()
	notifier := notification.NewSender(publisher)

	// Meeting-link integration (optional)
	var links service.MeetingLinker
	if cfg.MeetingLinkURL != "" {
		links = meetinglink.NewClient(cfg.MeetingLinkURL)
	}

	// Services
	detector := service.NewConflictDetector(bookingRepo, userRepo)
	policy := service.NewRoleApprovalPolicy(cfg.ManagerRoles...)
	bookingSvc := service.NewBookingService(bookingRepo, roomRepo, userRepo, approvalRepo, detector, policy, notifier, links, nil)
	approvalSvc := service.NewApprovalService(approvalRepo, bookingRepo, roomRepo, bookingSvc, notifier, nil)

	// Completed-meeting sweep
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go scheduler.NewSweeper(bookingSvc, cfg.SweepInterval).Start(ctx)

	// Echo
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.Printf("%s %s %d", v.Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok", "service": "reservation-service"})
	})

	handler.NewBookingHandler(bookingSvc, roomRepo).RegisterRoutes(e)
	handler.NewApprovalHandler(approvalSvc).RegisterRoutes(e)

	log.Printf("Reservation Service starting on :%s", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
