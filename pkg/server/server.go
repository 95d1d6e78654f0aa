package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/events"
	fiberadapter "github.com/awslabs/aws-lambda-go-api-proxy/fiber"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"fleet-api/pkg/cerror"
	"fleet-api/pkg/config"
)

const shutdownTimeout = 10 * time.Second

type Handler interface {
	RegisterRoutes(app *fiber.App)
}

type Server interface {
	GetFiberInstance() *fiber.App
	Start() error
	Shutdown() error
	RegisterRoutes()
	OnShutdown(hook func())
	LambdaProxyHandler(
		ctx context.Context,
		req events.APIGatewayProxyRequest,
	) (events.APIGatewayProxyResponse, error)
}

type HealthResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	Timestamp   string `json:"timestamp"`
	Environment string `json:"environment"`
}

type server struct {
	serverPort         string
	environment        string
	handlers           []Handler
	fiber              *fiber.App
	fiberLambdaAdapter *fiberadapter.FiberLambda
	onShutdown         []func()
}

func NewServer(config *config.Config, handlers []Handler, middlewares ...fiber.Handler) Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		BodyLimit:             config.BodyLimit,
		ErrorHandler:          cerror.NewMiddleware(config.IsProduction()),
	})

	corsOrigin := config.CorsOrigin
	if corsOrigin == "" {
		corsOrigin = "*"
	}
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: corsOrigin,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	for _, middleware := range middlewares {
		app.Use(middleware)
	}

	srv := &server{
		fiber:              app,
		handlers:           handlers,
		serverPort:         config.ServerPort,
		environment:        config.Environment,
		fiberLambdaAdapter: fiberadapter.New(app),
	}
	app.Get("/health", srv.health)

	return srv
}

// OnShutdown registers a hook that runs after the listener stopped.
func (server *server) OnShutdown(hook func()) {
	server.onShutdown = append(server.onShutdown, hook)
}

func (server *server) Start() error {
	shutdownChannel := make(chan os.Signal, 1)
	signal.Notify(shutdownChannel, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-shutdownChannel
		_ = server.Shutdown()
	}()

	serverAddress := fmt.Sprintf(":%s", server.serverPort)
	return server.fiber.Listen(serverAddress)
}

func (server *server) Shutdown() error {
	err := server.fiber.ShutdownWithTimeout(shutdownTimeout)
	for _, hook := range server.onShutdown {
		hook()
	}
	server.onShutdown = nil

	return err
}

func (server *server) GetFiberInstance() *fiber.App {
	return server.fiber
}

func (server *server) RegisterRoutes() {
	for _, handler := range server.handlers {
		handler.RegisterRoutes(server.fiber)
	}
}

func (server *server) LambdaProxyHandler(
	ctx context.Context,
	req events.APIGatewayProxyRequest,
) (events.APIGatewayProxyResponse, error) {
	return server.fiberLambdaAdapter.ProxyWithContext(ctx, req)
}

func (server *server) health(ctx *fiber.Ctx) error {
	return ctx.
		Status(fiber.StatusOK).
		JSON(HealthResponse{
			Success:     true,
			Message:     "server is running",
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
			Environment: server.environment,
		})
}
