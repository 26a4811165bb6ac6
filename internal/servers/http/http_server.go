package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"directChat/configs"
	"directChat/internal/handlers"
	"directChat/pkg/logger"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

var (
	httpServer *HttpServer
	once       sync.Once
)

type HttpServer struct {
	ctx           context.Context
	config        *configs.Config
	router        *gin.Engine
	restHandler   *handlers.RestHandler
	socketHandler *handlers.SocketChatHandler
}

func NewHttpServer(
	ctx context.Context,
	config *configs.Config,
	restHandler *handlers.RestHandler,
	socketHandler *handlers.SocketChatHandler,
) *HttpServer {
	once.Do(func() {
		httpServer = &HttpServer{
			ctx:           ctx,
			config:        config,
			restHandler:   restHandler,
			socketHandler: socketHandler,
		}
	})
	return httpServer
}

func (hs *HttpServer) Run() {
	hs.router = gin.Default()

	hs.setupRestfulRoutes()
	hs.setupWebSocketRoutes()
	hs.socketHandler.StartSocket()

	server := hs.startServer()
	hs.waitForShutdown(server)
}

func (hs *HttpServer) setupRestfulRoutes() {
	hs.router.POST("/register", hs.restHandler.Register)
	hs.router.POST("/login", hs.restHandler.Login)

	authenticated := hs.router.Group("/", hs.restHandler.MustAuthenticateMiddleware())
	authenticated.GET("/users", hs.restHandler.GetUsers)
	authenticated.GET("/conversations", hs.restHandler.GetConversations)
	authenticated.GET("/conversations/:partnerId/messages", hs.restHandler.GetThread)
	authenticated.POST("/messages", hs.restHandler.SendMessage)
	authenticated.POST("/users/avatar", hs.restHandler.UploadAvatar)

	hs.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func (hs *HttpServer) setupWebSocketRoutes() {
	hs.router.GET("/ws", hs.socketHandler.HandleSocketChatRoute)
}

func (hs *HttpServer) startServer() *http.Server {
	addr := fmt.Sprintf(":%d", hs.config.Viper.GetInt("server.port"))
	server := &http.Server{
		Addr:    addr,
		Handler: hs.router,
	}

	go func() {
		logger.Info("HTTP server started", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	return server
}

func (hs *HttpServer) waitForShutdown(server *http.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	if err := server.Shutdown(hs.ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	hs.socketHandler.Shutdown()
	logger.Info("server exiting")
}
