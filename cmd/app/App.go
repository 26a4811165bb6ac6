package app

import (
	"context"
	"sync"

	"directChat/configs"
	"directChat/internal/handlers"
	"directChat/internal/repositories"
	"directChat/internal/servers/database"
	"directChat/internal/servers/http"
	"directChat/internal/services"

	"github.com/redis/go-redis/v9"
)

var (
	app  *App
	once sync.Once
)

type App struct {
	redis   *redis.Client
	ctx     context.Context
	configs *configs.Config
}

func GetApp() *App {
	once.Do(func() {
		app = &App{}
	})
	return app
}

func (app *App) LetsGo() {
	app.ctx = context.Background()
	app.configs = configs.GetConfig()
	app.initializeRedis()

	db := database.GetDB(app.configs)

	authRepo := repositories.NewAuthenticationRepository(db)
	authService := services.NewAuthenticationService(authRepo, app.configs)

	chatRepo := repositories.NewChatRepository(db)
	notifier := services.NewRedisMessageNotifier(app.redis)
	chatService := services.NewChatService(chatRepo, notifier)

	minioService := services.NewMinioService(app.configs)
	fileManagerService := services.NewFileManagerService(minioService)

	restHandler := handlers.NewRestHandler(
		authService,
		chatService,
		fileManagerService,
	)
	socketChatHandler := handlers.NewSocketChatHandler(app.redis, app.ctx, chatService)

	http.NewHttpServer(
		app.ctx,
		app.configs,
		restHandler,
		socketChatHandler,
	).Run()
}

func (app *App) initializeRedis() {
	app.redis = redis.NewClient(&redis.Options{
		Addr: app.configs.Viper.GetString("redis.addr"),
	})
}
