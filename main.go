package main

import (
	"directChat/cmd/app"
	"directChat/pkg/logger"
)

func main() {
	defer logger.Sync()
	app.GetApp().LetsGo()
}
