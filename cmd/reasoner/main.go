package main

import (
	"scireasoner/internal/cli"
	"scireasoner/internal/util"
	"scireasoner/pkg/logger"
	"scireasoner/pkg/logger/console"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	cli.Execute()
}
