package main

import (
	"fmt"
	"os"
	"strings"

	"fjacquet/budget-rollup/cmd/breakdown"
	"fjacquet/budget-rollup/cmd/codes"
	"fjacquet/budget-rollup/cmd/root"
	"fjacquet/budget-rollup/cmd/serve"
	"fjacquet/budget-rollup/internal/config"
	"fjacquet/budget-rollup/internal/logging"

	"github.com/sirupsen/logrus"
)

func init() {
	// .env must be loaded before the log level is read
	config.LoadEnv()

	logging.SetAllLogLevels(logLevelFromEnv())

	root.Init()
	root.Cmd.AddCommand(breakdown.Cmd)
	root.Cmd.AddCommand(codes.Cmd)
	root.Cmd.AddCommand(serve.Cmd)
}

// logLevelFromEnv reads LOG_LEVEL, defaulting to info.
func logLevelFromEnv() logrus.Level {
	level, err := logrus.ParseLevel(strings.ToLower(config.GetEnv("LOG_LEVEL", "info")))
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
