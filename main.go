package main

import (
	_ "embed"

	"github.com/haierkeys/start-page-service/cmd"
)

//go:embed config/config.yaml
var c string

// @title Start Page Service API
// @version 1.0
// @description Self-update orchestrator and admin API of Start Page Service
// @BasePath /
// @securityDefinitions.apikey UserAuthToken
// @in header
// @name token
func main() {
	cmd.Execute(c)
}
