package main

import (
	_ "go.uber.org/automaxprocs"

	"github.com/autopeer-io/fleetview/cmd/fleetview/app"
)

func main() {
	app.NewApp().Run()
}
