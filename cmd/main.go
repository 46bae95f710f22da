package main

import "github.com/mlazarev/taskman/internal/app"

func main() {
	app.InitDefaultLogger()
	app.MustReadEnv()
	app.MustInitApplicationLogger()

	app.MustConnectPostgres()
	defer app.DisconnectPostgres()

	app.SeedDemoUser()

	app.MustListenAndServeHTTP()
}
