package main

import "funilaria-puma/backend/internal/app"

func main() {
	app.Run()
}
