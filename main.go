package main

import (
	"log"

	"github.com/joho/godotenv"

	"siteworks/internal/app"
)

// @title           Siteworks API
// @version         1.0
// @description     Construction project management backend with phone-OTP authentication.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}
	app.Run()
}
