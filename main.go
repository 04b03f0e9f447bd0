package main

import (
	"log"

	"mealsaver-backend/db"
	"mealsaver-backend/routes"

	"github.com/gin-gonic/gin"
)

// @title API Meal Saver Backend
// @version 1.0
// @description API pour le suivi de garde-manger et la facturation Meal Saver
// @host localhost:8080
// @BasePath /
// @SecurityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Entrez le JWT avec le préfixe Bearer: Bearer <JWT>
func main() {

	gin.SetMode(gin.ReleaseMode)

	// Initialiser la base de données
	db.InitDB()

	r := routes.SetupRouter()

	if err := r.Run(":8080"); err != nil {
		log.Fatal("Erreur lors du démarrage du serveur:", err)
	}
}
