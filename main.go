package main

import (
	"log"
	"time"

	"ricebook-backend/config"
	"ricebook-backend/models"
	"ricebook-backend/routes"
	"ricebook-backend/utils"
)

func main() {
	cfg := config.Load()

	if err := utils.InitLogger(cfg); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer utils.Logger.Sync()

	db := config.InitDatabase(
		&models.User{},
		&models.Profile{},
		&models.Article{},
		&models.Counter{},
		&models.PageView{},
		&models.UploadedFile{},
	)

	r := routes.SetupRouter(db)

	utils.StartUploadCleaner(5 * time.Minute)

	addr := ":" + cfg.AppPort
	utils.Sugar.Infof("server listening on %s", addr)
	if err := utils.GraceServer(addr, r); err != nil {
		utils.Sugar.Fatalf("server exited: %v", err)
	}
}
