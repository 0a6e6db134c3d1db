package main

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	"gridwatch/cmd/controllers"
	"gridwatch/internal/config"
	"gridwatch/internal/repo"
	"gridwatch/internal/services"
)

const defaultConfigPath = "config.json"

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = defaultConfigPath
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := repo.Connect(cfg.DBDSN)
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}

	if err := repo.Migrate(db, cfg); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	sourceService, err := services.NewSourceService(db)
	if err != nil {
		log.Fatalf("create source service: %v", err)
	}

	logService, err := services.NewLogService(db)
	if err != nil {
		log.Fatalf("create log service: %v", err)
	}

	timeService, err := services.NewTimeService(services.OperatorZone)
	if err != nil {
		log.Fatalf("create time service: %v", err)
	}

	fetchService, err := services.NewFetchService(nil)
	if err != nil {
		log.Fatalf("create fetch service: %v", err)
	}

	indexService, err := services.NewIndexService(cfg.BaseReportURL, fetchService, logService)
	if err != nil {
		log.Fatalf("create index service: %v", err)
	}

	reportService, err := services.NewReportService(logService, nil)
	if err != nil {
		log.Fatalf("create report service: %v", err)
	}

	generationService, err := services.NewGenerationService(indexService, reportService, timeService, logService)
	if err != nil {
		log.Fatalf("create generation service: %v", err)
	}

	loadService, err := services.NewLoadService(indexService, reportService, timeService, fetchService, cfg.RealtimeURL, logService)
	if err != nil {
		log.Fatalf("create load service: %v", err)
	}

	dataService, err := services.NewDataService(db, logService)
	if err != nil {
		log.Fatalf("create data service: %v", err)
	}

	exportService, err := services.NewExportService(dataService, logService)
	if err != nil {
		log.Fatalf("create export service: %v", err)
	}

	pipelineService, err := services.NewPipelineService(
		generationService,
		loadService,
		dataService,
		logService,
	)
	if err != nil {
		log.Fatalf("create pipeline service: %v", err)
	}

	sourcesController, err := controllers.NewSourcesController(sourceService)
	if err != nil {
		log.Fatalf("create sources controller: %v", err)
	}

	logsController, err := controllers.NewLogsController(logService)
	if err != nil {
		log.Fatalf("create logs controller: %v", err)
	}

	refreshController, err := controllers.NewRefreshController(pipelineService)
	if err != nil {
		log.Fatalf("create refresh controller: %v", err)
	}

	dataController, err := controllers.NewDataController(dataService)
	if err != nil {
		log.Fatalf("create data controller: %v", err)
	}

	loadController, err := controllers.NewLoadController(loadService)
	if err != nil {
		log.Fatalf("create load controller: %v", err)
	}

	exportController, err := controllers.NewExportController(exportService)
	if err != nil {
		log.Fatalf("create export controller: %v", err)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	if err := controllers.RegisterHealthRoutes(router); err != nil {
		log.Fatalf("register health routes: %v", err)
	}
	if err := sourcesController.RegisterRoutes(router); err != nil {
		log.Fatalf("register sources routes: %v", err)
	}
	if err := logsController.RegisterRoutes(router); err != nil {
		log.Fatalf("register logs routes: %v", err)
	}
	if err := refreshController.RegisterRoutes(router); err != nil {
		log.Fatalf("register refresh routes: %v", err)
	}
	if err := dataController.RegisterRoutes(router); err != nil {
		log.Fatalf("register data routes: %v", err)
	}
	if err := loadController.RegisterRoutes(router); err != nil {
		log.Fatalf("register load routes: %v", err)
	}
	if err := exportController.RegisterRoutes(router); err != nil {
		log.Fatalf("register export routes: %v", err)
	}

	if err := startCron(pipelineService); err != nil {
		log.Fatalf("start cron: %v", err)
	}

	addr := ":8080"
	if err := router.Run(addr); err != nil {
		log.Fatalf("run server: %v", err)
	}
}

type pipelineRefresher interface {
	Refresh(ctx context.Context) error
}

func startCron(service pipelineRefresher) error {
	if service == nil {
		return errors.New("pipeline service is nil")
	}

	scheduler := cron.New()

	if _, err := scheduler.AddFunc("@every 1h", func() {
		if err := service.Refresh(context.Background()); err != nil {
			log.Printf("refresh reports: %v", err)
		}
	}); err != nil {
		return err
	}

	scheduler.Start()
	return nil
}
