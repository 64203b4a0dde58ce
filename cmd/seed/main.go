package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"hkexpatjobs/internal/config"
	"hkexpatjobs/internal/database"
	"hkexpatjobs/internal/seed"
)

func main() {
	reset := flag.Bool("reset", false, "写入前清空全部业务数据")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	dbCfg, err := config.LoadDatabase()
	if err != nil {
		log.Fatalf("load database config: %v", err)
	}
	db, err := database.InitDatabase(dbCfg)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("%v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	loader := seed.NewLoader(db, logger)
	if *reset {
		if err := loader.Reset(ctx); err != nil {
			log.Fatalf("reset: %v", err)
		}
		logger.Info("existing data removed")
	}

	report, err := loader.Load(ctx)
	if err != nil {
		log.Fatalf("seed: %v", err)
	}

	fmt.Printf("演示数据写入完成：新增用户 %d，公司 %d，新增职位 %d（已存在 %d）\n",
		report.UsersCreated, report.CompaniesSaved, report.JobsCreated, report.JobsAlreadyExist)
	fmt.Println("演示账号: admin/admin123, recruiter/recruiter123, jobseeker/jobseeker123, maria/jobseeker456")
}
