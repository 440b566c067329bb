package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/config"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/repository"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/roster"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/seed"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var effectiveFrom string
	var weekStart string

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机员工, 2: 插入随机默认班表, 3: 插入某一周的随机班次)")
	flag.IntVar(&n, "n", 5, "要插入的员工数量")
	flag.StringVar(&effectiveFrom, "effective-from", "", "默认班表的生效日期 (YYYY-MM-DD)")
	flag.StringVar(&weekStart, "week-start", "", "要插入随机班次的那一周的周一 (YYYY-MM-DD)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的员工数量")
		} else {
			seed.SeedStaff(repo, cfg.Email.UserDomain, n)
		}
	case 2:
		if effectiveFrom == "" {
			slog.Error("请通过 -effective-from 指定生效日期")
		} else {
			seed.SeedDefaultSchedules(repo, effectiveFrom)
		}
	case 3:
		if weekStart == "" {
			slog.Error("请通过 -week-start 指定周一的日期")
		} else {
			// 本地撒数据不需要缓存，解析引擎直接打数据库
			engine := roster.NewEngine(repo, repo, nil, cfg.Roster.ResolveConcurrency)
			mutations := roster.NewMutationService(engine, repo, repo, nil)
			seed.SeedWeekShifts(repo, mutations, weekStart)
		}
	default:
		slog.Error("指定的操作非法")
	}
}
