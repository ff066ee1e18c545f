package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/team-monitor/backend/internal/config"
	"github.com/sysu-ecnc-dev/team-monitor/backend/internal/repository"
	"github.com/sysu-ecnc-dev/team-monitor/backend/internal/seed"
	"github.com/sysu-ecnc-dev/team-monitor/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var orgID int64

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机用户, 2: 插入随机班次模板, 3: 插入整套演示数据)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.Int64Var(&orgID, "org-id", 0, "目标组织 ID（操作 1 和 2 需要）")
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
			slog.Error("请输入合法的用户数量")
			return
		}
		if orgID <= 0 {
			slog.Error("请输入合法的组织 ID")
			return
		}

		org, err := repo.GetOrganizationByID(orgID)
		if err != nil {
			slog.Error("无法获取组织信息", slog.String("error", err.Error()))
			return
		}

		cnt := n
		for i := 0; i < n; i++ {
			user, err := utils.GenerateRandomUser(org.ID, cfg.Seed.User.Password, cfg.Email.UserDomain, org.Timezone)
			if err != nil {
				slog.Error("无法生成随机用户", slog.String("error", err.Error()))
				continue
			}

			if err := repo.CreateUser(user); err != nil {
				slog.Error("无法插入用户", slog.String("error", err.Error()))
				continue
			}

			cnt--
		}

		slog.Info("插入用户成功", slog.Int("count", n-cnt))
	case 2:
		if n <= 0 {
			slog.Error("请输入合法的班次模板数量")
			return
		}
		if orgID <= 0 {
			slog.Error("请输入合法的组织 ID")
			return
		}

		org, err := repo.GetOrganizationByID(orgID)
		if err != nil {
			slog.Error("无法获取组织信息", slog.String("error", err.Error()))
			return
		}

		cnt := n
		for i := 0; i < n; i++ {
			tpl := utils.GenerateRandomShiftTemplate(org.ID, org.Timezone)
			if err := repo.CreateShiftTemplate(tpl); err != nil {
				slog.Error("无法插入班次模板", slog.String("error", err.Error()))
				continue
			}

			cnt--
		}

		slog.Info("插入班次模板成功", slog.Int("count", n-cnt))
	case 3:
		seed.SeedDemoData(repo, cfg, n, 3)
	default:
		slog.Error("指定的操作非法")
	}
}
