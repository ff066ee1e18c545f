package seed

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/sysu-ecnc-dev/team-monitor/backend/internal/config"
	"github.com/sysu-ecnc-dev/team-monitor/backend/internal/domain"
	"github.com/sysu-ecnc-dev/team-monitor/backend/internal/repository"
	"github.com/sysu-ecnc-dev/team-monitor/backend/internal/utils"
)

// SeedDemoData 在数据库中插入一套可以直接登录体验的演示数据：
// 一个演示组织、若干用户、若干班次模板，并把每个用户安排进一个班次
func SeedDemoData(repo *repository.Repository, cfg *config.Config, userCount int, templateCount int) {
	org, err := repo.EnsureOrganization(
		"演示组织",
		cfg.InitialOrg.Timezone,
		cfg.RollCall.DefaultPerHour,
		cfg.RollCall.ResponseWindowMinutes,
	)
	if err != nil {
		slog.Error("无法创建演示组织", slog.String("error", err.Error()))
		return
	}

	users := make([]*domain.User, 0, userCount)
	for i := 0; i < userCount; i++ {
		user, err := utils.GenerateRandomUser(org.ID, cfg.Seed.User.Password, cfg.Email.UserDomain, org.Timezone)
		if err != nil {
			slog.Error("无法生成随机用户", slog.String("error", err.Error()))
			continue
		}
		if err := repo.CreateUser(user); err != nil {
			slog.Error("无法插入用户", slog.String("error", err.Error()))
			continue
		}
		users = append(users, user)
	}
	slog.Info("插入演示用户成功", slog.Int("count", len(users)))

	templates := make([]*domain.ShiftTemplate, 0, templateCount)
	for i := 0; i < templateCount; i++ {
		tpl := utils.GenerateRandomShiftTemplate(org.ID, org.Timezone)
		if err := repo.CreateShiftTemplate(tpl); err != nil {
			slog.Error("无法插入班次模板", slog.String("error", err.Error()))
			continue
		}
		templates = append(templates, tpl)
	}
	slog.Info("插入班次模板成功", slog.Int("count", len(templates)))

	if len(templates) == 0 {
		return
	}

	// 从上周一开始生效，方便立刻查看汇总
	effectiveFrom := time.Now().UTC().AddDate(0, 0, -7).Truncate(24 * time.Hour)

	assigned := 0
	for _, user := range users {
		assignment := &domain.ShiftAssignment{
			ShiftID:       templates[rand.Intn(len(templates))].ID,
			UserID:        user.ID,
			EffectiveFrom: effectiveFrom,
		}
		if err := repo.CreateShiftAssignment(assignment); err != nil {
			slog.Error("无法插入班次安排", slog.String("error", err.Error()))
			continue
		}
		assigned++
	}
	slog.Info("插入班次安排成功", slog.Int("count", assigned))
}
