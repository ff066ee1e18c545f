package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/team-monitor/backend/internal/attendance"
	"github.com/sysu-ecnc-dev/team-monitor/backend/internal/domain"
	"github.com/sysu-ecnc-dev/team-monitor/backend/internal/repository"
	"github.com/sysu-ecnc-dev/team-monitor/backend/internal/rollcall"
)

func (h *Handler) GetMyPendingRollCall(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	rc, err := h.repository.GetPendingRollCall(myInfo.ID, time.Now().UTC())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.successResponse(w, r, "当前没有待响应的点名", nil)
			return
		}
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取待响应点名成功", rc)
}

func (h *Handler) RespondRollCall(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "无效的点名 ID")
		return
	}

	rc, err := h.repository.GetRollCallByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.errorResponse(w, r, "点名不存在")
			return
		}
		h.internalServerError(w, r, err)
		return
	}

	// 只有被点到的人自己可以响应
	if rc.UserID != myInfo.ID {
		h.forbiddenResponse(w, r, "您无权响应此点名")
		return
	}

	updated, err := h.repository.RespondRollCall(id, time.Now().UTC())
	if err != nil {
		if errors.Is(err, repository.ErrRollCallClosed) {
			h.errorResponse(w, r, "点名已被处理")
			return
		}
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "响应点名成功", updated)
}

// userInShiftWindow 判断用户此刻是否处在自己的某个班次窗口内。
// 没有任何班次安排的用户按组织时区的整天窗口处理，始终视为在窗口内
func (h *Handler) userInShiftWindow(user *domain.User, date attendance.Date, orgLoc *time.Location, now time.Time) (bool, error) {
	assignments, templates, err := h.repository.GetUserShiftSchedule(user.ID)
	if err != nil {
		return false, err
	}

	if len(assignments) == 0 {
		return true, nil
	}

	windows, err := attendance.WindowsForDay(templates, assignments, date)
	if err != nil {
		return false, err
	}

	for _, window := range windows {
		if window.Contains(now) {
			return true, nil
		}
	}

	return false, nil
}

// RollCallTick 由 cron 每小时整点调用，为每个组织生成这一小时的点名。
// 同一小时重复调用是空操作，幂等性由数据库层的播种记录保证
func (h *Handler) RollCallTick(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	hourStart := rollcall.HourBucket(now)
	rng := rand.New(rand.NewSource(now.UnixNano()))

	orgs, err := h.repository.GetAllOrganizations()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	seeded := 0
	for _, org := range orgs {
		count := rollcall.ClampPerHour(org.RollCallsPerHour, h.config.RollCall.DefaultPerHour)
		responseWindow := time.Duration(org.ResponseWindowMinutes) * time.Minute

		times := rollcall.GenerateTimes(hourStart, now, count, rollcall.Params{
			MinGap:         time.Duration(h.config.RollCall.MinGapMinutes) * time.Minute,
			MaxGap:         time.Duration(h.config.RollCall.MaxGapMinutes) * time.Minute,
			ResponseWindow: responseWindow,
		}, rng)

		orgLoc := h.orgLocation(org)
		date := attendance.DateOf(now, orgLoc)

		candidates, err := h.repository.GetEligibleRollCallCandidates(org.ID, now, date.String())
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}

		eligible := make([]*domain.User, 0, len(candidates))
		for _, candidate := range candidates {
			ok, err := h.userInShiftWindow(candidate, date, orgLoc, now)
			if err != nil {
				h.internalServerError(w, r, err)
				return
			}
			if ok {
				eligible = append(eligible, candidate)
			}
		}

		entries := rollcall.Assign(times, eligible, responseWindow, rng)

		// 即使这一小时没有可点名的人也要记录播种，保持幂等键完整
		n, err := h.repository.SeedRollCalls(org.ID, hourStart, entries)
		if err != nil {
			if errors.Is(err, repository.ErrHourAlreadySeeded) {
				continue
			}
			h.internalServerError(w, r, err)
			return
		}
		seeded += n
	}

	h.successResponse(w, r, "点名生成完成", map[string]int{"seeded": seeded})
}

// RollCallExpire 由 cron 定期调用，清扫超过截止时间仍未响应的点名，
// 并给被记为 MISSED 的用户发送通知邮件
func (h *Handler) RollCallExpire(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()

	expired, err := h.repository.ExpireRollCalls(now)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	for _, rc := range expired {
		user, err := h.repository.GetUserByID(rc.UserID)
		if err != nil {
			slog.Error("无法获取缺席点名的用户信息", "user_id", rc.UserID, "error", err)
			continue
		}

		org, err := h.repository.GetOrganizationByID(rc.OrgID)
		if err != nil {
			slog.Error("无法获取缺席点名的组织信息", "org_id", rc.OrgID, "error", err)
			continue
		}

		mailMessage := domain.MailMessage{
			Type: "rollcall_missed",
			To:   user.Email,
			Data: domain.RollCallMissedMailData{
				FullName:         user.FullName,
				TriggeredAt:      rc.TriggeredAt.In(h.orgLocation(org)).Format("2006-01-02 15:04"),
				DeductionMinutes: org.ResponseWindowMinutes,
			},
		}

		mailData, err := json.Marshal(mailMessage)
		if err != nil {
			slog.Error("无法序列化缺席通知邮件", "error", err)
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
		err = h.mailChannel.PublishWithContext(
			ctx,
			"",
			"email_queue",
			true,
			false,
			amqp.Publishing{
				ContentType: "application/json",
				Body:        mailData,
			},
		)
		cancel()
		if err != nil {
			slog.Error("无法发送缺席通知邮件", "error", err)
		}
	}

	h.successResponse(w, r, "过期点名清扫完成", map[string]int{"expired": len(expired)})
}
