package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/sysu-ecnc-dev/team-monitor/backend/internal/domain"
	"github.com/sysu-ecnc-dev/team-monitor/backend/internal/repository"
)

// 所有会话操作都以服务器时间为准，客户端传来的时间戳一律不接受，防止倒填打卡时间

func (h *Handler) StartWork(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req struct {
		TaskDescription string `json:"taskDescription"`
	}
	// 请求体可以为空
	if r.ContentLength > 0 {
		if err := h.readJSON(r, &req); err != nil {
			h.badRequest(w, r, err)
			return
		}
	}

	session, err := h.repository.StartWorkSession(myInfo, req.TaskDescription, time.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrOpenSessionExists):
			h.errorResponse(w, r, "已有进行中的会话，请先结束当前会话")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "开始工作", session)
}

func (h *Handler) StartLunch(w http.ResponseWriter, r *http.Request) {
	h.startBreak(w, r, domain.SessionTypeLunch, "开始午休")
}

func (h *Handler) StartShortBreak(w http.ResponseWriter, r *http.Request) {
	h.startBreak(w, r, domain.SessionTypeShortBreak, "开始小休")
}

func (h *Handler) startBreak(w http.ResponseWriter, r *http.Request, sessionType domain.SessionType, successMsg string) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	session, err := h.repository.StartBreakSession(myInfo, sessionType, time.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNoOpenWorkSession):
			h.errorResponse(w, r, "需要先开始工作才能休息")
		case errors.Is(err, repository.ErrOpenSessionExists):
			h.errorResponse(w, r, "已有进行中的会话，请先结束当前会话")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, successMsg, session)
}

// StopSession 结束当前进行中的会话，不论其类型
func (h *Handler) StopSession(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	session, err := h.repository.StopOpenSession(myInfo.ID, time.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNoOpenSession):
			h.errorResponse(w, r, "当前没有进行中的会话")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "会话已结束", session)
}

// EndBreakSession 的语义和 StopSession 相同，单独一个名字是为了前端路由清晰
func (h *Handler) EndBreakSession(w http.ResponseWriter, r *http.Request) {
	h.StopSession(w, r)
}

func (h *Handler) GetOpenSession(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	session, err := h.repository.GetOpenSession(myInfo.ID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.successResponse(w, r, "当前没有进行中的会话", nil)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "获取当前会话成功", session)
}
