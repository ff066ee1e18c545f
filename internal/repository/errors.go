package repository

import (
	"errors"
)

// 这些错误对应调用方可以自行纠正的业务冲突，handler 层把它们翻译成对应的提示；
// 其余错误一律按服务器内部错误处理
var (
	ErrOpenSessionExists = errors.New("用户已有未结束的会话")
	ErrNoOpenSession     = errors.New("用户没有未结束的会话")
	ErrNoOpenWorkSession = errors.New("用户当前没有进行中的工作会话")
	ErrRollCallClosed    = errors.New("点名已被处理")
	ErrHourAlreadySeeded = errors.New("该小时的点名已生成")
)
