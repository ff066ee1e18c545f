package domain

// DaySummary 是派生数据，每次读取时由会话、班次窗口和点名记录重新算出，从不单独落库
type DaySummary struct {
	UserID                   int64   `json:"userId"`
	Date                     string  `json:"date"` // YYYY-MM-DD
	WorkMinutes              int     `json:"workMinutes"`
	LunchMinutes             int     `json:"lunchMinutes"`
	ShortBreakMinutes        int     `json:"shortBreakMinutes"`
	OverbreakMinutes         int     `json:"overbreakMinutes"`
	RollCallDeductionMinutes int     `json:"rollCallDeductionMinutes"`
	NetHours                 float64 `json:"netHours"`
}

// RangeSummary 是若干 DaySummary 的逐日相加，不在这一层产生新的扣减
type RangeSummary struct {
	UserID                   int64   `json:"userId"`
	StartDate                string  `json:"startDate"`
	EndDate                  string  `json:"endDate"`
	WorkMinutes              int     `json:"workMinutes"`
	LunchMinutes             int     `json:"lunchMinutes"`
	ShortBreakMinutes        int     `json:"shortBreakMinutes"`
	OverbreakMinutes         int     `json:"overbreakMinutes"`
	RollCallDeductionMinutes int     `json:"rollCallDeductionMinutes"`
	NetHours                 float64 `json:"netHours"`
	Days                     []DaySummary `json:"days"`
}
