package dto

// ── 课程模块 DTO ──

// ClassSearchRequest 课程检索参数
// 三个条件均为必填，保持字符串形式以区分"缺失"与"非法"
type ClassSearchRequest struct {
	WeekDay string `form:"week_day"`
	Subject string `form:"subject"`
	Time    string `form:"time"` // "HH:MM"
}

// ScheduleItemRequest 单个每周时段
type ScheduleItemRequest struct {
	WeekDay *int   `json:"week_day" binding:"required"` // 0=周日 … 6=周六
	From    string `json:"from"     binding:"required"` // "08:00"
	To      string `json:"to"       binding:"required"` // "10:00"
}

// CreateClassRequest 登记教师与课程请求
type CreateClassRequest struct {
	Name     string                `json:"name"     binding:"required"`
	Avatar   string                `json:"avatar"`
	Bio      string                `json:"bio"`
	Whatsapp string                `json:"whatsapp" binding:"required"`
	Subject  string                `json:"subject"  binding:"required"`
	Cost     *float64              `json:"cost"     binding:"required"`
	Schedule []ScheduleItemRequest `json:"schedule" binding:"required,min=1,dive"`
}

// ClassResponse 课程检索结果（课程与教师字段平铺）
type ClassResponse struct {
	ID       string  `json:"id"`
	Subject  string  `json:"subject"`
	Cost     float64 `json:"cost"`
	TutorID  string  `json:"tutor_id"`
	Name     string  `json:"name"`
	Avatar   string  `json:"avatar"`
	Bio      string  `json:"bio"`
	Whatsapp string  `json:"whatsapp"`
}

// ScheduleResponse 时段信息响应
type ScheduleResponse struct {
	ID      string `json:"id"`
	WeekDay int    `json:"week_day"`
	From    string `json:"from"`
	To      string `json:"to"`
}

// TutorBrief 教师简要信息
type TutorBrief struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
	Bio      string `json:"bio"`
	Whatsapp string `json:"whatsapp"`
}

// ClassDetailResponse 课程详情（GET /classes/:id）
type ClassDetailResponse struct {
	ID        string             `json:"id"`
	Subject   string             `json:"subject"`
	Cost      float64            `json:"cost"`
	Tutor     *TutorBrief        `json:"tutor,omitempty"`
	Schedule  []ScheduleResponse `json:"schedule"`
	CreatedAt string             `json:"created_at"`
}
