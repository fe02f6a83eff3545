package model

// ClassSchedule 课程每周时段表 — 对应 class_schedules
// 时段为半开区间 [FromMinute, ToMinute)，单位为当日分钟数
type ClassSchedule struct {
	ClassScheduleID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"class_schedule_id"`
	ClassID         string `gorm:"type:uuid;not null;index:idx_class_schedules_lookup,priority:1" json:"class_id"`
	WeekDay         int    `gorm:"type:smallint;not null;index:idx_class_schedules_lookup,priority:2" json:"week_day"` // 0=周日 … 6=周六
	FromMinute      int    `gorm:"not null"                                       json:"from_minute"`
	ToMinute        int    `gorm:"not null"                                       json:"to_minute"`
}

// TableName 指定表名
func (ClassSchedule) TableName() string { return "class_schedules" }

// Covers 判断该时段是否覆盖指定星期的某一分钟
// 开始时刻包含在内，结束时刻不包含
func (s ClassSchedule) Covers(weekDay, minute int) bool {
	return s.WeekDay == weekDay && s.FromMinute <= minute && s.ToMinute > minute
}

// AnyScheduleCovers 课程是否存在至少一个覆盖该时刻的时段（半连接语义）
func AnyScheduleCovers(slots []ClassSchedule, weekDay, minute int) bool {
	for _, s := range slots {
		if s.Covers(weekDay, minute) {
			return true
		}
	}
	return false
}
