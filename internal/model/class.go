package model

// Class 课程表 — 对应 classes
type Class struct {
	ClassID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"class_id"`
	Subject string  `gorm:"type:varchar(100);not null;index"               json:"subject"`
	Cost    float64 `gorm:"type:numeric(10,2);not null"                    json:"cost"`
	TutorID string  `gorm:"type:uuid;not null;index"                       json:"tutor_id"`
	CreatedModel

	// 关联
	Tutor     *Tutor          `gorm:"foreignKey:TutorID;references:TutorID" json:"tutor,omitempty"`
	Schedules []ClassSchedule `gorm:"foreignKey:ClassID;references:ClassID" json:"schedules,omitempty"`
}

// TableName 指定表名
func (Class) TableName() string { return "classes" }

// ClassWithTutor 课程检索结果：课程字段与所属教师字段平铺为一行
type ClassWithTutor struct {
	ClassID  string  `gorm:"column:class_id"`
	Subject  string  `gorm:"column:subject"`
	Cost     float64 `gorm:"column:cost"`
	TutorID  string  `gorm:"column:tutor_id"`
	Name     string  `gorm:"column:name"`
	Avatar   string  `gorm:"column:avatar"`
	Bio      string  `gorm:"column:bio"`
	Whatsapp string  `gorm:"column:whatsapp"`
}
