package model

// Tutor 教师档案表 — 对应 tutors
type Tutor struct {
	TutorID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"tutor_id"`
	Name     string `gorm:"type:varchar(100);not null"                     json:"name"`
	Avatar   string `gorm:"type:text;not null;default:''"                  json:"avatar"`
	Bio      string `gorm:"type:text;not null;default:''"                  json:"bio"`
	Whatsapp string `gorm:"type:varchar(32);not null;default:''"           json:"whatsapp"`
	CreatedModel

	// 关联
	Classes []Class `gorm:"foreignKey:TutorID;references:TutorID" json:"classes,omitempty"`
}

// TableName 指定表名
func (Tutor) TableName() string { return "tutors" }
