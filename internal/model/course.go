package model

import (
	"time"
)

// Course 课程。UnlockRole 非空时，购买成功会为买家解锁该角色。
type Course struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	TeacherID   int64     `gorm:"not null;index" json:"teacher_id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Price       float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	UnlockRole  string    `gorm:"size:20" json:"unlock_role,omitempty"`
	IsPublished bool      `gorm:"default:false;index" json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Course) TableName() string {
	return "courses"
}

// Enrollment 课程报名记录，由支付结算写入
type Enrollment struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:idx_user_course" json:"user_id"`
	CourseID  int64     `gorm:"not null;uniqueIndex:idx_user_course" json:"course_id"`
	OrderID   int64     `gorm:"not null" json:"order_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
