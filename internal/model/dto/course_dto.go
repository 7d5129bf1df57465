package dto

// CreateCourseRequest 教师创建课程
type CreateCourseRequest struct {
	Title       string  `json:"title" binding:"required,max=200"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"gte=0"`
	UnlockRole  string  `json:"unlock_role"`
	IsPublished bool    `json:"is_published"`
}

// CourseListItem 课程列表项
type CourseListItem struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	UnlockRole  string  `json:"unlock_role,omitempty"`
	Enrolled    bool    `json:"enrolled"`
	CreatedAt   string  `json:"created_at"`
}
