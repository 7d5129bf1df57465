package dto

// PublishPostRequest 发布动态/文章
type PublishPostRequest struct {
	Title   string   `json:"title" binding:"required,max=200"`
	Content string   `json:"content" binding:"required"`
	Tags    []string `json:"tags"`
}

// PostListItem 动态列表项
type PostListItem struct {
	ID        int64    `json:"id"`
	Title     string   `json:"title"`
	Tags      []string `json:"tags,omitempty"`
	ViewCount int      `json:"view_count"`
	LikeCount int      `json:"like_count"`
	CreatedAt string   `json:"created_at"`
}

// CreateWorkRequest 创建 AI 音乐生成作品
type CreateWorkRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Prompt      string `json:"prompt" binding:"required"`
	Style       string `json:"style"`
	DurationSec int    `json:"duration_sec"`
}

// CreateWorkResponse 创建结果
type CreateWorkResponse struct {
	WorkID int64 `json:"work_id"`
}

// WorkListItem 作品列表项
type WorkListItem struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Style       string `json:"style,omitempty"`
	Status      string `json:"status"`
	AudioOSSURL string `json:"audio_oss_url,omitempty"`
	CreatedAt   string `json:"created_at"`
}
