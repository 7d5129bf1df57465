package dto

// UpdateProfileRequest 更新个人资料
type UpdateProfileRequest struct {
	Nickname string `json:"nickname" binding:"max=50"`
}

// ProfileResponse 个人资料
type ProfileResponse struct {
	ID        int64    `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email,omitempty"`
	Nickname  string   `json:"nickname,omitempty"`
	AvatarURL string   `json:"avatar_url,omitempty"`
	Roles     []string `json:"roles"`
}
