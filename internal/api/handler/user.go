package handler

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lingxi-lab/lingxi_go_server/internal/api/middleware"
	"github.com/lingxi-lab/lingxi_go_server/internal/model/dto"
	"github.com/lingxi-lab/lingxi_go_server/internal/pkg/oss"
	"github.com/lingxi-lab/lingxi_go_server/internal/pkg/response"
	"github.com/lingxi-lab/lingxi_go_server/internal/repository"
	"github.com/lingxi-lab/lingxi_go_server/internal/service"
)

const maxAvatarSize = 2 << 20 // 2MB

type UserHandler struct {
	userRepo    *repository.UserRepository
	roleService *service.RoleService
	ossClient   *oss.Client
}

func NewUserHandler(userRepo *repository.UserRepository, roleService *service.RoleService, ossClient *oss.Client) *UserHandler {
	return &UserHandler{
		userRepo:    userRepo,
		roleService: roleService,
		ossClient:   ossClient,
	}
}

// GetProfile 获取个人资料
// GET /api/v1/user/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	user, err := h.userRepo.GetByID(userID)
	if err != nil {
		response.NotFoundError(c, "用户不存在")
		return
	}

	userRoles, err := h.roleService.ListRoles(userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}
	roles := make([]string, 0, len(userRoles))
	for _, ur := range userRoles {
		roles = append(roles, ur.Role)
	}

	email := ""
	if user.Email != nil {
		email = *user.Email
	}
	response.Success(c, &dto.ProfileResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     email,
		Nickname:  user.Nickname,
		AvatarURL: user.AvatarURL,
		Roles:     roles,
	})
}

// UpdateProfile 更新个人资料
// PUT /api/v1/user/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "")
		return
	}

	if err := h.userRepo.UpdateFields(userID, map[string]interface{}{
		"nickname": req.Nickname,
	}); err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "资料已更新", nil)
}

// UploadAvatar 上传头像
// POST /api/v1/user/avatar
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	if h.ossClient == nil {
		response.ServerError(c, "文件存储未配置")
		return
	}

	file, header, err := c.Request.FormFile("avatar")
	if err != nil {
		response.ParamError(c, "请选择头像文件")
		return
	}
	defer file.Close()

	if header.Size > maxAvatarSize {
		response.ParamError(c, "头像不能超过 2MB")
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
	default:
		response.ParamError(c, "不支持的图片格式")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxAvatarSize))
	if err != nil {
		response.ServerError(c, "")
		return
	}

	avatarURL, err := h.ossClient.UploadAvatar(userID, data, ext)
	if err != nil {
		response.ServerError(c, "头像上传失败")
		return
	}

	if err := h.userRepo.UpdateFields(userID, map[string]interface{}{
		"avatar_url": avatarURL,
	}); err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, gin.H{"avatar_url": avatarURL})
}
