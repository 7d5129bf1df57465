package model

// 平台角色
const (
	RoleTeacher    = "teacher"
	RoleArtist     = "artist"
	RoleDirector   = "director"
	RoleDoctor     = "doctor"
	RoleAstrologer = "astrologer"
)

// Roles 全部合法角色
var Roles = []string{RoleTeacher, RoleArtist, RoleDirector, RoleDoctor, RoleAstrologer}

// RoleDashboards 角色解锁后跳转的控制台，固定映射表
var RoleDashboards = map[string]string{
	RoleTeacher:    "teacher",
	RoleArtist:     "artist",
	RoleDirector:   "director",
	RoleDoctor:     "doctor",
	RoleAstrologer: "astrologer",
}

// IsValidRole 角色是否合法
func IsValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}
