package model

// 配额周期粒度
const (
	PeriodDaily   = "daily"
	PeriodMonthly = "monthly"
)

// 资源类型
const (
	KindWorks   = "works"   // AI 音乐生成作品
	KindPosts   = "posts"   // 发布的动态/文章
	KindCourses = "courses" // 教师创建的课程
)

// ResourceKind 资源类型的配额属性
type ResourceKind struct {
	Period  string // daily / monthly
	Publish bool   // 发布类内容，提交前需通过内容审核
}

// ResourceKinds 资源类型注册表。所有角色共用同一套配额逻辑，
// 角色差异只体现在套餐的 usage_limits 里。
var ResourceKinds = map[string]ResourceKind{
	KindWorks:   {Period: PeriodDaily},
	KindPosts:   {Period: PeriodMonthly, Publish: true},
	KindCourses: {Period: PeriodMonthly, Publish: true},
}

// RoleKinds 角色可操作的资源类型
var RoleKinds = map[string][]string{
	RoleTeacher:    {KindCourses, KindPosts},
	RoleArtist:     {KindWorks, KindPosts},
	RoleDirector:   {KindWorks, KindPosts},
	RoleDoctor:     {KindPosts},
	RoleAstrologer: {KindPosts},
}

// IsValidKind 资源类型是否已注册
func IsValidKind(kind string) bool {
	_, ok := ResourceKinds[kind]
	return ok
}
