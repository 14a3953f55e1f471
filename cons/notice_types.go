package cons

// 用户角色
const (
	RoleAdmin   = "admin"
	RoleStaff   = "staff"
	RoleStudent = "student"
)

// IsValidRole 角色是否合法
func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleStaff, RoleStudent:
		return true
	}
	return false
}

// 公告分类
const (
	CategoryExams     = "exams"
	CategoryHolidays  = "holidays"
	CategorySports    = "sports"
	CategoryEvents    = "events"
	CategoryEmergency = "emergency"
	CategoryGeneral   = "general"
)

// IsValidCategory 分类是否合法
func IsValidCategory(category string) bool {
	switch category {
	case CategoryExams, CategoryHolidays, CategorySports, CategoryEvents, CategoryEmergency, CategoryGeneral:
		return true
	}
	return false
}

// 互动类型（同一 user+notice+type 至多一行，存在即“开”）
const (
	InteractionView        = "view"
	InteractionLike        = "like"
	InteractionBookmark    = "bookmark"
	InteractionAcknowledge = "acknowledge"
)

// IsToggleInteraction 用户可切换的互动类型（view 只由详情接口记录）
func IsToggleInteraction(t string) bool {
	switch t {
	case InteractionLike, InteractionBookmark, InteractionAcknowledge:
		return true
	}
	return false
}

// 互动切换结果
const (
	InteractAdded   = "added"
	InteractRemoved = "removed"
)
