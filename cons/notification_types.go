package cons

// 通知类型（notification.type）
const (
	NotificationNotice    = "notice"    // 公告审核通过等
	NotificationComment   = "comment"   // 公告收到新评论
	NotificationEmergency = "emergency" // 紧急公告广播
	NotificationSystem    = "system"    // 系统消息
)

// WS 推送的事件类型
const (
	EventNotification = "notification"
)

// 审计日志 action
const (
	ActionRegister        = "register"
	ActionLogin           = "login"
	ActionLogout          = "logout"
	ActionCreateNotice    = "create_notice"
	ActionUpdateNotice    = "update_notice"
	ActionDeleteNotice    = "delete_notice"
	ActionApproveNotice   = "approve_notice"
	ActionCreateComment   = "create_comment"
	ActionCreateUser      = "create_user"
	ActionUpdateUser      = "update_user"
	ActionDeleteUser      = "delete_user"
	ActionRestoreUser     = "restore_user"
	ActionPurgeUser       = "permanent_delete_user"
	ActionReconcileNotice = "reconcile_notice"
)

// 审计日志 entity_type
const (
	EntityUser    = "user"
	EntityNotice  = "notice"
	EntityComment = "comment"
)
