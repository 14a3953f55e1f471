package service

import (
	"github.com/golivishiva/Digital-Notice-Board/cons"
	"github.com/golivishiva/Digital-Notice-Board/models"
)

// Action 受控操作
type Action string

const (
	ActNoticeCreate   Action = "notice.create"
	ActNoticeUpdate   Action = "notice.update"
	ActNoticeDelete   Action = "notice.delete"
	ActNoticeArchive  Action = "notice.archive"
	ActNoticeApprove  Action = "notice.approve"
	ActNoticeRead     Action = "notice.read"
	ActNoticeInteract Action = "notice.interact"
	ActNoticeComment  Action = "notice.comment"
	ActAdmin          Action = "admin"
)

type grant uint8

const (
	deny grant = iota
	allow
	ownOnly
)

// 角色能力表；未列出的组合一律拒绝
var policy = map[string]map[Action]grant{
	cons.RoleAdmin: {
		ActNoticeCreate:   allow,
		ActNoticeUpdate:   allow,
		ActNoticeDelete:   allow,
		ActNoticeArchive:  allow,
		ActNoticeApprove:  allow,
		ActNoticeRead:     allow,
		ActNoticeInteract: allow,
		ActNoticeComment:  allow,
		ActAdmin:          allow,
	},
	cons.RoleStaff: {
		ActNoticeCreate:   allow,
		ActNoticeUpdate:   ownOnly,
		ActNoticeDelete:   ownOnly,
		ActNoticeArchive:  ownOnly,
		ActNoticeRead:     allow,
		ActNoticeInteract: allow,
		ActNoticeComment:  allow,
	},
	cons.RoleStudent: {
		// 学生不能发布，因此 ownOnly 实际永远不会命中自己的公告
		ActNoticeUpdate:   ownOnly,
		ActNoticeDelete:   ownOnly,
		ActNoticeArchive:  ownOnly,
		ActNoticeRead:     allow,
		ActNoticeInteract: allow,
		ActNoticeComment:  allow,
	},
}

// Can 判断 actor 是否可以对 ownerID 拥有的资源执行 action。
// 对不涉及所有者的操作 ownerID 传空。
func Can(actor *models.User, action Action, ownerID string) bool {
	if !actor.CanAuthenticate() {
		return false
	}
	switch policy[actor.Role][action] {
	case allow:
		return true
	case ownOnly:
		return ownerID != "" && ownerID == actor.ID
	default:
		return false
	}
}
