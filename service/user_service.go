package service

import (
	"context"
	"errors"
	"strings"

	"github.com/golivishiva/Digital-Notice-Board/cons"
	"github.com/golivishiva/Digital-Notice-Board/logger"
	"github.com/golivishiva/Digital-Notice-Board/models"
	"github.com/golivishiva/Digital-Notice-Board/repository"
	"gorm.io/gorm"
)

const minPasswordLen = 6

type UserService struct {
	*Service
	sessions *SessionService
}

func NewUserService(s *Service, sessions *SessionService) *UserService {
	return &UserService{Service: s, sessions: sessions}
}

// --- types ---

type RegisterReq struct {
	Email      string `json:"email" binding:"required,email"`
	Username   string `json:"username" binding:"required"`
	Password   string `json:"password" binding:"required,min=6"`
	FullName   string `json:"fullName" binding:"required"`
	Role       string `json:"role" binding:"required,oneof=admin staff student"`
	Department string `json:"department"`
}

type LoginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResult 登录/注册成功：用户 + 新会话
type AuthResult struct {
	User    *UserDTO
	Session *models.Session
}

// --- 实现 ---

// Register 自助注册并直接登录
func (s *UserService) Register(ctx context.Context, req RegisterReq, meta RequestMeta) (*AuthResult, error) {
	email := models.NormalizeAccount(req.Email)
	username := models.NormalizeAccount(req.Username)
	fullName := strings.TrimSpace(req.FullName)
	if email == "" || username == "" || req.Password == "" || fullName == "" || req.Role == "" {
		return nil, ErrValidation("All fields are required")
	}
	if len(req.Password) < minPasswordLen {
		return nil, ErrValidation("Password must be at least 6 characters")
	}
	if !cons.IsValidRole(req.Role) {
		return nil, ErrValidation("Invalid role")
	}
	if req.Role == cons.RoleAdmin && !s.AllowAdminSignup {
		return nil, ErrForbidden("Admin accounts can only be created by an administrator")
	}

	user := &models.User{
		Email:      email,
		Username:   username,
		FullName:   fullName,
		Role:       req.Role,
		Department: strPtr(strings.TrimSpace(req.Department)),
		IsActive:   true,
	}
	if err := s.createUser(ctx, user, req.Password); err != nil {
		return nil, err
	}

	sess, err := s.sessions.CreateSession(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	s.Activity.Log(ctx, ActivityEntry{
		UserID: user.ID, Action: cons.ActionRegister,
		EntityType: cons.EntityUser, EntityID: user.ID,
		Meta: meta,
	})
	return &AuthResult{User: toUserDTO(user), Session: sess}, nil
}

// createUser 唯一性校验 + 哈希密码 + 写库
func (s *UserService) createUser(ctx context.Context, user *models.User, password string) error {
	dao := models.NewUserDAO(s.db(ctx))
	exists, err := dao.ExistsByEmail(user.Email)
	if err != nil {
		return err
	}
	if exists {
		return ErrConflict("Email already registered")
	}
	exists, err = dao.ExistsByUsername(user.Username)
	if err != nil {
		return err
	}
	if exists {
		return ErrConflict("Username already taken")
	}

	hash, salt, err := HashPassword(password)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.PasswordSalt = salt
	now := s.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if err := dao.Create(user); err != nil {
		return duplicateOr(dao, user, err)
	}
	return nil
}

// duplicateOr 并发注册时预检查通过后仍可能撞唯一索引，按冲突处理
func duplicateOr(dao *models.UserDAO, user *models.User, err error) error {
	if exists, _ := dao.ExistsByEmail(user.Email); exists {
		return ErrConflict("Email already registered")
	}
	if exists, _ := dao.ExistsByUsername(user.Username); exists {
		return ErrConflict("Username already taken")
	}
	return err
}

// Login 邮箱 + 密码登录。
// 用户不存在、已删除、已停用、密码错误统一返回 ErrInvalidCredentials。
func (s *UserService) Login(ctx context.Context, req LoginReq, meta RequestMeta) (*AuthResult, error) {
	email := models.NormalizeAccount(req.Email)
	if email == "" || req.Password == "" {
		return nil, ErrValidation("Email and password are required")
	}

	u, err := models.NewUserDAO(s.db(ctx)).FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !u.CanAuthenticate() || !VerifyPassword(req.Password, u.PasswordHash, u.PasswordSalt) {
		return nil, ErrInvalidCredentials
	}

	sess, err := s.sessions.CreateSession(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	s.Activity.Log(ctx, ActivityEntry{UserID: u.ID, Action: cons.ActionLogin, Meta: meta})
	return &AuthResult{User: toUserDTO(u), Session: sess}, nil
}

// Logout 注销当前会话；没有会话也算成功
func (s *UserService) Logout(ctx context.Context, sid string, user *models.User, meta RequestMeta) error {
	if err := s.sessions.RevokeSession(ctx, sid); err != nil {
		return err
	}
	if user != nil {
		s.Activity.Log(ctx, ActivityEntry{UserID: user.ID, Action: cons.ActionLogout, Meta: meta})
	}
	return nil
}

// GetUser 获取用户信息（脱敏）
func (s *UserService) GetUser(ctx context.Context, userID string) (*UserDTO, error) {
	u, err := models.NewUserDAO(s.db(ctx)).FindByID(userID)
	if err != nil {
		return nil, notFoundOr(err, ErrUserNotFound)
	}
	return toUserDTO(u), nil
}

// EnsureAdmin 启动时确保存在指定的管理员账号（已存在则跳过）
func (s *UserService) EnsureAdmin(ctx context.Context, email, username, password, fullName string) error {
	email = models.NormalizeAccount(email)
	if email == "" || password == "" {
		return nil
	}
	exists, err := models.NewUserDAO(s.db(ctx)).ExistsByEmail(email)
	if err != nil || exists {
		return err
	}
	user := &models.User{
		Email:      email,
		Username:   models.NormalizeAccount(username),
		FullName:   strings.TrimSpace(fullName),
		Role:       cons.RoleAdmin,
		IsVerified: true,
		IsActive:   true,
	}
	if err := s.createUser(ctx, user, password); err != nil {
		return err
	}
	logger.Infof("bootstrap admin %s created", email)
	return nil
}

// -------------------- 后台用户管理 --------------------

type ListUsersReq struct {
	Role           string `form:"role"`
	Search         string `form:"search"`
	IncludeDeleted bool   `form:"includeDeleted"`
	Page           int    `form:"page"`
	Limit          int    `form:"limit"`
}

type UserPage struct {
	Users []UserDTO `json:"users"`
	Total int64     `json:"total"`
	Page  int       `json:"page"`
	Limit int       `json:"limit"`
}

// ListUsers 后台分页查询用户
func (s *UserService) ListUsers(ctx context.Context, req ListUsersReq) (*UserPage, error) {
	page, limit := normalizePage(req.Page, req.Limit, 50)
	users, total, err := models.NewUserDAO(s.db(ctx)).SearchUsers(models.UserFilter{
		Role:           req.Role,
		Keyword:        req.Search,
		IncludeDeleted: req.IncludeDeleted,
		Limit:          limit,
		Offset:         (page - 1) * limit,
	})
	if err != nil {
		return nil, err
	}
	out := make([]UserDTO, 0, len(users))
	for i := range users {
		out = append(out, *toUserDTO(&users[i]))
	}
	return &UserPage{Users: out, Total: total, Page: page, Limit: limit}, nil
}

type CreateUserReq struct {
	Email      string `json:"email" binding:"required,email"`
	Username   string `json:"username" binding:"required"`
	Password   string `json:"password" binding:"required,min=6"`
	FullName   string `json:"fullName" binding:"required"`
	Role       string `json:"role" binding:"required,oneof=admin staff student"`
	Department string `json:"department"`
}

// CreateUser 管理员创建用户（默认已验证）
func (s *UserService) CreateUser(ctx context.Context, actor *models.User, req CreateUserReq, meta RequestMeta) (string, error) {
	email := models.NormalizeAccount(req.Email)
	username := models.NormalizeAccount(req.Username)
	fullName := strings.TrimSpace(req.FullName)
	if email == "" || username == "" || req.Password == "" || fullName == "" || req.Role == "" {
		return "", ErrValidation("All fields are required")
	}
	if len(req.Password) < minPasswordLen {
		return "", ErrValidation("Password must be at least 6 characters")
	}
	if !cons.IsValidRole(req.Role) {
		return "", ErrValidation("Invalid role")
	}

	user := &models.User{
		Email:      email,
		Username:   username,
		FullName:   fullName,
		Role:       req.Role,
		Department: strPtr(strings.TrimSpace(req.Department)),
		IsVerified: true,
		IsActive:   true,
	}
	if err := s.createUser(ctx, user, req.Password); err != nil {
		return "", err
	}
	s.Activity.Log(ctx, ActivityEntry{
		UserID: actor.ID, Action: cons.ActionCreateUser,
		EntityType: cons.EntityUser, EntityID: user.ID,
		Metadata: map[string]any{"email": email, "role": req.Role},
		Meta:     meta,
	})
	return user.ID, nil
}

type UpdateUserReq struct {
	FullName   *string `json:"fullName"`
	Role       *string `json:"role"`
	Department *string `json:"department"`
	IsActive   *bool   `json:"isActive"`
	IsVerified *bool   `json:"isVerified"`
}

// UpdateUser 管理员修改用户资料/角色/状态
func (s *UserService) UpdateUser(ctx context.Context, actor *models.User, userID string, req UpdateUserReq, meta RequestMeta) error {
	dao := models.NewUserDAO(s.db(ctx))
	if _, err := dao.FindByID(userID); err != nil {
		return notFoundOr(err, ErrUserNotFound)
	}

	updates := make(map[string]any)
	if req.FullName != nil {
		name := strings.TrimSpace(*req.FullName)
		if name == "" {
			return ErrValidation("Full name cannot be empty")
		}
		updates["full_name"] = name
	}
	if req.Role != nil {
		if !cons.IsValidRole(*req.Role) {
			return ErrValidation("Invalid role")
		}
		updates["role"] = *req.Role
	}
	if req.Department != nil {
		updates["department"] = strPtr(strings.TrimSpace(*req.Department))
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.IsVerified != nil {
		updates["is_verified"] = *req.IsVerified
	}
	if len(updates) == 0 {
		return ErrValidation("No fields to update")
	}
	updates["updated_at"] = s.Now()

	if err := dao.UpdateFields(userID, updates); err != nil {
		return err
	}
	// 停用后立即踢下线
	if req.IsActive != nil && !*req.IsActive {
		if err := s.sessions.RevokeAllForUser(ctx, userID); err != nil {
			logger.Warningf("revoke sessions of %s: %v", userID, err)
		}
	}
	s.Activity.Log(ctx, ActivityEntry{
		UserID: actor.ID, Action: cons.ActionUpdateUser,
		EntityType: cons.EntityUser, EntityID: userID,
		Metadata: changedKeys(updates),
		Meta:     meta,
	})
	return nil
}

func changedKeys(updates map[string]any) map[string]any {
	keys := make([]string, 0, len(updates))
	for k := range updates {
		if k != "updated_at" {
			keys = append(keys, k)
		}
	}
	return map[string]any{"fields": keys}
}

// DeleteUser 软删除：标记删除 + 停用 + 注销全部会话
func (s *UserService) DeleteUser(ctx context.Context, actor *models.User, userID string, meta RequestMeta) error {
	if userID == actor.ID {
		return ErrValidation("Cannot delete your own account")
	}
	dao := models.NewUserDAO(s.db(ctx))
	if _, err := dao.FindByID(userID); err != nil {
		return notFoundOr(err, ErrUserNotFound)
	}

	err := s.db(ctx).Transaction(func(tx *gorm.DB) error {
		if err := dao.WithDB(tx).SoftDelete(userID, s.Now()); err != nil {
			return err
		}
		return s.sessions.revokeAllForUser(ctx, tx, userID)
	})
	if err != nil {
		return err
	}
	s.Activity.Log(ctx, ActivityEntry{
		UserID: actor.ID, Action: cons.ActionDeleteUser,
		EntityType: cons.EntityUser, EntityID: userID,
		Meta: meta,
	})
	return nil
}

// RestoreUser 撤销软删除
func (s *UserService) RestoreUser(ctx context.Context, actor *models.User, userID string, meta RequestMeta) error {
	dao := models.NewUserDAO(s.db(ctx))
	if _, err := dao.FindByID(userID); err != nil {
		return notFoundOr(err, ErrUserNotFound)
	}
	if err := dao.Restore(userID); err != nil {
		return err
	}
	s.Activity.Log(ctx, ActivityEntry{
		UserID: actor.ID, Action: cons.ActionRestoreUser,
		EntityType: cons.EntityUser, EntityID: userID,
		Meta: meta,
	})
	return nil
}

// PurgeUser 彻底删除（必须先软删除）。
// 同一事务内：会话、互动、评论、通知、本人发布的公告（含其级联）全部删除；
// 审计日志保留但 user_id 置空；受影响公告的计数重新校准。
func (s *UserService) PurgeUser(ctx context.Context, actor *models.User, userID string, meta RequestMeta) error {
	if userID == actor.ID {
		return ErrValidation("Cannot delete your own account")
	}
	u, err := models.NewUserDAO(s.db(ctx)).FindByID(userID)
	if err != nil {
		return notFoundOr(err, ErrUserNotFound)
	}
	if !u.IsDeleted {
		return ErrValidation("User must be soft-deleted first")
	}

	err = s.db(ctx).Transaction(func(tx *gorm.DB) error {
		interactions := repository.NewInteractionDAO(tx)
		comments := repository.NewCommentDAO(tx)
		notices := repository.NewNoticeDAO(tx)

		touched, err := interactions.DistinctNoticeIDsByUser(userID)
		if err != nil {
			return err
		}
		commented, err := comments.DistinctNoticeIDsByUser(userID)
		if err != nil {
			return err
		}
		authored, err := notices.ListIDsByAuthor(userID)
		if err != nil {
			return err
		}

		if err := s.sessions.revokeAllForUser(ctx, tx, userID); err != nil {
			return err
		}
		if err := interactions.DeleteByUser(userID); err != nil {
			return err
		}
		if err := comments.DeleteByUser(userID); err != nil {
			return err
		}
		if err := repository.NewNotificationDAO(tx).DeleteByUser(userID); err != nil {
			return err
		}
		if err := deleteNoticesCascade(tx, authored); err != nil {
			return err
		}
		if err := repository.NewActivityLogDAO(tx).DetachUser(userID); err != nil {
			return err
		}
		if err := models.NewUserDAO(tx).HardDelete(userID); err != nil {
			return err
		}

		gone := make(map[string]struct{}, len(authored))
		for _, id := range authored {
			gone[id] = struct{}{}
		}
		seen := make(map[string]struct{})
		for _, id := range append(touched, commented...) {
			if _, ok := gone[id]; ok {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			if _, err := reconcileNotice(tx, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.Activity.Log(ctx, ActivityEntry{
		UserID: actor.ID, Action: cons.ActionPurgeUser,
		EntityType: cons.EntityUser, EntityID: userID,
		Metadata: map[string]any{"email": u.Email},
		Meta:     meta,
	})
	return nil
}
