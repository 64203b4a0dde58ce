// Package users 实现注册、登录与个人资料。
package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"hkexpatjobs/internal/auth"
	"hkexpatjobs/internal/database"
	"hkexpatjobs/internal/errcode"
	"hkexpatjobs/internal/store"
)

const invalidCredentials = "invalid username or password"

// TokenIssuer signs session tokens for authenticated users.
type TokenIssuer interface {
	GenerateToken(id auth.Identity) (string, error)
	TokenTTL() time.Duration
}

// Service 处理账号相关业务。
type Service struct {
	users        *store.UserStore
	applications *store.ApplicationStore
	tokens       TokenIssuer
	roles        map[string]struct{}
	now          func() time.Time

	checkPassword func(password, hash string) bool
}

// NewService builds the service; registrationRoles limits self-assignable roles.
func NewService(users *store.UserStore, applications *store.ApplicationStore, tokens TokenIssuer, registrationRoles []string) *Service {
	roles := make(map[string]struct{}, len(registrationRoles))
	for _, r := range registrationRoles {
		roles[auth.NormalizeRole(r)] = struct{}{}
	}
	return &Service{
		users:        users,
		applications: applications,
		tokens:       tokens,
		roles:        roles,
		now:          time.Now,

		checkPassword: auth.CheckPasswordHash,
	}
}

type RegisterInput struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	Role            string `json:"role"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Nationality     string `json:"nationality"`
	CurrentLocation string `json:"currentLocation"`
}

// Register 校验输入并创建账号；用户名重复返回 Conflict。
func (s *Service) Register(ctx context.Context, in RegisterInput) (Summary, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)

	if in.Username == "" || in.Password == "" || in.Name == "" || in.Email == "" {
		return Summary{}, errcode.Validation("username, password, name and email are required")
	}
	if len(in.Password) < auth.MinPasswordLength {
		return Summary{}, errcode.Validation("password must be at least 6 characters")
	}
	if !strings.Contains(in.Email, "@") {
		return Summary{}, errcode.Validation("email is invalid")
	}

	role := auth.NormalizeRole(in.Role)
	if !auth.ValidRole(role) {
		return Summary{}, errcode.Validation("role must be one of applicant, recruiter, admin")
	}
	if _, ok := s.roles[role]; !ok {
		return Summary{}, errcode.Forbidden("registration as " + role + " is not allowed")
	}

	hash, err := auth.HashPassword(in.Password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return Summary{}, errcode.Validation(err.Error())
	}
	if err != nil {
		return Summary{}, errcode.Internal(err)
	}

	user := database.User{
		Username:        in.Username,
		PasswordHash:    hash,
		Role:            role,
		Name:            in.Name,
		Email:           in.Email,
		Nationality:     strings.TrimSpace(in.Nationality),
		CurrentLocation: strings.TrimSpace(in.CurrentLocation),
	}
	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return Summary{}, errcode.Conflict("username already exists")
		}
		return Summary{}, errcode.Unavailable(err)
	}

	return newSummary(&user), nil
}

// LoginResult 是登录成功后的响应体。
type LoginResult struct {
	Token     string  `json:"token"`
	TokenType string  `json:"tokenType"`
	ExpiresIn int64   `json:"expiresIn"`
	User      Summary `json:"user"`
}

// Login 校验口令并签发令牌。用户不存在与密码错误返回相同错误。
func (s *Service) Login(ctx context.Context, username, password string) (LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return LoginResult{}, errcode.Validation("username and password are required")
	}

	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		s.checkPassword(password, auth.DummyPasswordHash())
		return LoginResult{}, errcode.Unauthenticated(invalidCredentials)
	}
	if err != nil {
		return LoginResult{}, errcode.Unavailable(err)
	}
	if !s.checkPassword(password, user.PasswordHash) {
		return LoginResult{}, errcode.Unauthenticated(invalidCredentials)
	}

	token, err := s.tokens.GenerateToken(auth.Identity{ID: user.ID, Username: user.Username, Role: user.Role})
	if err != nil {
		return LoginResult{}, errcode.Internal(err)
	}

	now := s.now().UTC()
	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		return LoginResult{}, errcode.Unavailable(err)
	}
	user.LastLoginAt = &now

	return LoginResult{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(s.tokens.TokenTTL().Seconds()),
		User:      newSummary(user),
	}, nil
}

// Profile returns the caller's own account with derived appliedJobs.
func (s *Service) Profile(ctx context.Context, userID uint) (ProfileView, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return ProfileView{}, storeError(err, "user not found")
	}
	applied, err := s.applications.AppliedJobIDs(ctx, userID)
	if err != nil {
		return ProfileView{}, errcode.Unavailable(err)
	}
	return newProfileView(user, applied), nil
}

// PublicProfile 供招聘者查看申请人资料，不含 appliedJobs。
func (s *Service) PublicProfile(ctx context.Context, userID uint) (PublicProfileView, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return PublicProfileView{}, storeError(err, "user not found")
	}
	return PublicProfileView{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
		Profile:  newProfile(user),
	}, nil
}

// UpdateProfile 部分更新资料；name、email 不能清空。
func (s *Service) UpdateProfile(ctx context.Context, userID uint, patch ProfilePatch) (ProfileView, error) {
	if err := patch.validate(); err != nil {
		return ProfileView{}, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return ProfileView{}, storeError(err, "user not found")
	}
	patch.apply(user)
	if err := s.users.Save(ctx, user); err != nil {
		return ProfileView{}, errcode.Unavailable(err)
	}

	applied, err := s.applications.AppliedJobIDs(ctx, userID)
	if err != nil {
		return ProfileView{}, errcode.Unavailable(err)
	}
	return newProfileView(user, applied), nil
}

// SetResume records an uploaded resume URL on the user.
func (s *Service) SetResume(ctx context.Context, userID uint, url string) error {
	if err := s.users.SetResume(ctx, userID, url); err != nil {
		return storeError(err, "user not found")
	}
	return nil
}

// SetPhoto records an uploaded photo URL on the user.
func (s *Service) SetPhoto(ctx context.Context, userID uint, url string) error {
	if err := s.users.SetPhoto(ctx, userID, url); err != nil {
		return storeError(err, "user not found")
	}
	return nil
}

func storeError(err error, notFound string) error {
	if errors.Is(err, store.ErrNotFound) {
		return errcode.NotFound(notFound)
	}
	return errcode.Unavailable(err)
}
