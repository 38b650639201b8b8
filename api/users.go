package api

import (
	"context"
	"net/url"
	"strconv"
)

// LoginUserInfo is the user block of a login response.
type LoginUserInfo struct {
	ID    string   `json:"id"`
	UID   string   `json:"uid"`
	Email string   `json:"email,omitempty"`
	Name  *string  `json:"name,omitempty"`
	Role  UserRole `json:"role,omitempty"`
}

type LoginResponse struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type,omitempty"`
	ExpiresIn   int           `json:"expires_in"`
	User        LoginUserInfo `json:"user"`
}

type CurrentUserProfileResponse struct {
	Name        string  `json:"name"`
	Birthdate   *string `json:"birthdate,omitempty"`
	Description *string `json:"description,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
}

type CurrentUserResponse struct {
	ID      string                     `json:"id"`
	UID     string                     `json:"uid"`
	Email   string                     `json:"email"`
	Role    UserRole                   `json:"role"`
	Profile CurrentUserProfileResponse `json:"profile"`
}

// UserSchema is the registration payload.
type UserSchema struct {
	UID         string   `json:"uid" validate:"required"`
	Pwd         string   `json:"pwd" validate:"required,min=6"`
	Email       string   `json:"email" validate:"required,email"`
	Name        string   `json:"name" validate:"required"`
	Birthdate   string   `json:"birthdate" validate:"required"`
	Description string   `json:"description"`
	Role        UserRole `json:"role" validate:"required,oneof=admin user"`
}

type UserListItem struct {
	ID        string   `json:"id"`
	UID       string   `json:"uid"`
	Email     string   `json:"email"`
	Name      *string  `json:"name,omitempty"`
	Role      UserRole `json:"role"`
	CreatedAt *string  `json:"created_at,omitempty"`
}

type UserListResponse = Page[UserListItem]

type UserSearchItem struct {
	ID    string  `json:"id"`
	UID   string  `json:"uid"`
	Email string  `json:"email"`
	Name  *string `json:"name,omitempty"`
}

type UserSearchResponse struct {
	Items []UserSearchItem `json:"items"`
}

type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

type UpdatePasswordRequest struct {
	UserID      string `json:"user_id" validate:"required,uuid"`
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

type UpdateProfileRequest struct {
	Name        *string `json:"name,omitempty"`
	Birthdate   *string `json:"birthdate,omitempty"`
	Description *string `json:"description,omitempty"`
}

type UserService struct {
	c *Client
}

// List users with pagination (admin only).
func (s *UserService) List(ctx context.Context, page, size int) (*UserListResponse, error) {
	return call[UserListResponse](ctx, s.c, &request{
		operation: "listUsers",
		method:    "GET",
		url:       PathUsers,
		query:     pageQuery(page, size),
	})
}

// Search users by uid, email or name.
func (s *UserService) Search(ctx context.Context, keyword string, limit int) (*UserSearchResponse, error) {
	return call[UserSearchResponse](ctx, s.c, &request{
		operation: "searchUsers",
		method:    "GET",
		url:       PathUsersSearch,
		query:     url.Values{"keyword": {keyword}, "limit": {strconv.Itoa(limit)}},
	})
}

func (s *UserService) Me(ctx context.Context) (*CurrentUserResponse, error) {
	return call[CurrentUserResponse](ctx, s.c, &request{
		operation: "getCurrentUser",
		method:    "GET",
		url:       PathUsersMe,
	})
}

func (s *UserService) Create(ctx context.Context, user UserSchema) error {
	return s.c.send(ctx, &request{
		operation: "createUser",
		method:    "POST",
		url:       PathUsersCreate,
		body:      user,
		mediaType: MediaTypeJSON,
	}, nil)
}

// Login authenticates with a uid or email plus password (form encoded).
func (s *UserService) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	return call[LoginResponse](ctx, s.c, &request{
		operation: "loginUser",
		method:    "POST",
		url:       PathUsersLogin,
		formData:  url.Values{"username": {username}, "password": {password}},
		mediaType: MediaTypeForm,
	})
}

func (s *UserService) VerifyEmail(ctx context.Context, token string) error {
	return s.c.send(ctx, &request{
		operation: "verifyEmail",
		method:    "GET",
		url:       PathUsersVerifyEmail,
		query:     url.Values{"token": {token}},
	}, nil)
}

func (s *UserService) ResendVerification(ctx context.Context, email string) error {
	return s.postJSON(ctx, "resendVerification", PathUsersResendVerify, EmailRequest{Email: email})
}

func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	return s.postJSON(ctx, "forgotPassword", PathUsersForgotPassword, EmailRequest{Email: email})
}

func (s *UserService) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	return s.postJSON(ctx, "resetPassword", PathUsersResetPassword, req)
}

func (s *UserService) UpdatePassword(ctx context.Context, req UpdatePasswordRequest) error {
	return s.postJSON(ctx, "updatePassword", PathUsersUpdatePassword, req)
}

func (s *UserService) UpdateProfile(ctx context.Context, req UpdateProfileRequest) error {
	return s.postJSON(ctx, "updateUserProfile", PathUsersUpdateProfile, req)
}

// UploadAvatar sends an image (jpg, jpeg, png, gif, webp; max 5MB server side).
func (s *UserService) UploadAvatar(ctx context.Context, file Upload) error {
	return s.c.send(ctx, &request{
		operation: "uploadAvatar",
		method:    "POST",
		url:       PathUsersAvatar,
		files:     map[string]Upload{"file": file},
		mediaType: MediaTypeMultipart,
	}, nil)
}

func (s *UserService) postJSON(ctx context.Context, operation, path string, body any) error {
	return s.c.send(ctx, &request{
		operation: operation,
		method:    "POST",
		url:       path,
		body:      body,
		mediaType: MediaTypeJSON,
	}, nil)
}

func pageQuery(page, size int) url.Values {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}
	return url.Values{"page": {strconv.Itoa(page)}, "size": {strconv.Itoa(size)}}
}
