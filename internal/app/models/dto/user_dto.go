package dto

import "github.com/yigit/learnhub/internal/app/models"

// UpdateUserInfoRequest updates name and/or email
type UpdateUserInfoRequest struct {
	Name  string `json:"name" binding:"omitempty,min=3,max=30"`
	Email string `json:"email" binding:"omitempty,email"`
}

// UpdatePasswordRequest changes the password of a local account
type UpdatePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// UpdateAvatarRequest carries a base64 image or data URL
type UpdateAvatarRequest struct {
	Avatar string `json:"avatar"`
}

// UpdateUserRoleRequest is used by admins to promote or demote a user
type UpdateUserRoleRequest struct {
	Email string          `json:"email" binding:"required,email"`
	Role  models.RoleType `json:"role" binding:"required,oneof=admin user"`
}
