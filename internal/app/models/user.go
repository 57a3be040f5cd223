package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID         int64            `json:"_id" db:"id"`
	Name       string           `json:"name" db:"name"`
	Email      string           `json:"email" db:"email"`
	Password   string           `json:"-" db:"password"` // empty for social logins
	Avatar     *Image           `json:"avatar,omitempty" db:"avatar"`
	Role       RoleType         `json:"role" db:"role"`
	IsVerified bool             `json:"isVerified" db:"is_verified"`
	Courses    []EnrolledCourse `json:"courses"`
	CreatedAt  time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time        `json:"updatedAt" db:"updated_at"`
}

// EnrolledCourse is an entry in a user's course list
type EnrolledCourse struct {
	CourseID int64 `json:"courseId"`
}

// UserSummary is the public part of a user embedded in comments and reviews
type UserSummary struct {
	ID     int64    `json:"_id"`
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Avatar *Image   `json:"avatar,omitempty"`
	Role   RoleType `json:"role"`
}

// IsAdmin reports whether the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasPassword is false for accounts created through social login
func (u *User) HasPassword() bool {
	return u.Password != ""
}

// IsEnrolled reports whether courseID is in the user's course list
func (u *User) IsEnrolled(courseID int64) bool {
	for _, c := range u.Courses {
		if c.CourseID == courseID {
			return true
		}
	}
	return false
}

// Summary returns the embeddable public view of the user
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Avatar: u.Avatar,
		Role:   u.Role,
	}
}
