package dto

import (
	"bytes"
	"encoding/json"

	"github.com/yigit/learnhub/internal/app/models"
)

// RegisterRequest is the sign-up payload
type RegisterRequest struct {
	Name     string `json:"name" binding:"omitempty,min=3,max=30"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"omitempty,min=8,max=32"`
	Avatar   string `json:"avatar,omitempty"`
}

// RegisterResponse carries the signed activation token
type RegisterResponse struct {
	Success         bool   `json:"success"`
	Message         string `json:"message"`
	ActivationToken string `json:"activationToken"`
}

// ActivationRequest pairs the activation token with the emailed code.
// The code may arrive as a JSON string or a JSON number.
type ActivationRequest struct {
	ActivationToken string `json:"activation_token"`
	ActivationCode  string `json:"activation_code"`
}

func (r *ActivationRequest) UnmarshalJSON(data []byte) error {
	var raw struct {
		ActivationToken string          `json:"activation_token"`
		ActivationCode  json.RawMessage `json:"activation_code"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.ActivationToken = raw.ActivationToken
	r.ActivationCode = ""

	code := bytes.TrimSpace(raw.ActivationCode)
	if len(code) == 0 || string(code) == "null" {
		return nil
	}
	if code[0] == '"' {
		return json.Unmarshal(code, &r.ActivationCode)
	}
	var n json.Number
	if err := json.Unmarshal(code, &n); err != nil {
		return err
	}
	r.ActivationCode = n.String()
	return nil
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// SocialAuthRequest is sent by the client after an OAuth sign-in
type SocialAuthRequest struct {
	Email  string `json:"email" binding:"omitempty,email"`
	Name   string `json:"name" binding:"omitempty,max=30"`
	Avatar string `json:"avatar,omitempty"`
}

// RefreshTokenRequest is an optional body form of the refresh token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// TokenPair is a freshly issued access/refresh pair
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenResponse is returned whenever a session is (re)issued
type TokenResponse struct {
	Success      bool         `json:"success"`
	Message      string       `json:"message"`
	User         *models.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}
