package dto

type UserInfo struct {
	ID            int64          `json:"id"`
	Username      string         `json:"username"`
	Email         string         `json:"email,omitempty"`
	AvatarURL     string         `json:"avatar_url"`
	Role          string         `json:"role"`
	EmailVerified bool           `json:"email_verified"`
	Premium       *PremiumStatus `json:"premium,omitempty"`
	CreatedAt     string         `json:"created_at"`
}

type UpdateProfileRequest struct {
	Username *string `json:"username" binding:"omitempty,min=3,max=50"`
}
