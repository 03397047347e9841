package models

// RegisterRequest is the payload for POST /auth/register
type RegisterRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	Name            string `json:"name" validate:"required,min=2,max=100"`
	Education       string `json:"education"`
	Skills          string `json:"skills"`
	Location        string `json:"location"`
	ExperienceYears int    `json:"experience_years" validate:"gte=0,lte=50"`
	Phone           string `json:"phone"`
	LinkedIn        string `json:"linkedin"`
	GitHub          string `json:"github"`
}

// LoginRequest is the payload for POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ProfileUpdateRequest is the payload for PUT /candidates/profile
type ProfileUpdateRequest struct {
	Name            string `json:"name" validate:"required,min=2,max=100"`
	Education       string `json:"education"`
	Skills          string `json:"skills"`
	Location        string `json:"location"`
	ExperienceYears int    `json:"experience_years" validate:"gte=0,lte=50"`
	Phone           string `json:"phone"`
	LinkedIn        string `json:"linkedin"`
	GitHub          string `json:"github"`
}

// PasswordUpdateRequest is the payload for POST /auth/password/update
type PasswordUpdateRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// ForgotPasswordRequest starts the OTP reset flow
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// VerifyOTPRequest checks a reset OTP without consuming it
type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6"`
}

// ResetPasswordRequest completes the OTP reset flow
type ResetPasswordRequest struct {
	Email           string `json:"email" validate:"required,email"`
	OTP             string `json:"otp" validate:"required,len=6"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,min=6"`
}

// PrivacyPreferencesRequest toggles chatbot access to profile data
type PrivacyPreferencesRequest struct {
	DataConsent bool `json:"data_consent"`
}

// ChatMessageRequest is the payload for POST /chat/message
type ChatMessageRequest struct {
	Question     string `json:"question" validate:"required,min=1,max=1000"`
	InternshipID int    `json:"internship_id"`
}

// ChatFeedbackRequest is the payload for POST /chat/feedback
type ChatFeedbackRequest struct {
	Question string `json:"question" validate:"required"`
	Response string `json:"response" validate:"required"`
	Intent   string `json:"intent" validate:"required"`
	Helpful  bool   `json:"helpful"`
}

// TrackBehaviorRequest is the payload for POST /track-behavior
type TrackBehaviorRequest struct {
	Action       string `json:"action" validate:"required,oneof=view save unsave apply withdraw"`
	InternshipID int    `json:"internship_id" validate:"required,gt=0"`
}
