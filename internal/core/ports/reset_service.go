package ports

import "context"

// ResetRequestResult is the outcome of requesting a reset code. The
// verification token is workflow-internal and never serialized: exposing it
// only for known emails would be an enumeration oracle.
type ResetRequestResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"-"`
}

// VerifyOTPResult is the outcome of checking an emailed code.
type VerifyOTPResult struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
	UserID  int64  `json:"-"`
}

// ResetPasswordResult is the outcome of the terminal reset step.
type ResetPasswordResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ResetService is the password-reset workflow. All store and mail failures
// are converted into results here; none of these methods returns an error.
type ResetService interface {
	Request(ctx context.Context, email string) ResetRequestResult
	VerifyOTP(ctx context.Context, email, code string) VerifyOTPResult
	Reset(ctx context.Context, email, code, newPassword string) ResetPasswordResult
}
