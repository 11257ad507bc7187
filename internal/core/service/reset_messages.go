package service

import "fmt"

// resetOutcome is the internal result of a workflow step. Public message
// selection is centralized in publicMessage so the anti-enumeration policy is
// auditable in one place.
//
// One deliberate relaxation: outcomeOTPStale ("expired or already used") is
// distinguishable from
// outcomeOTPWrong, so a caller can tell that some reset round existed for the
// pair. Requesting a code, on the other hand, answers identically for known
// and unknown emails.
type resetOutcome int

const (
	outcomeCodeAccepted resetOutcome = iota // known email, code sent — and unknown email alike
	outcomeSendFailed
	outcomeRequestFailed
	outcomeEmailInvalid
	outcomeOTPMalformed
	outcomeOTPValid
	outcomeOTPWrong
	outcomeOTPStale
	outcomeVerifyFailed
	outcomeResetDone
	outcomeResetInvalidCode
	outcomeResetFailed
)

var resetMessages = map[resetOutcome]string{
	outcomeCodeAccepted:     "If an account with this email exists, you will receive a 6-digit code shortly.",
	outcomeSendFailed:       "Unable to send the code. Please try again later.",
	outcomeRequestFailed:    "Unable to process password reset request. Please try again later.",
	outcomeEmailInvalid:     "Please enter a valid email address.",
	outcomeOTPMalformed:     "OTP code must be exactly 6 digits.",
	outcomeOTPValid:         "OTP verified. Please enter your new password.",
	outcomeOTPWrong:         "Invalid OTP code.",
	outcomeOTPStale:         "OTP code has expired or already been used.",
	outcomeVerifyFailed:     "Unable to verify OTP. Please try again.",
	outcomeResetDone:        "Password reset successfully. You can now log in with your new password.",
	outcomeResetInvalidCode: "Invalid or expired OTP code. Please request a new one.",
	outcomeResetFailed:      "Unable to reset password. Please try again.",
}

func publicMessage(o resetOutcome) string {
	return resetMessages[o]
}

func passwordTooShortMessage(minLength int) string {
	return fmt.Sprintf("Password must be at least %d characters long.", minLength)
}
