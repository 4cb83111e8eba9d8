package usecase

import "time"

const (
	// SessionTokenLength at 32 alphanumeric characters carries about 190
	// bits of entropy.
	SessionTokenLength = 32
	SessionTTL         = 30 * 24 * time.Hour

	OTPCodeLength = 5
	OTPTTL        = 15 * time.Minute

	InvitationTokenLength = 32
	InvitationTTL         = 7 * 24 * time.Hour

	MessageEditWindow = 15 * time.Minute
)
