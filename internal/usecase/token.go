package usecase

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	tokenAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	digitAlphabet = "0123456789"
)

func newSessionToken() (string, error) {
	return gonanoid.Generate(tokenAlphabet, SessionTokenLength)
}

func newInvitationToken() (string, error) {
	return gonanoid.Generate(tokenAlphabet, InvitationTokenLength)
}

func newOTPCode() (string, error) {
	return gonanoid.Generate(digitAlphabet, OTPCodeLength)
}
