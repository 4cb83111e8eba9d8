package repository

import "context"

// SMSRepository delivers one-time codes over an external SMS channel. The
// service only generates and checks codes, never sends them itself.
type SMSRepository interface {
	SendCode(ctx context.Context, phone, code string) error
}

// MailRepository delivers transactional email (invitations).
type MailRepository interface {
	SendMail(ctx context.Context, to, subject, body string) error
}
