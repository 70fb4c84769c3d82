package model

// Notifier is a generic interface for delivering detection findings to an
// out-of-band channel (mail, message bus, ...).
type Notifier interface {
	Send(subject, body string) error
}
