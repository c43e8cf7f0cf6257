// Package smtp открывает SMTP-сессию со STARTTLS и авторизацией для отправки писем гостям.
package smtp

import "io"

// Client подмножество *smtp.Client, которое нужно для отправки письма.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// Dialer открывает новую SMTP-сессию на каждое письмо и знает адрес отправителя.
type Dialer interface {
	Connect() (Client, error)
	Sender() string
}
