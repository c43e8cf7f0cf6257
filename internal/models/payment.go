package models

// PaymentCallback уведомление шлюза об оплате. TransactionID совпадает с ID бронирования.
type PaymentCallback struct {
	TransactionID string `json:"transactionId" validate:"required,uuid"`
	Amount        string `json:"amount" validate:"required"`
	Checksum      string `json:"checksum" validate:"required"`
}
