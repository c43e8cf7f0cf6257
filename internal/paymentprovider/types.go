package paymentprovider

// Статусы оплаты, которые возвращает шлюз.
const (
	StatusPaid    = "PAID"
	StatusPending = "PENDING"
	StatusFailed  = "FAILED"
)

// InvoiceRequest запрос на создание счёта.
type InvoiceRequest struct {
	MerchantID    string `json:"merchantId"`
	TransactionID string `json:"transactionId"`
	Amount        string `json:"amount"`
	ReturnURL     string `json:"returnUrl"`
	Checksum      string `json:"checksum"`
}

// Invoice созданный счёт.
type Invoice struct {
	InvoiceID     string `json:"invoice"`
	TransactionID string `json:"transactionId"`
	RedirectURL   string `json:"redirectUrl"`
	Checksum      string `json:"checksum"`
}

type inquiryRequest struct {
	MerchantID    string `json:"merchantId"`
	TransactionID string `json:"transactionId"`
	Checksum      string `json:"checksum"`
}

// PaymentStatus ответ на запрос статуса.
type PaymentStatus struct {
	TransactionID string `json:"transactionId"`
	Status        string `json:"status"`
	Amount        string `json:"amount"`
}
