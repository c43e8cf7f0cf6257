// Package paymentprovider клиент платёжного шлюза Golomt.
//
// Запросы подписываются контрольной суммой hex(sha256(transactionId + amount + secret)).
// Если адрес шлюза не задан, клиент работает в mock-режиме: счёт создаётся
// локально, а оплата перенаправляется на внутреннюю страницу /mock-payment.
package paymentprovider

import (
	"bytes"
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
)

// ErrChecksum контрольная сумма не совпала.
var ErrChecksum = errors.New("checksum mismatch")

// StatusError шлюз ответил кодом, отличным от 200/201.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string { return "unexpected status: " + e.Status }

// Client клиент шлюза.
type Client struct {
	merchantID string
	secretKey  string
	apiURL     string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

// NewClient создаёт клиент. Пустой endpoint включает mock-режим.
func NewClient(endpoint, merchantID, secretKey string) *Client {
	return &Client{
		merchantID: merchantID,
		secretKey:  secretKey,
		apiURL:     strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		breaker:    newBreaker("golomt"),
	}
}

// newBreaker размыкается после трёх подряд сетевых ошибок или 5xx и
// пропускает пробный запрос через 30 секунд. Ответы 4xx шлюз считается
// доступным.
func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 2
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var se *StatusError
			return errors.As(err, &se) && se.Code >= 400 && se.Code < 500
		},
	})
}

// Mock сообщает, что клиент работает без реального шлюза.
func (c *Client) Mock() bool {
	return c.apiURL == ""
}

// FormatAmount сумма в формате, который подписывается и передаётся шлюзу.
func FormatAmount(amount int64) string {
	return strconv.FormatInt(amount, 10)
}

// Checksum подпись запроса.
func (c *Client) Checksum(transactionID, amount string) string {
	sum := sha256.Sum256([]byte(transactionID + amount + c.secretKey))
	return hex.EncodeToString(sum[:])
}

// VerifyChecksum сравнивает подпись за постоянное время.
func (c *Client) VerifyChecksum(transactionID, amount, checksum string) error {
	want := c.Checksum(transactionID, amount)
	if subtle.ConstantTimeCompare([]byte(want), []byte(strings.ToLower(checksum))) != 1 {
		return ErrChecksum
	}
	return nil
}

// CreateInvoice создаёт счёт на оплату бронирования transactionID.
func (c *Client) CreateInvoice(ctx context.Context, transactionID string, amount int64, returnURL string) (*Invoice, error) {
	const op = "paymentprovider.CreateInvoice"
	amt := FormatAmount(amount)
	checksum := c.Checksum(transactionID, amt)

	if c.Mock() {
		invoiceID := "INV-" + uuid.NewString()
		q := url.Values{}
		q.Set("invoiceId", invoiceID)
		q.Set("amount", amt)
		q.Set("txnId", transactionID)
		q.Set("checksum", checksum)
		q.Set("returnUrl", returnURL)
		return &Invoice{
			InvoiceID:     invoiceID,
			TransactionID: transactionID,
			RedirectURL:   "/mock-payment?" + q.Encode(),
			Checksum:      checksum,
		}, nil
	}

	var inv Invoice
	err := c.post(ctx, "/invoice", InvoiceRequest{
		MerchantID:    c.merchantID,
		TransactionID: transactionID,
		Amount:        amt,
		ReturnURL:     returnURL,
		Checksum:      checksum,
	}, &inv)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if inv.TransactionID == "" {
		inv.TransactionID = transactionID
	}
	return &inv, nil
}

// CheckStatus запрашивает статус оплаты. В mock-режиме оплата всегда PAID.
func (c *Client) CheckStatus(ctx context.Context, transactionID string) (*PaymentStatus, error) {
	const op = "paymentprovider.CheckStatus"
	if c.Mock() {
		return &PaymentStatus{TransactionID: transactionID, Status: StatusPaid}, nil
	}

	var st PaymentStatus
	err := c.post(ctx, "/inquiry", inquiryRequest{
		MerchantID:    c.merchantID,
		TransactionID: transactionID,
		Checksum:      c.Checksum(transactionID, ""),
	}, &st)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &st, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.do(ctx, path, body, out)
	})
	return err
}

func (c *Client) do(ctx context.Context, path string, body, out any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
