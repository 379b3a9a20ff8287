package razorpay

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"valley_travel/internal/adapters/observability"
	"valley_travel/internal/domain"
)

const DefaultBaseURL = "https://api.razorpay.com"

// Client creates checkout orders and verifies checkout signatures.
type Client struct {
	base   string
	keyID  string
	secret string
	hc     *http.Client
}

func New(base, keyID, secret string) (*Client, error) {
	if keyID == "" || secret == "" {
		return nil, fmt.Errorf("razorpay key id and secret are required")
	}
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{
		base:   strings.TrimRight(base, "/"),
		keyID:  keyID,
		secret: secret,
		hc:     &http.Client{Timeout: 15 * time.Second},
	}, nil
}

var _ domain.PaymentGateway = (*Client)(nil)

func (c *Client) KeyID() string { return c.keyID }

type orderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type apiError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateOrder opens an order for amount in the currency's smallest unit.
func (c *Client) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (domain.PaymentOrder, error) {
	body, err := json.Marshal(orderRequest{Amount: amount, Currency: currency, Receipt: receipt})
	if err != nil {
		return domain.PaymentOrder{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return domain.PaymentOrder{}, err
	}
	req.SetBasicAuth(c.keyID, c.secret)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("razorpay", "orders", 0, time.Since(start))
		return domain.PaymentOrder{}, err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("razorpay", "orders", resp.StatusCode, time.Since(start))

	b, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode != http.StatusOK {
		var ae apiError
		if json.Unmarshal(b, &ae) == nil && ae.Error.Description != "" {
			return domain.PaymentOrder{}, fmt.Errorf("razorpay: %s (%s)", ae.Error.Description, ae.Error.Code)
		}
		return domain.PaymentOrder{}, fmt.Errorf("razorpay: status %d", resp.StatusCode)
	}
	var o domain.PaymentOrder
	if err := json.Unmarshal(b, &o); err != nil {
		return domain.PaymentOrder{}, fmt.Errorf("razorpay: decode order: %w", err)
	}
	if o.ID == "" {
		return domain.PaymentOrder{}, fmt.Errorf("razorpay: order without id")
	}
	return o, nil
}

// VerifySignature checks HMAC-SHA256(orderID|paymentID) against the signature
// the checkout callback carried.
func (c *Client) VerifySignature(orderID, paymentID, signature string) error {
	if orderID == "" || paymentID == "" || signature == "" {
		return domain.ErrInvalidSignature
	}
	want := Sign(c.secret, orderID, paymentID)
	if !hmac.Equal([]byte(want), []byte(strings.ToLower(signature))) {
		return domain.ErrInvalidSignature
	}
	return nil
}

// Sign produces the hex signature the gateway attaches to a successful payment.
func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
