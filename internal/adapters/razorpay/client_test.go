package razorpay_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valley_travel/internal/adapters/razorpay"
	"valley_travel/internal/domain"
)

func TestCreateOrder(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "rzp_test", user)
		assert.Equal(t, "secret", pass)
		assert.Equal(t, "/v1/orders", r.URL.Path)

		var in map[string]any
		_ = json.NewDecoder(r.Body).Decode(&in)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": "order_9A33XWu170gUtm", "amount": in["amount"], "currency": in["currency"],
			"receipt": in["receipt"], "status": "created",
		})
	}))
	defer ts.Close()

	cl, err := razorpay.New(ts.URL, "rzp_test", "secret")
	require.NoError(t, err)
	o, err := cl.CreateOrder(context.Background(), 3700000, "INR", "bk-1")
	require.NoError(t, err)
	assert.Equal(t, "order_9A33XWu170gUtm", o.ID)
	assert.Equal(t, int64(3700000), o.Amount)
	assert.Equal(t, "bk-1", o.Receipt)
}

func TestCreateOrder_APIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"amount exceeds maximum"}}`))
	}))
	defer ts.Close()

	cl, _ := razorpay.New(ts.URL, "rzp_test", "secret")
	_, err := cl.CreateOrder(context.Background(), 1, "INR", "bk-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amount exceeds maximum")
}

func TestVerifySignature(t *testing.T) {
	cl, _ := razorpay.New("", "rzp_test", "secret")
	sig := razorpay.Sign("secret", "order_1", "pay_1")

	assert.NoError(t, cl.VerifySignature("order_1", "pay_1", sig))
	assert.True(t, errors.Is(cl.VerifySignature("order_1", "pay_2", sig), domain.ErrInvalidSignature))
	assert.True(t, errors.Is(cl.VerifySignature("order_1", "pay_1", ""), domain.ErrInvalidSignature))
	assert.True(t, errors.Is(cl.VerifySignature("order_1", "pay_1", razorpay.Sign("other", "order_1", "pay_1")), domain.ErrInvalidSignature))
}

func TestNewRequiresCredentials(t *testing.T) {
	_, err := razorpay.New("", "", "")
	assert.Error(t, err)
}
