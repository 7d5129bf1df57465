package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lingxi-lab/lingxi_go_server/config"
)

func newTestClient(gatewayURL string) *Client {
	return NewClient(&config.PaymentConfig{
		AppID:      "test-app",
		Secret:     "test-secret",
		GatewayURL: gatewayURL,
	})
}

func TestClient_CreateOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/orders", r.URL.Path)
		assert.Equal(t, "test-app", r.Header.Get("X-App-Id"))

		var req GatewayOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 29.9, req.Amount)
		assert.Equal(t, "LX000000000042", req.OutTradeNo)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"code":             0,
			"gateway_order_id": "gw_12345",
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	orderID, err := client.CreateOrder(context.Background(), &GatewayOrderRequest{
		Amount:     29.9,
		Currency:   "CNY",
		Subject:    "艺术家月卡",
		OutTradeNo: "LX000000000042",
	})
	require.NoError(t, err)
	assert.Equal(t, "gw_12345", orderID)
}

func TestClient_CreateOrder_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"code":    1,
			"message": "risk control rejected",
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.CreateOrder(context.Background(), &GatewayOrderRequest{Amount: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "risk control rejected")
}

func TestClient_CreateOrder_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.CreateOrder(context.Background(), &GatewayOrderRequest{Amount: 1})
	assert.Error(t, err)
}

func TestClient_CreateOrder_Unreachable(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1")
	_, err := client.CreateOrder(context.Background(), &GatewayOrderRequest{Amount: 1})
	assert.Error(t, err)
}
