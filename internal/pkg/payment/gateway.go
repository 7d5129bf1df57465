package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lingxi-lab/lingxi_go_server/config"
)

// Gateway 支付网关下单接口
type Gateway interface {
	CreateOrder(ctx context.Context, req *GatewayOrderRequest) (string, error)
}

// GatewayOrderRequest 网关下单参数
type GatewayOrderRequest struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Subject  string  `json:"subject"`
	OutTradeNo string `json:"out_trade_no"` // 本系统订单号
}

type gatewayOrderResponse struct {
	Code           int    `json:"code"`
	Message        string `json:"message"`
	GatewayOrderID string `json:"gateway_order_id"`
}

// Client HTTP 网关客户端
type Client struct {
	httpClient *http.Client
	gatewayURL string
	appID      string
}

func NewClient(cfg *config.PaymentConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		gatewayURL: cfg.GatewayURL,
		appID:      cfg.AppID,
	}
}

// CreateOrder 调用网关创建订单，返回 gateway_order_id。
// 失败不产生任何本地状态。
func (c *Client) CreateOrder(ctx context.Context, req *GatewayOrderRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal order request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.gatewayURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build order request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-App-Id", c.appID)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read gateway response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	var orderResp gatewayOrderResponse
	if err := json.Unmarshal(data, &orderResp); err != nil {
		return "", fmt.Errorf("failed to parse gateway response: %w", err)
	}

	if orderResp.Code != 0 || orderResp.GatewayOrderID == "" {
		return "", fmt.Errorf("gateway rejected order: %s", orderResp.Message)
	}

	return orderResp.GatewayOrderID, nil
}
