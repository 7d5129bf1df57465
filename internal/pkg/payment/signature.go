package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Sign 计算支付凭证签名：HMAC-SHA256(secret, gatewayOrderID + "|" + gatewayPaymentID)，
// 十六进制小写编码。与网关侧约定保持一致。
func Sign(secret, gatewayOrderID, gatewayPaymentID string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	return hex.EncodeToString(h.Sum(nil))
}

// Verify 校验回调签名。常数时间比较，签名相等性是安全敏感操作
func Verify(secret, gatewayOrderID, gatewayPaymentID, signature string) bool {
	expected := Sign(secret, gatewayOrderID, gatewayPaymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}
