package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignAndVerify(t *testing.T) {
	sig := Sign("secret", "gw_order_1", "gw_pay_1")

	assert.NotEmpty(t, sig)
	// hex-encoded SHA-256 output
	assert.Len(t, sig, 64)
	assert.True(t, Verify("secret", "gw_order_1", "gw_pay_1", sig))
}

func TestSign_Deterministic(t *testing.T) {
	a := Sign("secret", "gw_order_1", "gw_pay_1")
	b := Sign("secret", "gw_order_1", "gw_pay_1")
	assert.Equal(t, a, b)
}

func TestVerify_WrongSecret(t *testing.T) {
	sig := Sign("secret", "gw_order_1", "gw_pay_1")
	assert.False(t, Verify("other-secret", "gw_order_1", "gw_pay_1", sig))
}

func TestVerify_TamperedFields(t *testing.T) {
	sig := Sign("secret", "gw_order_1", "gw_pay_1")

	assert.False(t, Verify("secret", "gw_order_2", "gw_pay_1", sig))
	assert.False(t, Verify("secret", "gw_order_1", "gw_pay_2", sig))
	assert.False(t, Verify("secret", "gw_order_1", "gw_pay_1", sig+"00"))
	assert.False(t, Verify("secret", "gw_order_1", "gw_pay_1", ""))
}

func TestSign_FieldBoundaries(t *testing.T) {
	// the separator must prevent ambiguous concatenation
	a := Sign("secret", "ab", "c")
	b := Sign("secret", "a", "bc")
	assert.NotEqual(t, a, b)
}
