package paytm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMerchantKey = "0123456789abcdef" // AES-128 要求 16 字节

func TestSignature_RoundTrip(t *testing.T) {
	payload := `{"mid":"DEMO123","orderId":"DPL42"}`

	sig, err := GenerateSignature(payload, testMerchantKey)
	require.NoError(t, err)
	require.NotEmpty(t, sig)

	assert.True(t, VerifySignature(payload, testMerchantKey, sig))
}

func TestSignature_SaltMakesOutputNonDeterministic(t *testing.T) {
	payload := "same-payload"

	a, err := GenerateSignature(payload, testMerchantKey)
	require.NoError(t, err)
	b, err := GenerateSignature(payload, testMerchantKey)
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "salt must vary per signature")
	assert.True(t, VerifySignature(payload, testMerchantKey, a))
	assert.True(t, VerifySignature(payload, testMerchantKey, b))
}

func TestSignature_TamperedPayloadFails(t *testing.T) {
	sig, err := GenerateSignature("amount=100", testMerchantKey)
	require.NoError(t, err)

	assert.False(t, VerifySignature("amount=999", testMerchantKey, sig))
}

func TestSignature_WrongKeyFails(t *testing.T) {
	sig, err := GenerateSignature("payload", testMerchantKey)
	require.NoError(t, err)

	assert.False(t, VerifySignature("payload", "fedcba9876543210", sig))
}

func TestSignature_GarbageChecksumFails(t *testing.T) {
	assert.False(t, VerifySignature("payload", testMerchantKey, "not-base64!!"))
	assert.False(t, VerifySignature("payload", testMerchantKey, ""))
}

func TestVerifyParams_CanonicalOrder(t *testing.T) {
	params := map[string]string{
		"ORDERID":  "DPL42",
		"TXNID":    "T100",
		"STATUS":   "TXN_SUCCESS",
		"TXNAMOUNT": "499.00",
	}

	// 网关侧签名：key 字典序取值，| 连接
	payload := "DPL42|TXN_SUCCESS|499.00|T100"
	sig, err := GenerateSignature(payload, testMerchantKey)
	require.NoError(t, err)

	assert.True(t, VerifyParams(params, testMerchantKey, sig))

	// CHECKSUMHASH 不参与载荷
	params["CHECKSUMHASH"] = sig
	assert.True(t, VerifyParams(params, testMerchantKey, sig))

	params["STATUS"] = "TXN_FAILURE"
	assert.False(t, VerifyParams(params, testMerchantKey, sig))
}
