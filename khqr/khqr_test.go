package khqr

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMerchant = MerchantInfo{
	BankAccount:   "sothun_thoeun@aclb",
	Name:          "SOTHUN THOEUN",
	City:          "Phnom Penh",
	PhoneNumber:   "855888356210",
	StoreLabel:    "thun-Shop",
	TerminalLabel: "Cashier-01",
}

func TestCRC16KnownVector(t *testing.T) {
	// CRC-16/CCITT-FALSE check value.
	assert.Equal(t, uint16(0x29B1), crc16("123456789"))
}

func TestBuildPayloadDeterministic(t *testing.T) {
	ts := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

	a, err := buildPayloadAt(testMerchant, "2.50", "USD", "INV-20250314092653", ts)
	require.NoError(t, err)
	b, err := buildPayloadAt(testMerchant, "2.50", "USD", "INV-20250314092653", ts)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, Fingerprint(a), Fingerprint(b))
	assert.Len(t, Fingerprint(a), 32)
}

func TestBuildPayloadStructure(t *testing.T) {
	ts := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	payload, err := buildPayloadAt(testMerchant, "4900", "KHR", "INV-1", ts)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(payload, "000201"), "payload format indicator first")
	assert.Contains(t, payload, "5303116", "KHR numeric currency code")
	assert.Contains(t, payload, "54044900", "amount field")
	assert.Contains(t, payload, "5802KH", "country code")
	assert.Contains(t, payload, "sothun_thoeun@aclb")
	assert.Contains(t, payload, "INV-1")

	// Trailing CRC: tag 63, length 04, then four uppercase hex digits that
	// check out against the rest of the payload.
	require.Greater(t, len(payload), 8)
	body, crcHex := payload[:len(payload)-4], payload[len(payload)-4:]
	assert.Equal(t, "6304", body[len(body)-4:])
	want := crc16(body)
	got := crcHex
	assert.Equal(t, strings.ToUpper(got), got, "CRC must be uppercase hex")
	assert.Equal(t, want, mustParseHex16(t, got))
}

func TestBuildPayloadTimestampChangesFingerprint(t *testing.T) {
	t1 := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	t2 := t1.Add(time.Millisecond)

	a, err := buildPayloadAt(testMerchant, "2.50", "USD", "INV-1", t1)
	require.NoError(t, err)
	b, err := buildPayloadAt(testMerchant, "2.50", "USD", "INV-1", t2)
	require.NoError(t, err)

	assert.NotEqual(t, Fingerprint(a), Fingerprint(b))
}

func TestBuildPayloadValidation(t *testing.T) {
	_, err := buildPayloadAt(testMerchant, "1.00", "EUR", "INV-1", time.Now())
	assert.Error(t, err)

	_, err = buildPayloadAt(MerchantInfo{}, "1.00", "USD", "INV-1", time.Now())
	assert.Error(t, err)

	_, err = buildPayloadAt(testMerchant, "", "USD", "INV-1", time.Now())
	assert.Error(t, err)
}

func TestFingerprintKnownValue(t *testing.T) {
	// md5("khqr"), pins the lowercase hex encoding.
	assert.Equal(t, "88d4d708e89aba9f7d6935425aeeb64f", Fingerprint("khqr"))
}

func mustParseHex16(t *testing.T, s string) uint16 {
	t.Helper()
	var v uint16
	for i := 0; i < len(s); i++ {
		v <<= 4
		switch c := s[i]; {
		case c >= '0' && c <= '9':
			v |= uint16(c - '0')
		case c >= 'A' && c <= 'F':
			v |= uint16(c-'A') + 10
		default:
			t.Fatalf("bad hex digit %q", c)
		}
	}
	return v
}
