// Package khqr builds KHQR payment payloads (the Bakong profile of the
// EMVCo merchant-presented QR format) and derives the md5 fingerprint that
// Bakong uses as the transaction id. Everything outside this package treats
// the payload as an opaque string.
package khqr

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

// EMV tag ids used by the KHQR profile.
const (
	tagPayloadFormat      = "00"
	tagPointOfInitiation  = "01"
	tagMerchantAccount    = "29"
	tagMerchantCategory   = "52"
	tagCurrency           = "53"
	tagAmount             = "54"
	tagCountry            = "58"
	tagMerchantName       = "59"
	tagMerchantCity       = "60"
	tagAdditionalData     = "62"
	tagTimestamp          = "99"
	tagCRC                = "63"
	subAccountID          = "00"
	subBillNumber         = "01"
	subMobileNumber       = "02"
	subStoreLabel         = "03"
	subTerminalLabel      = "07"
	subCreationTimestamp  = "00"
	pointOfInitiationDyn  = "12"
	merchantCategoryOther = "5999"
	countryCodeKH         = "KH"
)

// ISO 4217 numeric codes for the two currencies Bakong accepts.
var currencyNumeric = map[string]string{
	"USD": "840",
	"KHR": "116",
}

// MerchantInfo identifies the receiving Bakong account on the QR.
type MerchantInfo struct {
	BankAccount   string // e.g. sothun_thoeun@aclb
	Name          string
	City          string
	PhoneNumber   string
	StoreLabel    string
	TerminalLabel string
}

// BuildPayload assembles a dynamic (single-use) KHQR payload for the given
// amount. The embedded creation timestamp makes every payload, and therefore
// every fingerprint, unique even for identical carts.
func BuildPayload(m MerchantInfo, amount, currency, billNumber string) (string, error) {
	return buildPayloadAt(m, amount, currency, billNumber, time.Now().UTC())
}

func buildPayloadAt(m MerchantInfo, amount, currency, billNumber string, ts time.Time) (string, error) {
	numeric, ok := currencyNumeric[currency]
	if !ok {
		return "", fmt.Errorf("khqr: unsupported currency %q", currency)
	}
	if m.BankAccount == "" {
		return "", fmt.Errorf("khqr: merchant bank account is required")
	}
	if amount == "" {
		return "", fmt.Errorf("khqr: amount is required")
	}

	payload := tlv(tagPayloadFormat, "01") +
		tlv(tagPointOfInitiation, pointOfInitiationDyn) +
		tlv(tagMerchantAccount, tlv(subAccountID, m.BankAccount)) +
		tlv(tagMerchantCategory, merchantCategoryOther) +
		tlv(tagCurrency, numeric) +
		tlv(tagAmount, amount) +
		tlv(tagCountry, countryCodeKH) +
		tlv(tagMerchantName, clip(m.Name, 25)) +
		tlv(tagMerchantCity, clip(m.City, 15))

	additional := ""
	if billNumber != "" {
		additional += tlv(subBillNumber, clip(billNumber, 25))
	}
	if m.PhoneNumber != "" {
		additional += tlv(subMobileNumber, clip(m.PhoneNumber, 25))
	}
	if m.StoreLabel != "" {
		additional += tlv(subStoreLabel, clip(m.StoreLabel, 25))
	}
	if m.TerminalLabel != "" {
		additional += tlv(subTerminalLabel, clip(m.TerminalLabel, 25))
	}
	if additional != "" {
		// EMV lengths are two digits; the template must fit in one field.
		if len(additional) > 99 {
			return "", fmt.Errorf("khqr: additional data template too long (%d bytes)", len(additional))
		}
		payload += tlv(tagAdditionalData, additional)
	}

	millis := strconv.FormatInt(ts.UnixMilli(), 10)
	payload += tlv(tagTimestamp, tlv(subCreationTimestamp, millis))

	payload += tagCRC + "04"
	payload += fmt.Sprintf("%04X", crc16(payload))
	return payload, nil
}

// Fingerprint is the lowercase hex md5 of the payload. It is the join key
// for the order store, the notify lock and the Bakong transaction lookup.
func Fingerprint(payload string) string {
	sum := md5.Sum([]byte(payload))
	return hex.EncodeToString(sum[:])
}

func tlv(tag, value string) string {
	return fmt.Sprintf("%s%02d%s", tag, len(value), value)
}

func clip(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}
