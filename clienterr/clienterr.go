// Package clienterr classifies algod rejection messages into a closed set of
// kinds, each with a human message and a resolution hint.
package clienterr

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	AssetDoesNotExist    Kind = "AssetDoesNotExist"
	AssetNotInAccount    Kind = "AssetNotInAccount"
	AccountNotOptedIn    Kind = "AccountNotOptedIn"
	Overspend            Kind = "Overspend"
	NotEnoughAssets      Kind = "NotEnoughAssets"
	BelowMin             Kind = "BelowMin"
	AccountTooLarge      Kind = "AccountTooLarge"
	InvalidGroup         Kind = "InvalidGroup"
	MalformedTransaction Kind = "MalformedTransaction"
	TransactionExpired   Kind = "TransactionExpired"
	IncorrectWallet      Kind = "IncorrectWallet"
	Unknown              Kind = "Unknown"
)

// Data holds the fields extracted from a rejection. Which ones are set
// depends on the Kind.
type Data struct {
	TransactionID     string          `json:"transactionId,omitempty"`
	AssetID           uint64          `json:"assetId,omitempty"`
	Account           string          `json:"account,omitempty"`
	Balance           decimal.Decimal `json:"balance,omitempty"`
	MinBalance        decimal.Decimal `json:"minBalance,omitempty"`
	CurrentAmount     decimal.Decimal `json:"currentAmount,omitempty"`
	TransactionAmount uint64          `json:"transactionAmount,omitempty"`
	ActualAmount      uint64          `json:"actualAmount,omitempty"`
	MinRound          uint64          `json:"minRound,omitempty"`
	MaxRound          uint64          `json:"maxRound,omitempty"`
	CurrentRound      uint64          `json:"currentRound,omitempty"`
	CorrectWallet     string          `json:"correctWallet,omitempty"`
	ReceivedWallet    string          `json:"receivedWallet,omitempty"`
	MaxGroupSize      uint64          `json:"maxGroupSize,omitempty"`
}

// ParsedClientError is one classified rejection. Raw is the vendor message
// as received, Status the HTTP status when known.
type ParsedClientError struct {
	Kind       Kind
	Message    string
	Resolution string
	Data       Data
	Raw        string
	Status     int
	Err        error
}

func (e *ParsedClientError) Error() string {
	return e.Message
}

func (e *ParsedClientError) Unwrap() error {
	return e.Err
}

var httpErrorPattern = regexp.MustCompile(`(?s)^HTTP (\d{3})[^:]*: (.*)$`)

// Parse classifies an error returned by the algod client. It never returns
// nil for a non nil err.
func Parse(err error) *ParsedClientError {
	if err == nil {
		return nil
	}
	status, message := splitClientError(err.Error())
	parsed := ParseMessage(message)
	parsed.Status = status
	parsed.Err = err
	if parsed.Kind == Unknown && message == "" && status != 0 {
		parsed.Message = fmt.Sprintf("Unknown algo client error %d", status)
	}
	return parsed
}

// splitClientError extracts the HTTP status and the vendor message from the
// "HTTP <code>: <body>" form used by the algod client. The body is json with
// a message field on algod, plain text elsewhere.
func splitClientError(s string) (int, string) {
	m := httpErrorPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, strings.TrimSpace(s)
	}
	status, _ := strconv.Atoi(m[1])
	body := strings.TrimSpace(m[2])
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err == nil {
		return status, strings.TrimSpace(payload.Message)
	}
	return status, body
}

// ParseMessage classifies a raw vendor message. Matchers are tried in table
// order and the first match wins. A match whose numbers don't fit a uint64
// is skipped.
func ParseMessage(message string) *ParsedClientError {
	for _, m := range matchers {
		groups := m.pattern.FindStringSubmatch(message)
		if groups == nil {
			continue
		}
		n := &numbers{}
		text, data := m.build(groups, n)
		if n.err != nil {
			continue
		}
		return &ParsedClientError{
			Kind:       m.kind,
			Message:    text,
			Resolution: resolutions[m.kind],
			Data:       data,
			Raw:        message,
		}
	}
	return &ParsedClientError{
		Kind:       Unknown,
		Message:    fmt.Sprintf("Unknown algo client error %s", message),
		Resolution: resolutions[Unknown],
		Raw:        message,
	}
}
