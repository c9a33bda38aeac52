package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/algoswap/swapshop/swap"
)

// parseLegFlag parses "type:sender:receiver:asset:amount". Unused fields
// may be left empty, e.g. "pay:alice.algo:bob.algo::1.5" or
// "optin:alice.algo::31566704:".
func parseLegFlag(id int, s string) (swap.Intent, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 5 {
		return swap.Intent{}, fmt.Errorf(
			"leg %d: %q must have the form type:sender:receiver:asset:amount", id, s,
		)
	}
	return swap.ParseIntent(id, swap.IntentFields{
		Type:     parts[0],
		Sender:   parts[1],
		Receiver: parts[2],
		AssetID:  parts[3],
		Amount:   parts[4],
	})
}

// looseString accepts a json string, number or null.
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		*s = ""
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = looseString(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected a string or a number, got %s", raw)
	}
	*s = looseString(n.String())
	return nil
}

type legJSON struct {
	Type     looseString `json:"type"`
	Sender   looseString `json:"sender"`
	Receiver looseString `json:"receiver"`
	AssetID  looseString `json:"assetId"`
	Amount   looseString `json:"amount"`
}

// parseLegsJSON parses a json array of legs:
//
//	[
//	  {"type": "pay", "sender": "alice.algo", "receiver": "BOB...", "amount": 1.5},
//	  {"type": "axfer", "sender": "BOB...", "receiver": "alice.algo", "assetId": 31566704, "amount": "10"}
//	]
func parseLegsJSON(content []byte, firstID int) ([]swap.Intent, error) {
	var legs []legJSON
	if err := json.Unmarshal(content, &legs); err != nil {
		return nil, fmt.Errorf("invalid legs json: %w", err)
	}
	intents := make([]swap.Intent, 0, len(legs))
	for i, l := range legs {
		intent, err := swap.ParseIntent(firstID+i, swap.IntentFields{
			Type:     string(l.Type),
			Sender:   string(l.Sender),
			Receiver: string(l.Receiver),
			AssetID:  string(l.AssetID),
			Amount:   string(l.Amount),
		})
		if err != nil {
			return nil, err
		}
		intents = append(intents, intent)
	}
	return intents, nil
}

// collectIntents gathers the legs of the legs file first, then the --leg
// flags, numbering them from 1 in that order.
func collectIntents(legsFile string, legFlags []string) ([]swap.Intent, error) {
	intents := []swap.Intent{}
	if legsFile != "" {
		content, err := os.ReadFile(legsFile)
		if err != nil {
			return nil, fmt.Errorf("couldn't read legs file: %w", err)
		}
		fromFile, err := parseLegsJSON(content, 1)
		if err != nil {
			return nil, err
		}
		intents = append(intents, fromFile...)
	}
	for _, s := range legFlags {
		intent, err := parseLegFlag(len(intents)+1, s)
		if err != nil {
			return nil, err
		}
		intents = append(intents, intent)
	}
	if len(intents) == 0 {
		return nil, fmt.Errorf("no leg given, use --leg or --legs-file")
	}
	return intents, nil
}
