package share

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var txIDPattern = regexp.MustCompile(`^[A-Z2-7]{52}$`)

// ClaimLink returns the link a counterparty opens to claim the swap.
func ClaimLink(base string, ids []string) string {
	q := url.Values{}
	for _, id := range ids {
		q.Add("txid", id)
	}
	return fmt.Sprintf("%s/claim?%s", strings.TrimRight(base, "/"), q.Encode())
}

// ParseRefs accepts share transaction ids and claim links, in any mix, and
// returns the ids in the order given.
func ParseRefs(refs []string) ([]string, error) {
	ids := []string{}
	for _, ref := range refs {
		ref = strings.TrimSpace(ref)
		if ref == "" {
			continue
		}
		if !strings.Contains(ref, "txid=") {
			if !txIDPattern.MatchString(ref) {
				return nil, fmt.Errorf("%q is neither a transaction id nor a claim link", ref)
			}
			ids = append(ids, ref)
			continue
		}
		u, err := url.Parse(ref)
		if err != nil {
			return nil, fmt.Errorf("invalid claim link %q: %w", ref, err)
		}
		for _, id := range u.Query()["txid"] {
			if !txIDPattern.MatchString(id) {
				return nil, fmt.Errorf("claim link %q has invalid transaction id %q", ref, id)
			}
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no share transaction id given")
	}
	return ids, nil
}
