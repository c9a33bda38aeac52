package util

import "github.com/algoswap/swapshop/ui"

// LegDisplay is the human-readable view-model for one leg of a swap group.
// Addresses are StyledText so the terminal can colour known parties while
// JSON receives only clean text.
type LegDisplay struct {
	No       int           `json:"no"`
	Type     string        `json:"type"`
	Sender   ui.StyledText `json:"sender"`   // serializes as string
	Receiver ui.StyledText `json:"receiver"` // serializes as string
	AssetID  uint64        `json:"asset_id"`
	Asset    string        `json:"asset"`
	Amount   string        `json:"amount"`
	Signed   bool          `json:"signed"`
	TxID     string        `json:"txid"`
	TxURL    string        `json:"tx_url,omitempty"`
}

// PartyDisplay is one distinct sender of the group with the legs it has to
// sign.
type PartyDisplay struct {
	Address ui.StyledText `json:"address"`
	Legs    []int         `json:"legs"`
	Signed  int           `json:"signed"`
}

// GroupDisplay is the complete view-model of a swap group as reviewed
// before signing or claiming.
type GroupDisplay struct {
	GroupID string         `json:"group_id"`
	Network string         `json:"network"`
	Legs    []LegDisplay   `json:"legs"`
	Parties []PartyDisplay `json:"parties"`
	Signed  int            `json:"signed"`
}

// Complete reports whether every leg carries a signature.
func (d *GroupDisplay) Complete() bool {
	return d.Signed == len(d.Legs)
}
