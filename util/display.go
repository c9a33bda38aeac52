package util

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/algorand/go-algorand-sdk/v2/types"

	"github.com/algoswap/swapshop/common"
	"github.com/algoswap/swapshop/networks"
	"github.com/algoswap/swapshop/swap"
	"github.com/algoswap/swapshop/ui"
	"github.com/algoswap/swapshop/util/addrbook"
)

// styledAddress wraps a common.Address in a StyledText.
// Known addresses are Success (green), unknown ones are Warn (yellow) so
// they stand out without being alarming.
func styledAddress(addr common.Address) ui.StyledText {
	text := common.PlainAddress(addr)
	if addr.Desc == "" || addr.Desc == "unknown" {
		return ui.StyledText{Text: text, Severity: ui.SeverityWarn}
	}
	return ui.StyledText{Text: text, Severity: ui.SeveritySuccess}
}

// shortAddress is styledAddress with the address shortened, for table cells.
func shortAddress(t ui.StyledText, addr common.Address) ui.StyledText {
	short := common.ShortenAddress(addr.Address)
	t.Text = short
	if addr.Desc != "" && addr.Desc != "unknown" {
		t.Text = fmt.Sprintf("%s (%s)", short, addr.Desc)
	}
	return t
}

// ── Build phase (no UI side-effects) ────────────────────────────────────────

func buildLegDisplay(leg swap.DecodedLeg, sender, receiver common.Address, network networks.Network) LegDisplay {
	d := LegDisplay{
		No:       leg.Intent.ID,
		Type:     leg.Intent.TxType.String(),
		Sender:   styledAddress(sender),
		Receiver: styledAddress(receiver),
		Signed:   leg.Signed,
		TxID:     leg.TxID,
	}
	if leg.Intent.AssetID != nil {
		d.AssetID = uint64(*leg.Intent.AssetID)
	}
	amount := ""
	if leg.Intent.Amount != nil {
		amount = common.ReadableAmount(*leg.Intent.Amount)
	}
	switch leg.Intent.TxType {
	case swap.TxTypePayment:
		d.Asset = network.GetNativeTokenSymbol()
		d.Amount = common.FormatAmount(*leg.Intent.Amount, network.GetNativeTokenSymbol())
	default:
		d.Asset = fmt.Sprintf("%d", d.AssetID)
		d.Amount = amount
	}
	if d.TxID != "" {
		d.TxURL = network.TxURL(d.TxID)
	}
	return d
}

// BuildGroupDisplay resolves every party of legs to a description with
// namer and builds the view-model of the group. Each address is named once.
func BuildGroupDisplay(
	ctx context.Context,
	legs []swap.DecodedLeg,
	namer addrbook.Namer,
	network networks.Network,
) *GroupDisplay {
	names := map[string]common.Address{}
	name := func(addr string) common.Address {
		if n, ok := names[addr]; ok {
			return n
		}
		n := namer.Name(ctx, addr)
		names[addr] = n
		return n
	}

	d := &GroupDisplay{Network: network.GetName()}
	parties := map[string]int{}
	for _, leg := range legs {
		if d.GroupID == "" && leg.Txn.Group != (types.Digest{}) {
			d.GroupID = base64.StdEncoding.EncodeToString(leg.Txn.Group[:])
		}
		ld := buildLegDisplay(leg, name(leg.Intent.Sender), name(leg.Intent.Receiver), network)
		d.Legs = append(d.Legs, ld)

		idx, ok := parties[leg.Intent.Sender]
		if !ok {
			idx = len(d.Parties)
			parties[leg.Intent.Sender] = idx
			d.Parties = append(d.Parties, PartyDisplay{Address: ld.Sender})
		}
		d.Parties[idx].Legs = append(d.Parties[idx].Legs, ld.No)
		if leg.Signed {
			d.Parties[idx].Signed++
			d.Signed++
		}
	}
	return d
}

// ── Print phase (reads only from the display struct, colours via u.Style) ────

func signedCell(u ui.UI, signed bool) string {
	if signed {
		return u.Style(ui.StyledText{Text: "✓ signed", Severity: ui.SeveritySuccess})
	}
	return u.Style(ui.StyledText{Text: "unsigned", Severity: ui.SeverityWarn})
}

func legNumbers(nos []int) string {
	parts := make([]string, len(nos))
	for i, n := range nos {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return strings.Join(parts, ", ")
}

func printGroupDisplay(u ui.UI, d *GroupDisplay) {
	u.Section("Swap")
	summary := [][]string{
		{"Network", d.Network},
		{"Transactions", fmt.Sprintf("%d", len(d.Legs))},
		{"Signed", fmt.Sprintf("%d/%d", d.Signed, len(d.Legs))},
	}
	if d.GroupID != "" {
		summary = append([][]string{{"Group", d.GroupID}}, summary...)
	}
	u.Table(nil, summary)

	rows := make([][]string, 0, len(d.Legs))
	for _, l := range d.Legs {
		rows = append(rows, []string{
			fmt.Sprintf("%d", l.No),
			l.Type,
			u.Style(l.Sender),
			u.Style(l.Receiver),
			l.Asset,
			l.Amount,
			signedCell(u, l.Signed),
		})
	}
	u.Table([]string{"#", "Type", "Sender", "Receiver", "Asset", "Amount", "Signed"}, rows)

	u.Section("Parties")
	parties := make([][]string, 0, len(d.Parties))
	for _, p := range d.Parties {
		parties = append(parties, []string{
			u.Style(p.Address),
			fmt.Sprintf("signs %s (%d/%d signed)", legNumbers(p.Legs), p.Signed, len(p.Legs)),
		})
	}
	u.Table([]string{"Sender", "Legs"}, parties)
}

// ── Public API ───────────────────────────────────────────────────────────────

// DisplayGroup builds the view-model of a swap group and writes it to u.
// Table cells show shortened addresses, the parties table shows them in
// full so they can be checked before signing.
func DisplayGroup(
	ctx context.Context,
	u ui.UI,
	legs []swap.DecodedLeg,
	namer addrbook.Namer,
	network networks.Network,
) *GroupDisplay {
	d := BuildGroupDisplay(ctx, legs, namer, network)
	shortened := *d
	shortened.Legs = make([]LegDisplay, len(d.Legs))
	for i, l := range d.Legs {
		l.Sender = shortAddress(l.Sender, namer.Name(ctx, legs[i].Intent.Sender))
		l.Receiver = shortAddress(l.Receiver, namer.Name(ctx, legs[i].Intent.Receiver))
		shortened.Legs[i] = l
	}
	printGroupDisplay(u, &shortened)
	return d
}

// DisplaySubmitted prints the ids of submitted transactions with links to
// the network's explorer.
func DisplaySubmitted(u ui.UI, title string, txids []string, network networks.Network) {
	u.Section(title)
	rows := make([][]string, 0, len(txids))
	for _, id := range txids {
		rows = append(rows, []string{id, network.TxURL(id)})
	}
	u.Table([]string{"Transaction", "Explorer"}, rows)
}
