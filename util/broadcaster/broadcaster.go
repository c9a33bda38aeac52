package broadcaster

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/algoswap/swapshop/clienterr"
	"github.com/algoswap/swapshop/common"
)

// RawSender submits signed transaction bytes to one node.
type RawSender interface {
	NodeName() string
	SendRawTransaction(ctx context.Context, raw []byte) (string, error)
}

// Broadcaster takes a signed group and tries to broadcast it to all
// nodes that it manages as fast as possible. The group is accepted once at
// least one node accepts it.
type Broadcaster struct {
	clients []RawSender
	timeout time.Duration
}

func NewBroadcaster(clients ...RawSender) *Broadcaster {
	sorted := append([]RawSender{}, clients...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].NodeName() < sorted[j].NodeName()
	})
	return &Broadcaster{
		clients: sorted,
		timeout: 8 * time.Second,
	}
}

func (b *Broadcaster) GetNodes() []RawSender {
	return b.clients
}

// Broadcast concatenates the signed blobs of a group and submits them.
// It returns the id of the first transaction of the group. When every
// node rejects the group the rejection of the first node, by name, is
// returned as a *clienterr.ParsedClientError.
func (b *Broadcaster) Broadcast(ctx context.Context, signed [][]byte) (string, error) {
	if len(b.clients) == 0 {
		return "", fmt.Errorf("no algod node is configured")
	}
	raw := bytes.Join(signed, nil)
	timeout, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	mu := sync.Mutex{}
	txids := map[string]string{}
	failures := map[string]error{}
	parallelTasks := []func() error{}
	for i := range b.clients {
		cli := b.clients[i]
		parallelTasks = append(parallelTasks, func() error {
			txid, err := cli.SendRawTransaction(timeout, raw)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures[cli.NodeName()] = err
				return err
			}
			txids[cli.NodeName()] = txid
			return nil
		})
	}
	_, numErrs := common.RunParallel(parallelTasks...)
	if numErrs == len(b.clients) {
		first := failures[b.clients[0].NodeName()]
		log.WithError(makeError(failures)).Info("every node rejected the group")
		return "", clienterr.Parse(first)
	}
	if numErrs > 0 {
		log.WithError(makeError(failures)).Warn("some nodes rejected the group")
	}
	for _, cli := range b.clients {
		if txid, found := txids[cli.NodeName()]; found {
			log.WithField("txid", txid).Info("group submitted")
			return txid, nil
		}
	}
	return "", fmt.Errorf("no node returned a transaction id")
}
