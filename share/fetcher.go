package share

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/algoswap/swapshop/note"
)

// NoteSource returns the note of a confirmed transaction.
type NoteSource interface {
	TransactionNote(ctx context.Context, txid string) ([]byte, error)
}

type Fetcher struct {
	notes NoteSource
}

func NewFetcher(notes NoteSource) *Fetcher {
	return &Fetcher{notes}
}

// Fetch reads the notes of ids in order and joins them into the shared
// payload.
func (f *Fetcher) Fetch(ctx context.Context, ids []string) ([]byte, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("no share transaction id given")
	}
	chunks := make([][]byte, 0, len(ids))
	for i, id := range ids {
		chunk, err := f.notes.TransactionNote(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("share transaction %d (%s): %w", i+1, id, err)
		}
		if len(chunk) == 0 {
			return nil, fmt.Errorf("share transaction %d (%s) has no note", i+1, id)
		}
		log.WithFields(log.Fields{"txid": id, "bytes": len(chunk)}).Debug("fetched share note")
		chunks = append(chunks, chunk)
	}
	return note.Join(chunks), nil
}
