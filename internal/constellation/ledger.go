// Package constellation keeps the seven-slot star ledger. It is the only
// state that outlives a day.
package constellation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/alexanderramin/fortune/internal/domain"
	"github.com/alexanderramin/fortune/internal/repository"
	"go.uber.org/zap"
)

const (
	ledgerKey = "constellation/ledger"

	// SchemaVersion is the version written by this package.
	SchemaVersion = 1
)

// ErrUnsupportedVersion is returned when the stored ledger has a schema
// version this package does not read.
var ErrUnsupportedVersion = errors.New("unsupported ledger schema version")

type document struct {
	Version int                  `json:"version"`
	Entries []domain.LedgerEntry `json:"entries"`
}

// Ledger is an ordered, day-unique, capacity-bounded list of stars.
type Ledger struct {
	store repository.KVStore
	log   *zap.Logger
}

// NewLedger creates a Ledger on store. A nil logger discards output.
func NewLedger(store repository.KVStore, log *zap.Logger) *Ledger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ledger{store: store, log: log.Named("constellation")}
}

// Append records emotion for day. An existing entry for day is overwritten;
// a new day is added only while fewer than LedgerCapacity entries exist,
// otherwise ErrLedgerFull.
func (l *Ledger) Append(ctx context.Context, day domain.DayKey, emotion domain.Emotion) error {
	if !day.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidDayKey, day)
	}
	if !emotion.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidEmotion, emotion)
	}

	var overwritten domain.Emotion
	err := l.store.Update(ctx, ledgerKey, func(cur string, ok bool) (string, error) {
		doc, err := decode(cur, ok)
		if err != nil {
			return "", err
		}

		i, found := slices.BinarySearchFunc(doc.Entries, day, func(e domain.LedgerEntry, d domain.DayKey) int {
			return strings.Compare(string(e.Day), string(d))
		})
		switch {
		case found:
			if doc.Entries[i].Emotion == emotion {
				return "", repository.ErrNoChange
			}
			overwritten = doc.Entries[i].Emotion
			doc.Entries[i].Emotion = emotion
		case len(doc.Entries) >= domain.LedgerCapacity:
			return "", fmt.Errorf("%w: %d/%d slots used", domain.ErrLedgerFull, len(doc.Entries), domain.LedgerCapacity)
		default:
			doc.Entries = slices.Insert(doc.Entries, i, domain.LedgerEntry{Day: day, Emotion: emotion})
		}
		return encode(doc)
	})
	if err != nil {
		return err
	}

	if overwritten != "" {
		l.log.Info("ledger entry overwritten",
			zap.String("day", string(day)),
			zap.String("previous", string(overwritten)),
			zap.String("next", string(emotion)),
		)
	}
	return nil
}

// All returns the entries ascending by day.
func (l *Ledger) All(ctx context.Context) ([]domain.LedgerEntry, error) {
	doc, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Entries, nil
}

func (l *Ledger) Size(ctx context.Context) (int, error) {
	doc, err := l.load(ctx)
	if err != nil {
		return 0, err
	}
	return len(doc.Entries), nil
}

// Has reports whether day already holds a star.
func (l *Ledger) Has(ctx context.Context, day domain.DayKey) (bool, error) {
	doc, err := l.load(ctx)
	if err != nil {
		return false, err
	}
	return slices.ContainsFunc(doc.Entries, func(e domain.LedgerEntry) bool { return e.Day == day }), nil
}

// Reset empties the ledger.
func (l *Ledger) Reset(ctx context.Context) error {
	if err := l.store.Delete(ctx, ledgerKey); err != nil {
		return fmt.Errorf("resetting ledger: %w", err)
	}
	return nil
}

func (l *Ledger) load(ctx context.Context) (document, error) {
	raw, ok, err := l.store.Get(ctx, ledgerKey)
	if err != nil {
		return document{}, fmt.Errorf("reading ledger: %w", err)
	}
	return decode(raw, ok)
}

// decode parses a stored ledger and restores the ordering invariant in case
// the stored list was written out of order.
func decode(raw string, ok bool) (document, error) {
	if !ok {
		return document{Version: SchemaVersion, Entries: []domain.LedgerEntry{}}, nil
	}
	var doc document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return document{}, fmt.Errorf("decoding ledger: %w", err)
	}
	if doc.Version != SchemaVersion {
		return document{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}
	if doc.Entries == nil {
		doc.Entries = []domain.LedgerEntry{}
	}
	slices.SortStableFunc(doc.Entries, func(a, b domain.LedgerEntry) int {
		return strings.Compare(string(a.Day), string(b.Day))
	})
	doc.Entries = slices.CompactFunc(doc.Entries, func(a, b domain.LedgerEntry) bool { return a.Day == b.Day })
	return doc, nil
}

func encode(doc document) (string, error) {
	doc.Version = SchemaVersion
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encoding ledger: %w", err)
	}
	return string(data), nil
}
