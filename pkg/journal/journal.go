// Package journal records touch streams in badger so sessions can be
// replayed later.
package journal

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
)

const keyPrefix = "touch/"

// TouchEvent is one recorded touch.
type TouchEvent struct {
	Phase   string    `json:"phase"`
	TouchID string    `json:"touch_id"`
	X       float64   `json:"x"`
	Y       float64   `json:"y"`
	Radius  float64   `json:"radius"`
	Time    time.Time `json:"time"`
}

// Journal is a badger-backed touch log. Safe for concurrent use.
type Journal struct {
	mu     sync.Mutex
	db     *badger.DB
	seq    map[string]uint64
	logger *slog.Logger
}

// Open opens or creates a journal at path.
func Open(path string) (*Journal, error) {
	opts := badger.DefaultOptions(path).
		WithCompression(options.ZSTD).
		WithNumVersionsToKeep(1).
		WithLogger(nil)
	return open(opts)
}

// OpenInMemory opens a journal that is discarded on Close.
func OpenInMemory() (*Journal, error) {
	return open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
}

func open(opts badger.Options) (*Journal, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("journal: open: %w", err)
	}
	j := &Journal{
		db:     db,
		seq:    make(map[string]uint64),
		logger: slog.Default().With("component", "journal"),
	}
	j.logger.Info("journal opened", "path", opts.Dir, "in_memory", opts.InMemory)
	return j, nil
}

// Key returns the storage key of the seq-th event of session. Keys sort in
// sequence order within a session.
func Key(session string, seq uint64) []byte {
	return []byte(fmt.Sprintf("%s%s/%020d", keyPrefix, session, seq))
}

func parseKey(key []byte) (session string, seq uint64, ok bool) {
	rest, found := strings.CutPrefix(string(key), keyPrefix)
	if !found {
		return "", 0, false
	}
	i := strings.LastIndexByte(rest, '/')
	if i <= 0 {
		return "", 0, false
	}
	n, err := strconv.ParseUint(rest[i+1:], 10, 64)
	if err != nil {
		return "", 0, false
	}
	return rest[:i], n, true
}

func checkSession(session string) error {
	if session == "" {
		return ErrEmptySession
	}
	if strings.ContainsRune(session, '/') {
		return ErrInvalidSession
	}
	return nil
}

// Record appends ev to session.
func (j *Journal) Record(session string, ev TouchEvent) error {
	if err := checkSession(session); err != nil {
		return err
	}
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	val, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("journal: encode: %w", err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.db == nil {
		return ErrClosed
	}

	seq, ok := j.seq[session]
	if !ok {
		if seq, err = j.lastSeq(session); err != nil {
			return err
		}
	}
	seq++

	err = j.db.Update(func(txn *badger.Txn) error {
		return txn.Set(Key(session, seq), val)
	})
	if err != nil {
		return fmt.Errorf("journal: write: %w", err)
	}
	j.seq[session] = seq
	return nil
}

// lastSeq finds the highest sequence stored for session, 0 when empty.
func (j *Journal) lastSeq(session string) (uint64, error) {
	var last uint64
	prefix := []byte(keyPrefix + session + "/")
	err := j.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			if _, seq, ok := parseKey(it.Item().Key()); ok {
				last = seq
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("journal: scan: %w", err)
	}
	return last, nil
}

// Sessions returns the recorded session ids in key order.
func (j *Journal) Sessions() ([]string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.db == nil {
		return nil, ErrClosed
	}

	var out []string
	err := j.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			session, _, ok := parseKey(it.Item().Key())
			if !ok {
				continue
			}
			if len(out) == 0 || out[len(out)-1] != session {
				out = append(out, session)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("journal: scan: %w", err)
	}
	return out, nil
}

// Replay calls fn for every event of session in recording order. An error
// from fn stops the replay and is returned.
func (j *Journal) Replay(session string, fn func(TouchEvent) error) error {
	if err := checkSession(session); err != nil {
		return err
	}
	j.mu.Lock()
	db := j.db
	j.mu.Unlock()
	if db == nil {
		return ErrClosed
	}

	return db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefix + session + "/")
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var ev TouchEvent
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &ev)
			})
			if err != nil {
				return fmt.Errorf("journal: decode %s: %w", it.Item().Key(), err)
			}
			if err := fn(ev); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close flushes and closes the database.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.db == nil {
		return nil
	}
	err := j.db.Close()
	j.db = nil
	if err != nil {
		return fmt.Errorf("journal: close: %w", err)
	}
	j.logger.Info("journal closed")
	return nil
}
