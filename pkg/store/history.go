// Package store archives search runs in a badger key-value database.
//
// Each run is stored as one metadata record and one record per generation:
//
//	run:{id}:meta          -> Result without history (JSON)
//	run:{id}:gen:{%08d}    -> GenerationRecord (JSON)
//
// Zero-padded generation numbers keep badger's key order equal to
// generation order.
package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/YuminosukeSato/geneticfs/pkg/errors"
	"github.com/YuminosukeSato/geneticfs/pkg/log"
	fs "github.com/YuminosukeSato/geneticfs/sklearn/feature_selection"
)

const (
	prefixRun  = "run:"
	suffixMeta = ":meta"
)

// ErrRunNotFound is returned when no run has the requested ID.
var ErrRunNotFound = errors.New("geneticfs: run not found")

// HistoryStore persists search results.
type HistoryStore struct {
	db *badger.DB
}

// Open opens the archive in dir. An empty dir keeps everything in memory.
// A nil logger silences badger.
func Open(dir string, logger log.Logger) (*HistoryStore, error) {
	var opts badger.Options
	if dir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(dir)
	}
	if logger != nil {
		opts = opts.WithLogger(badgerLogger{l: logger.With(log.ComponentKey, "store")})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open badger database at '%s'", dir)
	}
	return &HistoryStore{db: db}, nil
}

// Close closes the database.
func (s *HistoryStore) Close() error {
	return s.db.Close()
}

func metaKey(runID string) []byte {
	return []byte(prefixRun + runID + suffixMeta)
}

func genPrefix(runID string) []byte {
	return []byte(prefixRun + runID + ":gen:")
}

func genKey(runID string, gen int) []byte {
	return []byte(fmt.Sprintf("%s%s:gen:%08d", prefixRun, runID, gen))
}

func runPrefix(runID string) []byte {
	return []byte(prefixRun + runID + ":")
}

// SaveRun writes res and its history in one transaction, replacing any run
// with the same ID.
func (s *HistoryStore) SaveRun(res *fs.Result) error {
	if res == nil || res.RunID == "" {
		return errors.NewValueError("store.SaveRun", "result must have a run ID")
	}
	if err := s.DeleteRun(res.RunID); err != nil && !errors.Is(err, ErrRunNotFound) {
		return err
	}

	meta, err := json.Marshal(res)
	if err != nil {
		return errors.Wrap(err, "encode run metadata")
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	if err := wb.Set(metaKey(res.RunID), meta); err != nil {
		return errors.Wrap(err, "write run metadata")
	}
	for _, rec := range res.History {
		data, err := json.Marshal(rec)
		if err != nil {
			return errors.Wrapf(err, "encode generation %d", rec.Generation)
		}
		if err := wb.Set(genKey(res.RunID, rec.Generation), data); err != nil {
			return errors.Wrapf(err, "write generation %d", rec.Generation)
		}
	}
	if err := wb.Flush(); err != nil {
		return errors.Wrapf(err, "flush run %s", res.RunID)
	}
	return nil
}

// LoadRun reads a run and its history in generation order.
func (s *HistoryStore) LoadRun(runID string) (*fs.Result, error) {
	var res fs.Result
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(metaKey(runID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return errors.Wrapf(ErrRunNotFound, "run %s", runID)
		}
		if err != nil {
			return err
		}
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &res)
		}); err != nil {
			return errors.Wrapf(err, "decode run %s", runID)
		}

		opts := badger.DefaultIteratorOptions
		opts.Prefix = genPrefix(runID)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var rec fs.GenerationRecord
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return errors.Wrapf(err, "decode %s", it.Item().Key())
			}
			res.History = append(res.History, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// ListRuns returns the metadata of every stored run, oldest first. History is
// not loaded.
func (s *HistoryStore) ListRuns() ([]*fs.Result, error) {
	var runs []*fs.Result
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefixRun)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			if !strings.HasSuffix(string(item.Key()), suffixMeta) {
				continue
			}
			var res fs.Result
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &res)
			}); err != nil {
				return errors.Wrapf(err, "decode %s", item.Key())
			}
			runs = append(runs, &res)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].StartedAt.Before(runs[j].StartedAt)
	})
	return runs, nil
}

// DeleteRun removes a run and its history.
func (s *HistoryStore) DeleteRun(runID string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(metaKey(runID)); errors.Is(err, badger.ErrKeyNotFound) {
			return errors.Wrapf(ErrRunNotFound, "run %s", runID)
		} else if err != nil {
			return err
		}

		opts := badger.DefaultIteratorOptions
		opts.Prefix = runPrefix(runID)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		keys := make([][]byte, 0)
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		for _, key := range keys {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}

// badgerLogger adapts log.Logger to badger.Logger.
type badgerLogger struct {
	l log.Logger
}

func (b badgerLogger) Errorf(format string, args ...interface{}) {
	b.l.Error(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (b badgerLogger) Warningf(format string, args ...interface{}) {
	b.l.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (b badgerLogger) Infof(format string, args ...interface{}) {
	b.l.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (b badgerLogger) Debugf(format string, args ...interface{}) {
	b.l.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}
