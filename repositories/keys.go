//go:generate protoc --proto_path=../proto --go_out=../proto --go_opt=paths=source_relative storage/disk.proto
package repositories

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Keys are "{namespace}:{escaped id}:...:{timestamp_padded}:{uuid}".
// Ids are query-escaped so they never contain ':' and the 19-digit zero padding keeps
// lexicographical order chronological.
const maxTimestamp = "9999999999999999999"

func escape(id string) string {
	return url.QueryEscape(id)
}

func unescape(part string) string {
	id, err := url.QueryUnescape(part)
	if err != nil {
		return part
	}
	return id
}

func timestamp(t time.Time) string {
	return fmt.Sprintf("%019d", t.UnixNano())
}

func key(parts ...string) []byte {
	return []byte(strings.Join(parts, ":"))
}

func prefix(parts ...string) []byte {
	return []byte(strings.Join(parts, ":") + ":")
}

// hasPrefix reports whether at least one key starts with p.
func hasPrefix(db *badger.DB, p []byte) (bool, error) {
	found := false
	err := db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		options.Prefix = p
		it := txn.NewIterator(options)
		defer it.Close()
		it.Seek(p)
		found = it.ValidForPrefix(p)
		return nil
	})
	return found, err
}

// keysWithPrefix collects every key starting with p.
func keysWithPrefix(db *badger.DB, p []byte) ([][]byte, error) {
	var keys [][]byte
	err := db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		options.Prefix = p
		it := txn.NewIterator(options)
		defer it.Close()
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	return keys, err
}

// deletePrefix removes every key starting with p through a write batch, so the
// deletion is not bounded by the size of a single transaction.
func deletePrefix(db *badger.DB, p []byte) (int, error) {
	keys, err := keysWithPrefix(db, p)
	if err != nil || len(keys) == 0 {
		return 0, err
	}
	wb := db.NewWriteBatch()
	defer wb.Cancel()
	for _, k := range keys {
		if err = wb.Delete(k); err != nil {
			return 0, err
		}
	}
	if err = wb.Flush(); err != nil {
		return 0, err
	}
	return len(keys), nil
}
