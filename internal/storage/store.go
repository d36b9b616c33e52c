package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/pders01/dex/internal/pokeapi"
)

var (
	listsBucket   = []byte("lists")
	detailsBucket = []byte("details")
	itemsBucket   = []byte("items")
	sessionBucket = []byte("session")

	sessionKey = []byte("last")
)

var ErrNotFound = errors.New("not found")

type Store struct {
	db  *bolt.DB
	now func() time.Time
}

func NewStore(dbPath string, timeout time.Duration) (*Store, error) {
	if timeout <= 0 {
		timeout = 1 * time.Second
	}
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{listsBucket, detailsBucket, itemsBucket, sessionBucket} {
			if _, createErr := tx.CreateBucketIfNotExists(bucket); createErr != nil {
				return createErr
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// itemKey sorts numeric ids numerically under bbolt's byte ordering.
func itemKey(id string) []byte {
	if n, err := strconv.Atoi(id); err == nil && n >= 0 {
		return []byte(fmt.Sprintf("%010d", n))
	}
	return []byte(id)
}

func put(b *bolt.Bucket, key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return b.Put(key, data)
}

// SaveList caches a page and upserts its items into the items bucket.
func (s *Store) SaveList(key string, res *pokeapi.ListResult) error {
	if res == nil {
		return fmt.Errorf("saving list %q: nil result", key)
	}
	entry := CachedList{Key: key, Result: *res, FetchedAt: s.now()}
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := put(tx.Bucket(listsBucket), []byte(key), entry); err != nil {
			return err
		}
		items := tx.Bucket(itemsBucket)
		for _, item := range res.Items {
			if err := put(items, itemKey(item.ID), item); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) GetList(key string) (*CachedList, error) {
	var entry CachedList
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(listsBucket).Get([]byte(key))
		if data == nil {
			return ErrNotFound
		}
		return json.Unmarshal(data, &entry)
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// SaveDetail caches d for id. A nil d records that the id does not exist.
func (s *Store) SaveDetail(id int, d *pokeapi.Detail) error {
	entry := CachedDetail{ID: id, Detail: d, Missing: d == nil, FetchedAt: s.now()}
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := put(tx.Bucket(detailsBucket), []byte(strconv.Itoa(id)), entry); err != nil {
			return err
		}
		if d != nil {
			return put(tx.Bucket(itemsBucket), itemKey(d.ID), d.ListItem)
		}
		return nil
	})
}

func (s *Store) GetDetail(id int) (*CachedDetail, error) {
	var entry CachedDetail
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(detailsBucket).Get([]byte(strconv.Itoa(id)))
		if data == nil {
			return ErrNotFound
		}
		return json.Unmarshal(data, &entry)
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// GetAllItems returns every item seen so far, ordered by id.
func (s *Store) GetAllItems() ([]*pokeapi.ListItem, error) {
	var items []*pokeapi.ListItem
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(itemsBucket).ForEach(func(_ []byte, v []byte) error {
			var item pokeapi.ListItem
			if err := json.Unmarshal(v, &item); err != nil {
				// Skip corrupt entries rather than failing the scan.
				return nil
			}
			items = append(items, &item)
			return nil
		})
	})
	return items, err
}

func (s *Store) GetItem(id string) (*pokeapi.ListItem, error) {
	var item pokeapi.ListItem
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(itemsBucket).Get(itemKey(id))
		if data == nil {
			return ErrNotFound
		}
		return json.Unmarshal(data, &item)
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) CountItems() (int, error) {
	var n int
	err := s.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket(itemsBucket).Stats().KeyN
		return nil
	})
	return n, err
}

// PruneLists drops cached pages fetched before cutoff and reports how many
// were removed.
func (s *Store) PruneLists(cutoff time.Time) (int, error) {
	removed := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(listsBucket)
		var stale [][]byte
		if err := b.ForEach(func(k, v []byte) error {
			var entry CachedList
			if err := json.Unmarshal(v, &entry); err != nil || entry.FetchedAt.Before(cutoff) {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		}); err != nil {
			return err
		}
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		removed = len(stale)
		return nil
	})
	return removed, err
}

func (s *Store) SaveSession(sess Session) error {
	if sess.SavedAt.IsZero() {
		sess.SavedAt = s.now()
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return put(tx.Bucket(sessionBucket), sessionKey, sess)
	})
}

func (s *Store) LoadSession() (*Session, error) {
	var sess Session
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(sessionBucket).Get(sessionKey)
		if data == nil {
			return ErrNotFound
		}
		return json.Unmarshal(data, &sess)
	})
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// ListKeys returns the cached query keys, sorted.
func (s *Store) ListKeys() ([]string, error) {
	var keys []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(listsBucket).ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	sort.Strings(keys)
	return keys, err
}
