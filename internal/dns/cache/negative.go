package cache

import (
	"encoding/binary"
	"errors"
	"sync"
	"time"

	bbolt "go.etcd.io/bbolt"

	"github.com/netresolve/rvdns/internal/dns/domain"
)

var negativeBucket = []byte("negative")

var errShortNegativeValue = errors.New("cache: truncated negative entry value")

// negativeEntry is what the negative cache stores for a denied
// question: the status the server returned, the TTL derived from the
// authority section's SOA record, and when the entry was written.
type negativeEntry struct {
	Status   domain.Status
	Owner    string
	TTL      uint32
	CachedAt time.Time
}

func (e negativeEntry) remaining(now time.Time) time.Duration {
	return e.CachedAt.Add(time.Duration(e.TTL) * time.Second).Sub(now)
}

// negativeStore is an in-memory table of negative entries, optionally
// backed by a bbolt database so denials survive a process restart
// instead of immediately re-querying a server that just said NXDOMAIN.
type negativeStore struct {
	mu  sync.RWMutex
	mem map[string]negativeEntry
	db  *bbolt.DB
}

func newNegativeStore() *negativeStore {
	return &negativeStore{mem: make(map[string]negativeEntry)}
}

// newPersistentNegativeStore opens (or creates) a bbolt database at
// path to back the negative cache across restarts.
func newPersistentNegativeStore(path string) (*negativeStore, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(negativeBucket)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &negativeStore{mem: make(map[string]negativeEntry), db: db}, nil
}

// keys returns every key currently persisted on disk, used once at
// startup to warm the recently-negative bloom filter so a restart
// doesn't make every previously-denied name pay for a fresh negative
// store lookup it would otherwise skip.
func (s *negativeStore) keys() ([]string, error) {
	if s.db == nil {
		return nil, nil
	}
	var keys []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(negativeBucket).ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	return keys, err
}

func (s *negativeStore) close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *negativeStore) get(key string, now time.Time) (negativeEntry, bool) {
	s.mu.RLock()
	e, ok := s.mem[key]
	s.mu.RUnlock()
	if ok {
		if e.remaining(now) <= 0 {
			s.delete(key)
			return negativeEntry{}, false
		}
		return e, true
	}

	if s.db == nil {
		return negativeEntry{}, false
	}

	loaded, ok := s.loadFromDisk(key)
	if !ok {
		return negativeEntry{}, false
	}
	if loaded.remaining(now) <= 0 {
		return negativeEntry{}, false
	}
	s.mu.Lock()
	s.mem[key] = loaded
	s.mu.Unlock()
	return loaded, true
}

func (s *negativeStore) put(key string, e negativeEntry) {
	s.mu.Lock()
	s.mem[key] = e
	s.mu.Unlock()

	if s.db == nil {
		return
	}
	_ = s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(negativeBucket)
		return b.Put([]byte(key), encodeNegativeEntry(e))
	})
}

func (s *negativeStore) delete(key string) {
	s.mu.Lock()
	delete(s.mem, key)
	s.mu.Unlock()

	if s.db == nil {
		return
	}
	_ = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(negativeBucket).Delete([]byte(key))
	})
}

func (s *negativeStore) clear() {
	s.mu.Lock()
	s.mem = make(map[string]negativeEntry)
	s.mu.Unlock()

	if s.db == nil {
		return
	}
	_ = s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(negativeBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(negativeBucket)
		return err
	})
}

func (s *negativeStore) loadFromDisk(key string) (negativeEntry, bool) {
	var e negativeEntry
	var ok bool
	_ = s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(negativeBucket).Get([]byte(key))
		if v == nil {
			return nil
		}
		decoded, derr := decodeNegativeEntry(v)
		if derr != nil {
			return nil
		}
		e, ok = decoded, true
		return nil
	})
	return e, ok
}

// value layout: [status:1][ttl:4be][cachedAt:8be][ownerLen:2be][owner]
func encodeNegativeEntry(e negativeEntry) []byte {
	owner := []byte(e.Owner)
	buf := make([]byte, 1+4+8+2+len(owner))
	buf[0] = byte(e.Status)
	binary.BigEndian.PutUint32(buf[1:5], e.TTL)
	binary.BigEndian.PutUint64(buf[5:13], uint64(e.CachedAt.Unix()))
	binary.BigEndian.PutUint16(buf[13:15], uint16(len(owner)))
	copy(buf[15:], owner)
	return buf
}

func decodeNegativeEntry(v []byte) (negativeEntry, error) {
	if len(v) < 15 {
		return negativeEntry{}, errShortNegativeValue
	}
	status := domain.Status(v[0])
	ttl := binary.BigEndian.Uint32(v[1:5])
	cachedAt := time.Unix(int64(binary.BigEndian.Uint64(v[5:13])), 0)
	ownerLen := int(binary.BigEndian.Uint16(v[13:15]))
	if 15+ownerLen > len(v) {
		return negativeEntry{}, errShortNegativeValue
	}
	owner := string(v[15 : 15+ownerLen])
	return negativeEntry{Status: status, Owner: owner, TTL: ttl, CachedAt: cachedAt}, nil
}
