package store

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var leadsBucket = []byte("leads")

// Lead is one captured visitor email.
type Lead struct {
	Email      string    `json:"email"`
	Source     string    `json:"source"`
	SessionID  string    `json:"session_id,omitempty"`
	CapturedAt time.Time `json:"captured_at"`
}

type Store interface {
	SaveLead(l Lead) error
	ListLeads() ([]Lead, error)
	Close() error
}

type BoltStore struct {
	db *bolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(leadsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating leads bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// SaveLead appends l to the journal. Leads are keyed by a monotonically
// increasing sequence so ListLeads returns them in capture order.
func (s *BoltStore) SaveLead(l Lead) error {
	if l.Email == "" {
		return errors.New("store: lead has no email")
	}
	if l.CapturedAt.IsZero() {
		l.CapturedAt = time.Now().UTC()
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(leadsBucket)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		data, err := json.Marshal(l)
		if err != nil {
			return err
		}
		return b.Put(itob(seq), data)
	})
}

func (s *BoltStore) ListLeads() ([]Lead, error) {
	var leads []Lead
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(leadsBucket).ForEach(func(_, v []byte) error {
			var l Lead
			if err := json.Unmarshal(v, &l); err != nil {
				return err
			}
			leads = append(leads, l)
			return nil
		})
	})
	return leads, err
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
