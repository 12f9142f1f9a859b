package store

import (
	"bytes"

	bolt "github.com/coreos/bbolt"
	"github.com/pkg/errors"

	"github.com/nimbusnet/client/constants"
)

var (
	immutableBucket  = []byte("immutable")
	structuredBucket = []byte("structured")

	// ErrNotFound is returned by Get when no record exists at Name.
	ErrNotFound = errors.New("store: not found")
	// ErrImmutable is returned by PutImmutable when a different value is
	// already stored at that Name (write-once violation).
	ErrImmutable = errors.New("store: immutable record already exists with different contents")
	// ErrNotOwner is returned when a StructuredData update is attempted by
	// an identity other than the record's owner.
	ErrNotOwner = errors.New("store: update attempted by non-owner")
)

// ContentStore is a durable, content-addressed key/value store standing in
// for the network's two record kinds: write-once ImmutableData keyed by its
// content hash, and owner-mutable, append-only StructuredData keyed by a
// fixed identifier.
type ContentStore struct {
	db *bolt.DB
}

// NewContentStore opens (creating if necessary) a ContentStore backed by a
// boltdb file at path.
func NewContentStore(path string) (*ContentStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: constants.DatabaseConnectTimeout})
	if err != nil {
		return nil, errors.Wrap(err, "open content store")
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(immutableBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(structuredBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "init content store buckets")
	}
	return &ContentStore{db: db}, nil
}

// Close closes the underlying database.
func (s *ContentStore) Close() error {
	return s.db.Close()
}

// PutImmutable stores d, keyed by d.Name(). Re-putting the same value at the
// same name is a no-op; putting a different value at a name that already
// exists fails, since ImmutableData is write-once.
func (s *ContentStore) PutImmutable(d *ImmutableData) error {
	raw, err := d.SerialisedContents()
	if err != nil {
		return errors.Wrap(err, "serialise ImmutableData")
	}
	name := d.Name()
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(immutableBucket)
		existing := b.Get(name[:])
		if existing != nil && !bytes.Equal(existing, raw) {
			return ErrImmutable
		}
		return b.Put(name[:], raw)
	})
}

// GetImmutable retrieves the ImmutableData at name, or ErrNotFound.
func (s *ContentStore) GetImmutable(name Name) (*ImmutableData, error) {
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(immutableBucket).Get(name[:])
		if v == nil {
			return ErrNotFound
		}
		raw = make([]byte, len(v))
		copy(raw, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return DecodeImmutableData(raw)
}

// PutStructured creates or appends to the StructuredData at d.Identifier.
// If a record already exists at that identifier, owner must match and the
// stored value is replaced with d.Value (callers are expected to have
// appended to the previously-read value; this call does not itself enforce
// append-only, only ownership, mirroring an owner-signed update in the
// network this store stands in for).
func (s *ContentStore) PutStructured(d *StructuredData) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(structuredBucket)
		existing := b.Get(d.Identifier[:])
		if existing != nil {
			prev, err := DecodeStructuredData(existing)
			if err != nil {
				return errors.Wrap(err, "decode existing StructuredData")
			}
			if prev.Owner != d.Owner {
				return ErrNotOwner
			}
		}
		raw, err := d.SerialisedContents()
		if err != nil {
			return errors.Wrap(err, "serialise StructuredData")
		}
		return b.Put(d.Identifier[:], raw)
	})
}

// GetStructured retrieves the StructuredData at name, or ErrNotFound.
func (s *ContentStore) GetStructured(name Name) (*StructuredData, error) {
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(structuredBucket).Get(name[:])
		if v == nil {
			return ErrNotFound
		}
		raw = make([]byte, len(v))
		copy(raw, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return DecodeStructuredData(raw)
}
