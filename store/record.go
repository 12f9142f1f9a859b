// Package store defines the on-network record shapes (ImmutableData,
// StructuredData) and the content-addressed ContentStore that backs the
// reference transport.
package store

import (
	"crypto/sha512"

	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"

	"github.com/nimbusnet/client/constants"
)

// Name is a fixed-width opaque identifier addressing content on the
// network. Equality is byte equality (the zero value of Name is a valid,
// comparable value, so Name can key a Go map directly).
type Name [constants.NameLength]byte

// HashName returns the Name that is the 64-byte hash of value, widening
// SHA-512's 64-byte digest directly (SHA-512 already produces 64 bytes, so
// no truncation or padding is needed).
func HashName(value []byte) Name {
	return Name(sha512.Sum512(value))
}

// Sendable is anything with a type tag, a name, and a canonical
// serialisation, acceptable to a Transport as a PUT payload.
type Sendable interface {
	TypeTag() uint64
	Name() Name
	SerialisedContents() ([]byte, error)
}

// ImmutableData is a write-once record whose network name is the hash of
// its value.
type ImmutableData struct {
	Value []byte
}

// NewImmutableData wraps value as an ImmutableData record.
func NewImmutableData(value []byte) *ImmutableData {
	return &ImmutableData{Value: value}
}

// TypeTag implements Sendable.
func (d *ImmutableData) TypeTag() uint64 { return constants.ImmutableDataTypeTag }

// Name implements Sendable; it is the content hash of Value, recomputed on
// every call rather than cached, since ImmutableData is immutable by
// contract.
func (d *ImmutableData) Name() Name { return HashName(d.Value) }

// SerialisedContents implements Sendable using the canonical CBOR encoding.
func (d *ImmutableData) SerialisedContents() ([]byte, error) {
	return cbor.Marshal(d)
}

// DecodeImmutableData parses the canonical encoding produced by
// SerialisedContents.
func DecodeImmutableData(raw []byte) (*ImmutableData, error) {
	d := new(ImmutableData)
	if err := cbor.Unmarshal(raw, d); err != nil {
		return nil, errors.Wrap(err, "decode ImmutableData")
	}
	return d, nil
}

// StructuredData is a mutable, owner-signed record at a fixed Name whose
// value is an append-only list of version Names; the last element is the
// current version.
type StructuredData struct {
	Identifier Name
	Owner      Name
	Value      []Name
}

// NewStructuredData constructs a StructuredData record at identifier, owned
// by owner, with the given initial version list.
func NewStructuredData(identifier, owner Name, value []Name) *StructuredData {
	return &StructuredData{Identifier: identifier, Owner: owner, Value: value}
}

// TypeTag implements Sendable.
func (d *StructuredData) TypeTag() uint64 { return constants.StructuredDataTypeTag }

// Name implements Sendable; a StructuredData's network name is its
// identifier, independent of its current value.
func (d *StructuredData) Name() Name { return d.Identifier }

// SerialisedContents implements Sendable using the canonical CBOR encoding.
func (d *StructuredData) SerialisedContents() ([]byte, error) {
	return cbor.Marshal(d)
}

// DecodeStructuredData parses the canonical encoding produced by
// SerialisedContents.
func DecodeStructuredData(raw []byte) (*StructuredData, error) {
	d := new(StructuredData)
	if err := cbor.Unmarshal(raw, d); err != nil {
		return nil, errors.Wrap(err, "decode StructuredData")
	}
	return d, nil
}

// LatestVersion returns the last element of Value, or false if Value is
// empty.
func (d *StructuredData) LatestVersion() (Name, bool) {
	if len(d.Value) == 0 {
		return Name{}, false
	}
	return d.Value[len(d.Value)-1], true
}
