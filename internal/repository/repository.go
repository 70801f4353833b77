package repository

import (
	"context"
	"errors"
)

var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrAccountExists      = errors.New("account already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrReportNotFound     = errors.New("report not found")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrUnknownCollection  = errors.New("unknown collection")
)

// Collection keys. Nothing else is ever persisted through a RecordStore.
const (
	CollectionAccounts = "accounts"
	CollectionReports  = "reports"
)

func KnownCollection(key string) bool {
	return key == CollectionAccounts || key == CollectionReports
}

// Record is a flat field name -> primitive value mapping
// (string, bool or RFC 3339 timestamp string).
type Record map[string]any

func (r Record) String(key string) string {
	s, _ := r[key].(string)
	return s
}

func (r Record) Bool(key string) bool {
	b, _ := r[key].(bool)
	return b
}

// RecordStore persists whole collections. Get materializes the full collection,
// Set fully replaces it. An absent collection reads as empty.
type RecordStore interface {
	Get(ctx context.Context, collection string) ([]Record, error)
	Set(ctx context.Context, collection string, records []Record) error
}
