package store

import (
	"encoding/json"

	"promptvault/internal/guard"
)

// LoadGuardRecord reads the persisted PIN lockout record. An absent or
// malformed slot yields the zero record (no failures, not locked).
func (k *KV) LoadGuardRecord() (guard.Record, error) {
	blob, ok, err := k.Get(guardKey)
	if err != nil {
		return guard.Record{}, err
	}
	if !ok {
		return guard.Record{}, nil
	}
	var rec guard.Record
	if err := json.Unmarshal(blob, &rec); err != nil {
		return guard.Record{}, nil
	}
	return rec, nil
}

// SaveGuardRecord overwrites the PIN lockout record. The record is kept
// outside the state blob so that it survives imports and state resets.
func (k *KV) SaveGuardRecord(rec guard.Record) error {
	blob, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return k.Put(guardKey, blob)
}

// ClearGuardRecord removes the PIN lockout record.
func (k *KV) ClearGuardRecord() error {
	return k.Delete(guardKey)
}
