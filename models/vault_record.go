// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// LastModifiedLayout is the local-time layout stamped into
// [VaultRecord.LastModified] on every save.
const LastModifiedLayout = "2006-01-02 15:04:05"

// VaultRecord is the single plaintext record kept in the vault.
//
// Field order is the canonical JSON order. Both fields are required when a
// record is decoded; extra fields are ignored.
type VaultRecord struct {
	// Notes is free-form user text.
	Notes string `json:"notes"`

	// LastModified is a human-readable local timestamp, empty for a record
	// that has never been saved.
	LastModified string `json:"last_modified"`
}

// EmptyRecord returns the record reported when no vault data exists yet.
func EmptyRecord() VaultRecord {
	return VaultRecord{}
}

// IsEmpty reports whether r holds neither notes nor a modification time.
func (r VaultRecord) IsEmpty() bool {
	return r.Notes == "" && r.LastModified == ""
}
