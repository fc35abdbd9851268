// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vault

import (
	"context"
	"fmt"

	"github.com/MKhiriev/neuro-vault/internal/crypto"
)

// RotateResult reports what RotateKey did.
type RotateResult struct {
	// BackupPath is the pre-rotation backup, empty when there was no data.
	BackupPath string
	// Previous and Current are key fingerprints.
	Previous string
	Current  string
}

// RotateKey re-encrypts the record under newKey, or under a freshly
// generated key when newKey is nil.
//
// The steps are: load under the old key, back up the old ciphertext,
// re-encrypt and verify under the new key, stage the new key, write the new
// data, commit the new key. A failure before the data write leaves the old
// key and data in place. A crash after the data write is completed by the
// next Open, which finds the staged key able to decrypt the data.
func (v *Vault) RotateKey(ctx context.Context, newKey *crypto.Key) (RotateResult, error) {
	if err := ctx.Err(); err != nil {
		return RotateResult{}, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.opened {
		return RotateResult{}, ErrNotOpen
	}

	record, err := v.loadWith(v.key)
	if err != nil {
		return RotateResult{}, fmt.Errorf("rotate: load under current key: %w", err)
	}

	backupPath, _, err := v.backupLocked()
	if err != nil {
		return RotateResult{}, fmt.Errorf("rotate: %w", err)
	}

	next, err := v.nextKey(newKey)
	if err != nil {
		return RotateResult{}, err
	}

	blob, err := Encrypt(record, next)
	if err != nil {
		return RotateResult{}, fmt.Errorf("rotate: re-encrypt: %w", err)
	}
	if _, err = Decrypt(blob, next); err != nil {
		return RotateResult{}, fmt.Errorf("rotate: verify re-encrypted data: %w", err)
	}

	prev, err := v.keys.Rotate(next)
	if err != nil {
		return RotateResult{}, err
	}

	if err = v.writeBlob(blob); err != nil {
		if abortErr := v.keys.AbortRotation(); abortErr != nil {
			v.logger.Error().Err(abortErr).Msg("failed to discard staged key")
		}
		return RotateResult{}, fmt.Errorf("rotate: %w", err)
	}

	if err = v.keys.CommitRotation(); err != nil {
		// Data is already under next; the staged key is picked up by Open.
		v.key = next
		return RotateResult{}, fmt.Errorf("rotate: %w", err)
	}

	v.key = next

	res := RotateResult{
		BackupPath: backupPath,
		Previous:   crypto.Fingerprint(prev),
		Current:    crypto.Fingerprint(next),
	}
	v.logger.Info().
		Str("from", res.Previous).
		Str("to", res.Current).
		Str("backup", res.BackupPath).
		Msg("key rotated")

	return res, nil
}

func (v *Vault) nextKey(newKey *crypto.Key) (crypto.Key, error) {
	if newKey != nil {
		if newKey.IsZero() {
			return crypto.Key{}, fmt.Errorf("rotate: %w: zero key", crypto.ErrKeyCorrupt)
		}
		return *newKey, nil
	}

	k, err := v.keys.GenerateKey()
	if err != nil {
		return crypto.Key{}, fmt.Errorf("rotate: generate key: %w", err)
	}
	return k, nil
}
