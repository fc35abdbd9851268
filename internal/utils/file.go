// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// OwnerOnly is the permission set applied to every secret-bearing file
// (keys, salts, ciphertext, embeddings, backups).
const OwnerOnly os.FileMode = 0o600

// ErrIOFailure wraps disk and permission failures so callers can tell them
// apart from cryptographic and schema errors with [errors.Is].
var ErrIOFailure = errors.New("i/o failure")

// ioErr wraps err with op context and [ErrIOFailure].
func ioErr(op, path string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", ErrIOFailure, op, path, err)
}

// Exists reports whether path exists. Errors other than "not exist" are
// returned so that permission problems are not mistaken for absence.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, ioErr("stat", path, err)
}

// AtomicWriteFile writes data to path via a temporary file in the same
// directory, fsyncs it, applies perm and renames it over path.
//
// Readers observe either the old content or the new content, never a torn
// write. The temporary file is removed on every failure path.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return ioErr("create temp for", path, err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if err = tmp.Chmod(perm); err != nil {
		return ioErr("chmod", tmpName, err)
	}
	if _, err = tmp.Write(data); err != nil {
		return ioErr("write", tmpName, err)
	}
	if err = tmp.Sync(); err != nil {
		return ioErr("fsync", tmpName, err)
	}
	if err = tmp.Close(); err != nil {
		return ioErr("close", tmpName, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return ioErr("rename", path, err)
	}

	syncDir(dir)
	return nil
}

// CopyFile copies src to dst with perm, failing if dst already exists.
// The destination is fsynced before close.
func CopyFile(src, dst string, perm os.FileMode) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return ioErr("open", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("copy to %s: %w", dst, os.ErrExist)
		}
		return ioErr("create", dst, err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = ioErr("close", dst, closeErr)
		}
		if err != nil {
			_ = os.Remove(dst)
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		return ioErr("copy", dst, err)
	}
	if err = out.Sync(); err != nil {
		return ioErr("fsync", dst, err)
	}
	return nil
}

// Rename atomically renames oldPath to newPath and flushes the parent
// directory.
func Rename(oldPath, newPath string) error {
	if err := os.Rename(oldPath, newPath); err != nil {
		return ioErr("rename", oldPath, err)
	}
	syncDir(filepath.Dir(newPath))
	return nil
}

// ReadFile reads path, returning the raw [os.ErrNotExist] for a missing file
// and [ErrIOFailure] for everything else.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		return nil, ioErr("read", path, err)
	}
	return data, nil
}

// syncDir flushes directory metadata so a completed rename survives a crash.
// Not every platform supports fsync on directories, so failures are ignored.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
