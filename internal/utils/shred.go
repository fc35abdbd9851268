// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"os"
)

// MinShredPasses is the lowest number of overwrite passes Shred accepts.
const MinShredPasses = 3

// ErrNotRegularFile is returned when Shred is pointed at a directory or a
// device.
var ErrNotRegularFile = errors.New("not a regular file")

// Shred overwrites the full length of the file at path with fresh random
// bytes passes times, fsyncing after every pass, then removes it.
// passes below [MinShredPasses] are raised to it. A missing file is not an
// error.
//
// This is best-effort anti-forensic deletion: on copy-on-write filesystems,
// journaling with data mode, SSD wear levelling or snapshots, older copies
// of the blocks may survive.
func Shred(path string, passes int) (err error) {
	if passes < MinShredPasses {
		passes = MinShredPasses
	}

	info, err := os.Lstat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return ioErr("stat", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("shred %s: %w", path, ErrNotRegularFile)
	}

	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return ioErr("open", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = ioErr("close", path, closeErr)
		}
		if err == nil {
			if rmErr := os.Remove(path); rmErr != nil {
				err = ioErr("remove", path, rmErr)
			}
		}
	}()

	size := info.Size()
	for pass := 0; pass < passes; pass++ {
		if _, err = f.Seek(0, io.SeekStart); err != nil {
			return ioErr("seek", path, err)
		}
		if _, err = io.CopyN(f, rand.Reader, size); err != nil {
			return ioErr(fmt.Sprintf("overwrite pass %d", pass+1), path, err)
		}
		if err = f.Sync(); err != nil {
			return ioErr("fsync", path, err)
		}
	}

	return nil
}
