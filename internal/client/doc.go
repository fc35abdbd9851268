// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the neuro-vault command line application.
//
// It wires configuration, logging, the audit store and the services into a
// cobra command tree. Commands that reveal or change vault contents run a
// face authentication session first and refuse to continue unless it is
// accepted.
package client
