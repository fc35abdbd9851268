// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package tui holds the terminal views of neuro-vault: the full-screen notes
// editor and the styled authentication verdict.
package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/neuro-vault/internal/auth"
	"github.com/MKhiriev/neuro-vault/models"
)

// NotesSaver persists edited notes and returns the stamped record.
type NotesSaver interface {
	SaveNotes(ctx context.Context, notes string) (models.VaultRecord, error)
}

// EditNotes opens the full-screen editor on record and blocks until the user
// quits. It returns the last saved record.
func EditNotes(ctx context.Context, saver NotesSaver, record models.VaultRecord) (models.VaultRecord, error) {
	model := newNotesEditorModel(ctx, saver, record)
	finalModel, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return record, err
	}

	result, ok := finalModel.(notesEditorModel)
	if !ok {
		return record, tea.ErrProgramKilled
	}
	return result.saved, nil
}

// RenderDecision renders the outcome of an authentication session.
func RenderDecision(d auth.Decision) string {
	if d.State == auth.StateAccepted {
		return grantedStyle.Render("ACCESS GRANTED")
	}

	detail := fmt.Sprintf("ACCESS DENIED: %s", d.Reason)
	if d.Reason == auth.ReasonNone {
		detail = "ACCESS DENIED"
	}
	return deniedStyle.Render(detail) + "\n" +
		helpStyle.Render(fmt.Sprintf("attempts %d, elapsed %s", d.Attempts, d.Elapsed.Round(time.Millisecond)))
}
