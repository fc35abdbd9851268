package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/neuro-vault/models"
)

// clipboardWrite is replaced in tests.
var clipboardWrite = clipboard.WriteAll

type notesEditorModel struct {
	ctx   context.Context
	saver NotesSaver

	editor  textarea.Model
	spinner spinner.Model

	saved      models.VaultRecord
	submitting bool
	confirm    bool
	status     string
	err        error
}

func newNotesEditorModel(ctx context.Context, saver NotesSaver, record models.VaultRecord) notesEditorModel {
	editor := textarea.New()
	editor.Placeholder = "Your notes..."
	editor.ShowLineNumbers = false
	editor.CharLimit = 0
	editor.SetWidth(72)
	editor.SetHeight(16)
	editor.SetValue(record.Notes)
	editor.Focus()

	return notesEditorModel{
		ctx:     ctx,
		saver:   saver,
		editor:  editor,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		saved:   record,
	}
}

func (m notesEditorModel) Init() tea.Cmd {
	return textarea.Blink
}

// dirty reports whether the buffer differs from the last saved notes.
func (m notesEditorModel) dirty() bool {
	return m.editor.Value() != m.saved.Notes
}

func (m notesEditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case notesSavedMsg:
		m.submitting = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.saved = msg.record
		m.status = "Saved " + msg.record.LastModified
		return m, cmdClearStatus()
	case copiedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.status = "Copied!"
		return m, cmdClearStatus()
	case clearStatusMsg:
		m.status = ""
		return m, nil
	case spinner.TickMsg:
		if !m.submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if m.confirm {
			return m.updateConfirm(msg)
		}
		switch {
		case key.Matches(msg, keys.quit):
			if m.dirty() {
				m.confirm = true
				return m, nil
			}
			return m, tea.Quit
		case key.Matches(msg, keys.save):
			if m.submitting {
				return m, nil
			}
			m.submitting = true
			return m, tea.Batch(m.cmdSave(m.editor.Value()), m.spinner.Tick)
		case key.Matches(msg, keys.copy):
			return m, cmdCopyToClipboard(m.editor.Value())
		}
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m notesEditorModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.yes):
		return m, tea.Quit
	case key.Matches(msg, keys.no):
		m.confirm = false
	}
	return m, nil
}

func (m notesEditorModel) View() string {
	out := titleStyle.Render("NeuroVault notes") + "\n"
	if m.saved.LastModified != "" {
		out += helpStyle.Render("last modified "+m.saved.LastModified) + "\n"
	}
	out += "\n" + m.editor.View() + "\n\n"

	switch {
	case m.confirm:
		out += errorStyle.Render("Discard unsaved changes? y/n")
	case m.submitting:
		out += m.spinner.View() + " saving..."
	case m.err != nil:
		out += errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	case m.status != "":
		out += statusStyle.Render(m.status)
	default:
		out += helpStyle.Render("ctrl+s save  ctrl+y copy  esc quit")
	}

	return appStyle.Render(out)
}

func (m notesEditorModel) cmdSave(notes string) tea.Cmd {
	ctx := m.ctx
	saver := m.saver
	return func() tea.Msg {
		record, err := saver.SaveNotes(ctx, notes)
		return notesSavedMsg{record: record, err: err}
	}
}

func cmdCopyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboardWrite(text); err != nil {
			return copiedMsg{err: fmt.Errorf("copy to clipboard: %w", err)}
		}
		return copiedMsg{}
	}
}

func cmdClearStatus() tea.Cmd {
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}
