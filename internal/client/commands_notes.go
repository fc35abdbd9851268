package client

import (
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
)

// clipboardWrite is replaced in tests.
var clipboardWrite = clipboard.WriteAll

func (a *App) notesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Read or change the vault notes (requires face authentication)",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the notes",
		Args:  cobra.NoArgs,
		RunE: a.gated(func(cmd *cobra.Command, _ []string) error {
			record, err := a.services.Vault.Notes(cmd.Context())
			if err != nil {
				return err
			}
			if record.LastModified != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "last modified %s\n", record.LastModified)
			}
			fmt.Fprintln(cmd.OutOrStdout(), record.Notes)
			return nil
		}),
	}

	set := &cobra.Command{
		Use:   "set [text]",
		Short: "Replace the notes with text, or with stdin when no text is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: a.gated(func(cmd *cobra.Command, args []string) error {
			var notes string
			if len(args) == 1 {
				notes = args[0]
			} else {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read notes: %w", err)
				}
				notes = strings.TrimRight(string(data), "\n")
			}

			record, err := a.services.Vault.SaveNotes(cmd.Context(), notes)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "notes saved at %s\n", record.LastModified)
			return nil
		}),
	}

	edit := &cobra.Command{
		Use:   "edit",
		Short: "Edit the notes in a full-screen editor",
		Args:  cobra.NoArgs,
		RunE: a.gated(func(cmd *cobra.Command, _ []string) error {
			record, err := a.services.Vault.Notes(cmd.Context())
			if err != nil {
				return err
			}
			_, err = a.editNotes(cmd.Context(), a.services.Vault, record)
			return err
		}),
	}

	copyCmd := &cobra.Command{
		Use:   "copy",
		Short: "Copy the notes to the clipboard",
		Args:  cobra.NoArgs,
		RunE: a.gated(func(cmd *cobra.Command, _ []string) error {
			record, err := a.services.Vault.Notes(cmd.Context())
			if err != nil {
				return err
			}
			if err = clipboardWrite(record.Notes); err != nil {
				return fmt.Errorf("copy to clipboard: %w", err)
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "notes copied to clipboard")
			return nil
		}),
	}

	cmd.AddCommand(show, set, edit, copyCmd)
	return cmd
}
