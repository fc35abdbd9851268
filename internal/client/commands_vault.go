package client

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/neuro-vault/models"
)

func (a *App) backupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Copy the encrypted data to a timestamped backup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, ok, err := a.services.Vault.Backup(cmd.Context())
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.ErrOrStderr(), "no vault data to back up")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func (a *App) backupsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "backups",
		Short: "List backups, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			backups, err := a.services.Vault.Backups(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CREATED\tSIZE\tPATH")
			for _, b := range backups {
				fmt.Fprintf(w, "%s\t%d\t%s\n", b.CreatedAt.Format(time.DateTime), b.Size, b.Path)
			}
			return w.Flush()
		},
	}
}

func (a *App) restoreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <backup>",
		Short: "Replace the vault data with a backup (requires face authentication)",
		Args:  cobra.ExactArgs(1),
		RunE: a.gated(func(cmd *cobra.Command, args []string) error {
			if err := a.services.Vault.Restore(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "restored %s\n", args[0])
			return nil
		}),
	}
}

func (a *App) rotateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rotate",
		Short: "Re-encrypt the vault under a new random key (requires face authentication)",
		Args:  cobra.NoArgs,
		RunE: a.gated(func(cmd *cobra.Command, _ []string) error {
			result, err := a.services.Vault.Rotate(cmd.Context(), nil)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "key rotated: %s -> %s\n", result.Previous, result.Current)
			if result.BackupPath != "" {
				fmt.Fprintf(out, "previous data kept in %s\n", result.BackupPath)
			}
			return nil
		}),
	}
}

func (a *App) verifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check that the vault data authenticates under the stored key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.services.Vault.Verify(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "vault integrity OK")
			return nil
		},
	}
}

func (a *App) shredCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shred <file>...",
		Short: "Overwrite files with random data and delete them (requires face authentication)",
		Long: "Overwrite each file with random data for the configured number of passes, " +
			"flushing after every pass, then delete it. Copy-on-write file systems, SSD wear " +
			"levelling and snapshots may keep older copies of the data.",
		Args: cobra.MinimumNArgs(1),
		RunE: a.gated(func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				if err := a.services.Vault.Shred(cmd.Context(), path); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "shredded %s\n", path)
			}
			return nil
		}),
	}
}

func (a *App) infoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show vault, key and enrollment state as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info, err := a.services.Vault.Info(cmd.Context())
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		},
	}
}

func (a *App) auditCommand() *cobra.Command {
	var (
		operation string
		limit     uint64
		since     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "List recorded audit events, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter := models.AuditFilter{Operation: operation, Limit: limit}
			if since > 0 {
				filter.Since = time.Now().Add(-since)
			}

			events, err := a.services.Audit.List(cmd.Context(), filter)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tOPERATION\tOUTCOME\tREASON\tSESSION")
			for _, e := range events {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					e.CreatedAt.Local().Format(time.DateTime), e.Operation, e.Outcome, e.Reason, e.SessionID)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&operation, "op", "", "Only show this operation")
	cmd.Flags().Uint64Var(&limit, "limit", 50, "Maximum number of events, 0 for all")
	cmd.Flags().DurationVar(&since, "since", 0, "Only show events newer than this (e.g., 24h)")

	return cmd
}

func (a *App) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		// no config or storage needed
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Build version: %s\n", orNA(a.build.BuildVersion()))
			fmt.Fprintf(out, "Build date: %s\n", orNA(a.build.BuildDate()))
			fmt.Fprintf(out, "Build commit: %s\n", orNA(a.build.BuildCommit()))
		},
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
