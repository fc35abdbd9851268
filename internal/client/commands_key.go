package client

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/neuro-vault/internal/app"
	"github.com/MKhiriev/neuro-vault/internal/crypto"
	"github.com/MKhiriev/neuro-vault/internal/utils"
	"github.com/MKhiriev/neuro-vault/internal/vault"
)

// ErrKeyExists is returned when a command would overwrite a live key.
var ErrKeyExists = errors.New("vault key already exists")

func (a *App) keyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the vault key",
	}

	var force, forceRecover bool
	generate := &cobra.Command{
		Use:   "generate",
		Short: "Generate and store a new random key",
		Long:  "Generate and store a new random key. Refuses while encrypted data exists; use rotate instead.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.refuseOverwrite(force); err != nil {
				return err
			}

			key, err := a.services.Keys.GenerateKey()
			if err != nil {
				return err
			}
			if err = a.services.Keys.SaveKey(key); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "key generated: %s\n", key)
			return nil
		},
	}
	generate.Flags().BoolVar(&force, "force", false, "Overwrite an existing key file")

	var passphraseFile string
	derive := &cobra.Command{
		Use:   "derive",
		Short: "Switch the vault to a key derived from a passphrase (requires face authentication)",
		Long: "Derive a key from a passphrase with a fresh salt. Existing data is re-encrypted " +
			"under the derived key; the salt is committed together with the key so the key " +
			"can be recovered later.",
		Args: cobra.NoArgs,
		RunE: a.gated(func(cmd *cobra.Command, _ []string) error {
			passphrase, err := readPassphrase(cmd, passphraseFile)
			if err != nil {
				return err
			}

			key, salt, err := a.services.Keys.DeriveKey(passphrase, nil)
			if err != nil {
				return err
			}

			if err = a.services.Keys.StageSalt(salt, key); err != nil {
				return err
			}
			result, err := a.services.Vault.Rotate(cmd.Context(), &key)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "key derived (%s): %s\n", a.services.Keys.KDF().Algorithm, result.Current)
			return nil
		}),
	}
	derive.Flags().StringVar(&passphraseFile, "passphrase-file", "", "Read the passphrase from a file instead of stdin")

	recoverCmd := &cobra.Command{
		Use:   "recover",
		Short: "Rebuild the key file from the passphrase and stored salt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.refuseKeyOverwrite(forceRecover); err != nil {
				return err
			}

			passphrase, err := readPassphrase(cmd, passphraseFile)
			if err != nil {
				return err
			}
			key, err := a.services.Keys.RecoverKey(passphrase)
			if err != nil {
				return err
			}
			if err = a.checkKeyOpensData(key); err != nil {
				return err
			}
			if err = a.services.Keys.SaveKey(key); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "key recovered: %s\n", key)
			return nil
		},
	}
	recoverCmd.Flags().StringVar(&passphraseFile, "passphrase-file", "", "Read the passphrase from a file instead of stdin")
	recoverCmd.Flags().BoolVar(&forceRecover, "force", false, "Overwrite an existing key file")

	fingerprint := &cobra.Command{
		Use:   "fingerprint",
		Short: "Print the fingerprint of the stored key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := a.services.Keys.LoadKey()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), key)
			return nil
		},
	}

	cmd.AddCommand(generate, derive, recoverCmd, fingerprint)
	return cmd
}

// refuseOverwrite guards key generation: existing data would become
// unreadable, an existing key needs force.
func (a *App) refuseOverwrite(force bool) error {
	dataExists, err := utils.Exists(a.cfg.Paths.DataFile)
	if err != nil {
		return err
	}
	if dataExists {
		return fmt.Errorf("%w: encrypted data exists at %s, use rotate", ErrKeyExists, a.cfg.Paths.DataFile)
	}
	return a.refuseKeyOverwrite(force)
}

func (a *App) refuseKeyOverwrite(force bool) error {
	keyExists, err := utils.Exists(a.services.Keys.KeyPath())
	if err != nil {
		return err
	}
	if keyExists && !force {
		return fmt.Errorf("%w: %s (use --force)", ErrKeyExists, a.services.Keys.KeyPath())
	}
	return nil
}

// checkKeyOpensData verifies key against the data file, if there is one.
func (a *App) checkKeyOpensData(key crypto.Key) error {
	data, err := utils.ReadFile(a.cfg.Paths.DataFile)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	if _, err = vault.Decrypt(vault.Blob(data), key); err != nil {
		if errors.Is(err, vault.ErrIntegrityViolation) {
			return app.ErrWrongPassphrase
		}
		return err
	}
	return nil
}

// readPassphrase reads the first line of path, or of stdin when path is
// empty.
func readPassphrase(cmd *cobra.Command, path string) ([]byte, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open passphrase file: %w", err)
		}
		defer f.Close()
		r = f
	} else {
		fmt.Fprint(cmd.ErrOrStderr(), "passphrase: ")
	}

	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read passphrase: %w", err)
	}

	passphrase := strings.TrimRight(line, "\r\n")
	if passphrase == "" {
		return nil, crypto.ErrEmptyPassphrase
	}
	return []byte(passphrase), nil
}
