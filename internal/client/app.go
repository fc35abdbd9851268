package client

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/neuro-vault/internal/adapter"
	"github.com/MKhiriev/neuro-vault/internal/config"
	"github.com/MKhiriev/neuro-vault/internal/logger"
	"github.com/MKhiriev/neuro-vault/internal/service"
	"github.com/MKhiriev/neuro-vault/internal/store"
	"github.com/MKhiriev/neuro-vault/internal/tui"
	"github.com/MKhiriev/neuro-vault/models"
)

// App is the neuro-vault CLI.
type App struct {
	root  *cobra.Command
	build models.AppBuildInfo

	// flags is populated by cobra and merged over env, JSON and defaults.
	flags *config.StructuredConfig

	cfg      *config.StructuredConfig
	log      *logger.Logger
	storages *store.Storages
	services *service.Services

	// editNotes runs the full-screen editor; replaced in tests.
	editNotes func(ctx context.Context, saver tui.NotesSaver, record models.VaultRecord) (models.VaultRecord, error)
}

// NewApp builds the command tree.
func NewApp(build models.AppBuildInfo) *App {
	a := &App{build: build, editNotes: tui.EditNotes}

	a.root = &cobra.Command{
		Use:                "neurovault",
		Short:              "Face-authenticated encrypted notes vault",
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.postRun,
	}
	a.flags = config.BindFlags(a.root.PersistentFlags())

	a.root.AddCommand(
		a.keyCommand(),
		a.enrollCommand(),
		a.unlockCommand(),
		a.notesCommand(),
		a.backupCommand(),
		a.backupsCommand(),
		a.restoreCommand(),
		a.rotateCommand(),
		a.verifyCommand(),
		a.shredCommand(),
		a.infoCommand(),
		a.auditCommand(),
		a.versionCommand(),
	)

	return a
}

// Run implements Client.
func (a *App) Run(ctx context.Context, args []string) error {
	a.root.SetArgs(args)
	defer a.teardown()
	return a.root.ExecuteContext(ctx)
}

// setup loads the config and builds the services for every command.
func (a *App) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.GetStructuredConfig(a.flags)
	if err != nil {
		return err
	}
	a.cfg = cfg

	log := logger.NewLogger("neurovault")
	if cfg.Log.File != "" {
		log = logger.NewFileLogger("neurovault", cfg.Log.File)
	}
	a.log = log.WithLevel(cfg.Log.Level)

	dsn := cfg.Storage.AuditDSN
	if !cfg.Storage.AuditEnabled() {
		dsn = ""
	}
	storages, err := store.NewStorages(cmd.Context(), dsn, a.log)
	if err != nil {
		return fmt.Errorf("open audit store: %w", err)
	}
	a.storages = storages

	services, err := service.NewServices(storages, cfg, a.log)
	if err != nil {
		return err
	}
	a.services = services

	cmd.SetContext(a.log.Into(cmd.Context()))
	return nil
}

func (a *App) postRun(*cobra.Command, []string) error {
	return a.teardown()
}

func (a *App) teardown() error {
	if a.storages == nil {
		return nil
	}
	err := a.storages.Close()
	a.storages = nil
	return err
}

// openVault loads the vault key.
func (a *App) openVault(ctx context.Context) error {
	return a.services.Vault.Open(ctx)
}

// authenticate runs one face authentication session and fails unless it is
// accepted.
func (a *App) authenticate(cmd *cobra.Command) error {
	ctx := cmd.Context()

	src, err := adapter.Open(ctx, adapter.SourceConfig{
		Command: a.cfg.Capture.CommandArgs(),
		File:    a.cfg.Capture.FramesFile,
	}, a.log)
	if err != nil {
		return err
	}

	decision, err := a.services.Authenticator.Authenticate(ctx, src)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr(), tui.RenderDecision(decision))

	return service.RequireAccess(decision, nil)
}

// gated wraps a command body behind face authentication and an opened vault.
func (a *App) gated(run func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := a.authenticate(cmd); err != nil {
			return err
		}
		if err := a.openVault(cmd.Context()); err != nil {
			return err
		}
		return run(cmd, args)
	}
}
