package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/neuro-vault/internal/app"
	"github.com/MKhiriev/neuro-vault/internal/client"
	"github.com/MKhiriev/neuro-vault/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli := client.NewApp(models.NewAppBuildInfo(buildVersion, buildDate, buildCommit))
	if err := cli.Run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "neurovault: %s\n  %v\n", app.Message(err), err)
		stop()
		os.Exit(1)
	}
}
