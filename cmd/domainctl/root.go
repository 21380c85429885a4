package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"domainpanel/internal/domain/provisioning"
	_ "domainpanel/internal/domain/provisioning/cloudflare"
	_ "domainpanel/internal/domain/provisioning/hiapi"
	"domainpanel/internal/domain/service"
	"domainpanel/internal/domain/store"
	"domainpanel/internal/platform/config"
	"domainpanel/internal/platform/logger"
	"domainpanel/pkg/requestcontext"
)

// app carries what every subcommand shares. newService is swapped in tests.
type app struct {
	cfg        config.Server
	logger     *slog.Logger
	userID     string
	newService func(a *app) (*service.Service, error)
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(&app{newService: remoteService})
}

func newRootCmdWith(a *app) *cobra.Command {
	var logLevel string
	root := &cobra.Command{
		Use:           "domainctl",
		Short:         "Manage registered domains through the provisioning API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			a.cfg = config.FromEnv()
			if a.logger == nil {
				a.logger = logger.NewWithWriter(cmd.ErrOrStderr(), logLevel)
			}
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&a.userID, "user", "0", "account id the operations run as")

	root.AddCommand(
		newCheckCmd(a),
		newZonesCmd(a),
		newTransferCmd(a),
		newTokenCmd(a),
		newAuditConsumeCmd(a),
	)
	return root
}

// remoteService talks to the configured backend with an in-memory
// projection; the CLI keeps no local state between runs.
func remoteService(a *app) (*service.Service, error) {
	performer, err := provisioning.Build(a.cfg.Provisioning.Backend, provisioning.Options{
		BaseURL:           a.cfg.Provisioning.BaseURL,
		Token:             a.cfg.Provisioning.Token,
		Timeout:           a.cfg.Provisioning.Timeout,
		CloudflareToken:   a.cfg.Provisioning.CloudflareToken,
		CloudflareAccount: a.cfg.Provisioning.CloudflareAccount,
		Logger:            a.logger,
	})
	if err != nil {
		return nil, err
	}
	return service.New(performer, store.NewInMemoryStore(), service.WithLogger(a.logger)), nil
}

// operator is the identity CLI calls run under.
func (a *app) operator() requestcontext.User {
	return requestcontext.User{
		ID:          a.userID,
		Login:       "domainctl",
		Permissions: []string{requestcontext.PermissionSupport},
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func splitComma(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func usageError(format string, args ...any) error {
	return fmt.Errorf("usage: "+format, args...)
}
