package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"domainpanel/internal/auth"
	"domainpanel/internal/domain/catalog"
	"domainpanel/internal/domain/models"
	"domainpanel/internal/domain/view"
	"domainpanel/internal/platform/kafka"
	"domainpanel/internal/platform/postgres"
	"domainpanel/pkg/platform/audit/consumer"
	auditpostgres "domainpanel/pkg/platform/audit/store/postgres"
	"domainpanel/pkg/requestcontext"
)

func newCheckCmd(a *app) *cobra.Command {
	var zones string
	cmd := &cobra.Command{
		Use:   "check <name>",
		Short: "Check availability of a name in one or more zones",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := requestcontext.WithIdentity(cmd.Context(), a.operator())
			svc, err := a.newService(a)
			if err != nil {
				return err
			}
			cat, err := catalog.Load(a.cfg.ZoneCategoriesPath)
			if err != nil {
				return err
			}

			name := args[0]
			list := splitComma(zones)
			if len(list) == 0 {
				list = []string{models.GetZone(name)}
				if list[0] == name {
					list[0] = models.DefaultZone
				}
			}

			results := make(map[string]*models.CheckResult, len(list))
			label := models.Label(name)
			for _, zone := range list {
				res, err := svc.CheckDomain(ctx, map[string]any{"domain": label, "zone": zone})
				if err != nil {
					return fmt.Errorf("check %s.%s: %w", label, zone, err)
				}
				results[res.FQDN] = res
			}
			return printJSON(cmd.OutOrStdout(), view.CheckLines(ctx, cat, label, list, results, name))
		},
	}
	cmd.Flags().StringVar(&zones, "zones", "", "comma separated zones; defaults to the zone of <name> or com")
	return cmd
}

func newZonesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "zones",
		Short: "List the zones open for registration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := requestcontext.WithIdentity(cmd.Context(), a.operator())
			svc, err := a.newService(a)
			if err != nil {
				return err
			}
			zones, err := svc.GetZones(ctx)
			if err != nil {
				return err
			}
			for _, z := range zones {
				fmt.Fprintln(cmd.OutOrStdout(), z)
			}
			return nil
		},
	}
}

func newTransferCmd(a *app) *cobra.Command {
	var domain, password, file string
	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Request an incoming transfer of one domain or of a batch list",
		Long: `Request an incoming transfer.

Either pass --domain and --password, or --file with one "domain code" pair
per line ("-" reads standard input).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data := map[string]any{}
			switch {
			case domain != "" && file != "":
				return usageError("--domain and --file are exclusive")
			case domain != "":
				data["domain"], data["password"] = domain, password
			case file != "":
				list, err := readInput(cmd, file)
				if err != nil {
					return err
				}
				data["domains"] = list
			default:
				return usageError("one of --domain or --file is required")
			}

			ctx := requestcontext.WithIdentity(cmd.Context(), a.operator())
			svc, err := a.newService(a)
			if err != nil {
				return err
			}
			res, err := svc.Transfer(ctx, data)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&domain, "domain", "", "domain to transfer")
	cmd.Flags().StringVar(&password, "password", "", "transfer (EPP) code")
	cmd.Flags().StringVar(&file, "file", "", "batch list file, or - for stdin")
	return cmd
}

func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		return string(data), err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

func newTokenCmd(a *app) *cobra.Command {
	var (
		login, seller string
		permissions   []string
		ttl           time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign an access token for the panel API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.userID == "" || a.userID == "0" {
				return usageError("--user is required")
			}
			tokens := auth.NewTokenService(a.cfg.JWTSigningKey, a.cfg.JWTIssuer, a.cfg.JWTAudience)
			token, err := tokens.GenerateAccessToken(requestcontext.User{
				ID:          a.userID,
				Login:       login,
				SellerID:    seller,
				Permissions: permissions,
			}, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&login, "login", "", "account login")
	cmd.Flags().StringVar(&seller, "seller", "", "reseller account id")
	cmd.Flags().StringSliceVar(&permissions, "perm", nil, "permissions: resell, support, manage")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}

func newAuditConsumeCmd(a *app) *cobra.Command {
	var group string
	cmd := &cobra.Command{
		Use:   "audit-consume",
		Short: "Materialize the audit stream into PostgreSQL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if len(a.cfg.Kafka.Brokers) == 0 {
				return errors.New("KAFKA_BROKERS is not set")
			}
			db, err := postgres.Open(ctx, a.cfg.Postgres)
			if err != nil {
				return err
			}
			if db == nil {
				return errors.New("DATABASE_URL is not set")
			}
			defer db.Close()

			events := auditpostgres.New(db)
			if err := events.EnsureSchema(ctx); err != nil {
				return err
			}
			c, err := kafka.NewConsumer(a.cfg.Kafka, group)
			if err != nil {
				return err
			}
			defer c.Close()

			router := consumer.NewRouter(a.logger, nil)
			router.Register(a.cfg.Kafka.Topic, consumer.NewMaterializer(events, a.logger))

			a.logger.Info("consuming audit stream", "topic", a.cfg.Kafka.Topic, "group", group)
			if err := c.Run(ctx, router.Handle); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&group, "group", "domainpanel-audit", "consumer group")
	return cmd
}
