package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/noah-isme/student-records-api/internal/models"
	"github.com/noah-isme/student-records-api/internal/repository"
	"github.com/noah-isme/student-records-api/internal/service"
	"github.com/noah-isme/student-records-api/pkg/config"
	"github.com/noah-isme/student-records-api/pkg/kvstore"
)

type configLoader func() (*config.Config, error)

func newRootCommand(load configLoader) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "recordctl",
		Short:         "Administer the student records store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newTokenCommand(load),
		newDumpCommand(load),
		newCounterCommand(load),
	)
	return rootCmd
}

func newTokenCommand(load configLoader) *cobra.Command {
	var (
		subject string
		role    string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a signed access token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			auth := service.NewAuthService(nil, service.AuthConfig{
				AccessTokenSecret: cfg.Auth.Secret,
				AccessTokenExpiry: cfg.Auth.Expiration,
				Issuer:            cfg.Auth.Issuer,
			})
			token, _, err := auth.IssueToken(subject, models.UserRole(strings.ToUpper(role)), ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "token subject")
	cmd.Flags().StringVar(&role, "role", string(models.RoleViewer), "ADMIN, LECTURER or VIEWER")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime, defaults to JWT_EXPIRATION")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}

var dumpCollections = map[string]string{
	"students":   repository.CollectionStudents,
	"lectures":   repository.CollectionLectures,
	"attendance": repository.CollectionAttendanceRecords,
	"messages":   repository.CollectionMessages,
}

func newDumpCommand(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:       "dump <students|lectures|attendance|messages>",
		Short:     "Print every record of a collection as JSON lines in id order",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"students", "lectures", "attendance", "messages"},
		RunE: func(cmd *cobra.Command, args []string) error {
			collection, ok := dumpCollections[args[0]]
			if !ok {
				return fmt.Errorf("unknown collection %q", args[0])
			}
			return withRegistry(load, func(reg *repository.Registry) error {
				return dump(cmd.Context(), reg, collection, cmd.OutOrStdout())
			})
		},
	}
}

func newCounterCommand(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "counter",
		Short: "Print the last identifier handed out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRegistry(load, func(reg *repository.Registry) error {
				current, err := reg.IDs.Current(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), current)
				return nil
			})
		},
	}
}

func withRegistry(load configLoader, fn func(reg *repository.Registry) error) error {
	cfg, err := load()
	if err != nil {
		return err
	}
	engine, err := kvstore.Open(cfg.Storage, cfg.Database)
	if err != nil {
		return fmt.Errorf("open %s storage: %w", cfg.Storage.Backend, err)
	}
	reg := repository.NewRegistry(engine)
	defer reg.Close() //nolint:errcheck
	return fn(reg)
}

func dump(ctx context.Context, reg *repository.Registry, collection string, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	enc := json.NewEncoder(out)
	switch collection {
	case repository.CollectionStudents:
		return reg.Students.Iterate(ctx, func(_ uint64, rec models.Student) error { return enc.Encode(rec) })
	case repository.CollectionLectures:
		return reg.Lectures.Iterate(ctx, func(_ uint64, rec models.Lecture) error { return enc.Encode(rec) })
	case repository.CollectionAttendanceRecords:
		return reg.AttendanceRecords.Iterate(ctx, func(_ uint64, rec models.AttendanceRecord) error { return enc.Encode(rec) })
	case repository.CollectionMessages:
		return reg.Messages.Iterate(ctx, func(_ uint64, rec models.Message) error { return enc.Encode(rec) })
	}
	return fmt.Errorf("unknown collection %q", collection)
}
