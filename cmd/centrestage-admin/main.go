package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bndy/centrestage/config"
	"github.com/bndy/centrestage/internal/bootstrap"
	"github.com/bndy/centrestage/internal/data"
	domainauth "github.com/bndy/centrestage/internal/domain/auth"
	"github.com/bndy/centrestage/internal/ports"
	"github.com/bndy/centrestage/internal/service"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
}

const defaultMigrationTimeout = 5 * time.Minute

func main() {
	logger := bootstrap.InitLogger()

	if len(os.Args) < 2 {
		if err := printUsage(); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		if err := writef(os.Stderr, "unknown command %q\n\n", cmdName); err != nil {
			logger.Error("print unknown command message failed", "error", err)
		}
		if err := printUsage(); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.ErrorContext(context.Background(), "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}

	cmdCtx := &commandContext{
		Ctx:    context.Background(),
		Logger: logger,
		Config: cfg,
	}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	return map[string]command{
		"migrate": {
			name:        "migrate",
			description: "Run database migrations",
			run:         runMigrations,
		},
		"db-reset": {
			name:        "db-reset",
			description: "Drop the database schema and re-run migrations",
			run:         runDBReset,
		},
		"db-seed": {
			name:        "db-seed",
			description: "Load sample venues, artists, and songs for local development",
			run:         runDBSeed,
		},
		"sync-roles": {
			name:        "sync-roles",
			description: "Push a user's platform roles into provider custom claims",
			run:         runSyncRoles,
		},
		"add-role": {
			name:        "add-role",
			description: "Grant a role to a user and sync provider claims",
			run:         runAddRole,
		},
		"remove-role": {
			name:        "remove-role",
			description: "Revoke a role from a user and sync provider claims",
			run:         runRemoveRole,
		},
		"revoke-sessions": {
			name:        "revoke-sessions",
			description: "Revoke a user's refresh tokens, killing sessions on every device",
			run:         runRevokeSessions,
		},
	}
}

func printUsage() error {
	if err := writef(os.Stdout, "Usage: centrestage-admin <command> [flags]\n\n"); err != nil {
		return err
	}
	if err := writef(os.Stdout, "Available commands:\n"); err != nil {
		return err
	}
	for _, c := range commands() {
		if err := writef(os.Stdout, "  %-18s %s\n", c.name, c.description); err != nil {
			return err
		}
	}
	return nil
}

type migrateOptions struct {
	Timeout time.Duration
}

type dbResetOptions struct {
	Timeout     time.Duration
	Yes         bool
	AllowRemote bool
}

type roleOptions struct {
	UID  string
	Role string
}

type uidOptions struct {
	UID string
}

func runMigrations(cmdCtx *commandContext, args []string) error {
	opts, err := parseMigrateFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		cmdCtx.Logger.Info("running database migrations")

		if migrateErr := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); migrateErr != nil {
			return fmt.Errorf("run migrations: %w", migrateErr)
		}

		cmdCtx.Logger.Info("migrations completed successfully")
		return nil
	})
}

func runDBReset(cmdCtx *commandContext, args []string) error {
	opts, err := parseDBResetFlags(args)
	if err != nil {
		return err
	}

	target := fmt.Sprintf(
		"database %q on %s:%d",
		cmdCtx.Config.Postgres.Name,
		cmdCtx.Config.Postgres.Host,
		cmdCtx.Config.Postgres.Port,
	)

	remote, err := guardRemoteHost(cmdCtx, opts.AllowRemote, "drop and recreate the public schema")
	if err != nil {
		return err
	}

	confirmOpts := confirmOptions{
		yes:    opts.Yes,
		target: target,
	}
	if remote {
		confirmOpts.remoteHost = cmdCtx.Config.Postgres.Host
	}
	if confirmErr := confirmAction(confirmOpts, "reset database schema"); confirmErr != nil {
		return confirmErr
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		cmdCtx.Logger.Info("dropping public schema", "database", cmdCtx.Config.Postgres.Name)
		if resetErr := cmdCtx.resetDatabase(ctx, db); resetErr != nil {
			return resetErr
		}

		cmdCtx.Logger.Info("re-running database migrations")
		if migrateErr := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); migrateErr != nil {
			return fmt.Errorf("run migrations: %w", migrateErr)
		}

		cmdCtx.Logger.Info("database reset completed successfully")
		return nil
	})
}

func runSyncRoles(cmdCtx *commandContext, args []string) error {
	opts, err := parseUIDFlags("sync-roles", args)
	if err != nil {
		return err
	}

	return withClaimsService(cmdCtx, func(ctx context.Context, claims *service.ClaimsService) error {
		if syncErr := claims.SyncRoles(ctx, opts.UID); syncErr != nil {
			return fmt.Errorf("sync roles: %w", syncErr)
		}
		cmdCtx.Logger.Info("roles synced to provider claims", "uid", opts.UID)
		return nil
	})
}

func runAddRole(cmdCtx *commandContext, args []string) error {
	opts, err := parseRoleFlags("add-role", args)
	if err != nil {
		return err
	}

	return withClaimsService(cmdCtx, func(ctx context.Context, claims *service.ClaimsService) error {
		if addErr := claims.AddRole(ctx, opts.UID, domainauth.Role(opts.Role)); addErr != nil {
			return fmt.Errorf("add role: %w", addErr)
		}
		cmdCtx.Logger.Info("role granted", "uid", opts.UID, "role", opts.Role)
		return nil
	})
}

func runRemoveRole(cmdCtx *commandContext, args []string) error {
	opts, err := parseRoleFlags("remove-role", args)
	if err != nil {
		return err
	}

	return withClaimsService(cmdCtx, func(ctx context.Context, claims *service.ClaimsService) error {
		if removeErr := claims.RemoveRole(ctx, opts.UID, domainauth.Role(opts.Role)); removeErr != nil {
			return fmt.Errorf("remove role: %w", removeErr)
		}
		cmdCtx.Logger.Info("role revoked", "uid", opts.UID, "role", opts.Role)
		return nil
	})
}

func runRevokeSessions(cmdCtx *commandContext, args []string) error {
	opts, err := parseUIDFlags("revoke-sessions", args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, time.Minute)
	defer cancel()

	provider, err := bootstrap.BuildIdentityProvider(ctx, cmdCtx.Config.Auth, cmdCtx.Logger)
	if err != nil {
		return fmt.Errorf("build identity provider: %w", err)
	}

	if revokeErr := provider.RevokeRefreshTokens(ctx, opts.UID); revokeErr != nil {
		return fmt.Errorf("revoke refresh tokens: %w", revokeErr)
	}

	cmdCtx.Logger.Info("refresh tokens revoked", "uid", opts.UID)
	return nil
}

// withClaimsService connects the database and identity provider, then hands a
// wired claims service to f.
func withClaimsService(cmdCtx *commandContext, f func(context.Context, *service.ClaimsService) error) error {
	return withDatabase(cmdCtx, time.Minute, func(ctx context.Context, db *sql.DB) error {
		provider, err := bootstrap.BuildIdentityProvider(ctx, cmdCtx.Config.Auth, cmdCtx.Logger)
		if err != nil {
			return fmt.Errorf("build identity provider: %w", err)
		}

		claims := newClaimsService(db, provider, cmdCtx.Logger)
		return f(ctx, claims)
	})
}

func newClaimsService(db *sql.DB, provider ports.IdentityProvider, logger *slog.Logger) *service.ClaimsService {
	return service.NewClaimsService(service.ClaimsServiceOptions{
		Provider: provider,
		Profiles: data.NewProfileRepo(db),
		Logger:   logger,
	})
}

func parseMigrateFlags(args []string) (migrateOptions, error) {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := migrateOptions{
		Timeout: defaultMigrationTimeout,
	}

	fs.DurationVar(
		&opts.Timeout,
		"timeout",
		defaultMigrationTimeout,
		"Maximum duration to wait for migrations to complete",
	)

	if err := fs.Parse(args); err != nil {
		return migrateOptions{}, err
	}

	if opts.Timeout <= 0 {
		return migrateOptions{}, errors.New("--timeout must be greater than zero")
	}

	return opts, nil
}

func parseDBResetFlags(args []string) (dbResetOptions, error) {
	fs := flag.NewFlagSet("db-reset", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := dbResetOptions{
		Timeout: defaultMigrationTimeout,
	}

	fs.DurationVar(
		&opts.Timeout,
		"timeout",
		defaultMigrationTimeout,
		"Maximum duration to wait for reset operations to complete",
	)
	fs.BoolVar(&opts.Yes, "yes", false, "Skip confirmation prompt")
	fs.BoolVar(
		&opts.AllowRemote,
		"allow-remote",
		false,
		"Permit running against database hosts that do not look local",
	)

	if err := fs.Parse(args); err != nil {
		return dbResetOptions{}, err
	}

	if opts.Timeout <= 0 {
		return dbResetOptions{}, errors.New("--timeout must be greater than zero")
	}

	return opts, nil
}

func parseUIDFlags(name string, args []string) (uidOptions, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts uidOptions
	fs.StringVar(&opts.UID, "uid", "", "Provider account UID (required)")

	if err := fs.Parse(args); err != nil {
		return uidOptions{}, err
	}

	opts.UID = strings.TrimSpace(opts.UID)
	if opts.UID == "" {
		return uidOptions{}, errors.New("--uid is required")
	}

	return opts, nil
}

func parseRoleFlags(name string, args []string) (roleOptions, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts roleOptions
	fs.StringVar(&opts.UID, "uid", "", "Provider account UID (required)")
	fs.StringVar(&opts.Role, "role", "", "Role name (required)")

	if err := fs.Parse(args); err != nil {
		return roleOptions{}, err
	}

	opts.UID = strings.TrimSpace(opts.UID)
	opts.Role = strings.TrimSpace(opts.Role)
	if opts.UID == "" {
		return roleOptions{}, errors.New("--uid is required")
	}
	if opts.Role == "" {
		return roleOptions{}, errors.New("--role is required")
	}

	return opts, nil
}

func withDatabase(
	cmdCtx *commandContext,
	timeout time.Duration,
	f func(context.Context, *sql.DB) error,
) error {
	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	db, err := bootstrap.ConnectDB(bootstrap.DatabaseConfig{
		DBConfig: cmdCtx.Config.Postgres,
		Logger:   cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			cmdCtx.Logger.Warn("db close failed", "error", cerr)
		}
	}()

	return f(ctx, db)
}

func guardRemoteHost(cmdCtx *commandContext, allow bool, action string) (bool, error) {
	remote := isLikelyRemoteHost(cmdCtx.Config.Postgres.Host)
	if !remote {
		return false, nil
	}
	if !allow {
		return true, fmt.Errorf(
			"refusing to run against potentially remote database host %q; re-run with --allow-remote if this is intentional",
			cmdCtx.Config.Postgres.Host,
		)
	}
	if err := requireRemoteHostConfirmation(action, cmdCtx.Config.Postgres.Host); err != nil {
		return true, err
	}
	return true, nil
}

func (cmdCtx *commandContext) resetDatabase(ctx context.Context, db *sql.DB) error {
	if cmdCtx == nil {
		return errors.New("command context is required")
	}

	cfg := &cmdCtx.Config.Postgres
	statements := []string{
		"DROP SCHEMA public CASCADE",
		"CREATE SCHEMA public",
		"GRANT ALL ON SCHEMA public TO public",
	}
	if user := strings.TrimSpace(cfg.User); user != "" && !strings.EqualFold(user, "public") {
		statements = append(statements, "GRANT ALL ON SCHEMA public TO "+quoteIdentifier(user))
	}

	for _, stmt := range statements {
		if cmdCtx.Logger != nil {
			cmdCtx.Logger.DebugContext(ctx, "executing reset statement", "sql", stmt)
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt, err)
		}
	}
	return nil
}

func quoteIdentifier(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func isLikelyRemoteHost(host string) bool {
	h := strings.ToLower(strings.TrimSpace(host))
	if h == "" {
		return false
	}
	if h == "localhost" || h == "127.0.0.1" || h == "::1" {
		return false
	}
	if strings.HasSuffix(h, ".local") {
		return false
	}
	if ip := net.ParseIP(host); ip != nil {
		return !ip.IsLoopback()
	}
	return true
}

type confirmOptions struct {
	yes        bool
	target     string
	remoteHost string
}

func confirmAction(opts confirmOptions, action string) error {
	if opts.yes {
		return nil
	}

	if err := writef(os.Stderr, "\nThis will %s on %s.\n", action, opts.target); err != nil {
		return fmt.Errorf("print confirmation warning: %w", err)
	}
	if err := writef(os.Stderr, "Type \"yes\" to continue or press enter to abort: "); err != nil {
		return fmt.Errorf("print confirmation prompt: %w", err)
	}

	reader := bufio.NewReader(os.Stdin)
	resp, err := reader.ReadString('\n')
	if err != nil {
		return errors.New("aborted by user")
	}
	if strings.TrimSpace(resp) != "yes" {
		return errors.New("aborted by user")
	}
	return nil
}

func requireRemoteHostConfirmation(action, host string) error {
	if err := writef(
		os.Stderr,
		"\nWARNING: database host %q does not look like a local address.\n"+
			"This operation will %s.\n",
		host,
		action,
	); err != nil {
		return fmt.Errorf("print remote host warning: %w", err)
	}
	if err := writef(os.Stderr, "Type %q to continue or press enter to abort: ", host); err != nil {
		return fmt.Errorf("print remote host prompt: %w", err)
	}
	reader := bufio.NewReader(os.Stdin)
	resp, err := reader.ReadString('\n')
	if err != nil {
		if writeErr := writef(os.Stderr, "\nFailed to read confirmation input: %v\n", err); writeErr != nil {
			return fmt.Errorf("aborted by user: report write failed: %w", writeErr)
		}
		return errors.New("aborted by user")
	}
	if strings.TrimSpace(resp) != host {
		if writeErr := writeln(os.Stderr, "\nRemote safeguard check failed; aborting."); writeErr != nil {
			return fmt.Errorf("print remote safeguard failure: %w", writeErr)
		}
		return errors.New("aborted by user")
	}
	return nil
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func writeln(w io.Writer, args ...any) error {
	_, err := fmt.Fprintln(w, args...)
	return err
}
