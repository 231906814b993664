// Command portalctl runs administrative tasks against the portal database.
//
// Usage:
//
//	portalctl [--config=configs/config.yaml] migrate [up|down|status]
//	portalctl make-admin --email=user@example.com
//	portalctl import-sheet --file=sheets/dsa.yaml
//
// Database settings come from the same config file and environment as the API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"github.com/yigit/placementportal/internal/app/migrations"
	"github.com/yigit/placementportal/internal/app/models"
	"github.com/yigit/placementportal/internal/app/repositories"
	"github.com/yigit/placementportal/internal/app/services"
	"github.com/yigit/placementportal/internal/bootstrap"
	"github.com/yigit/placementportal/internal/config"
	"github.com/yigit/placementportal/internal/db"
	"github.com/yigit/placementportal/internal/pkg/apperrors"
	"github.com/yigit/placementportal/internal/pkg/logger"
	"github.com/yigit/placementportal/internal/seed"
)

var (
	okf   = color.New(color.FgGreen).PrintfFunc()
	warnf = color.New(color.FgYellow).PrintfFunc()
	errf  = color.New(color.FgRed, color.Bold).FprintfFunc()
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: portalctl [--config=path] <migrate [up|down|status] | make-admin --email=... | import-sheet --file=...>")
}

func main() {
	configPath := flag.String("config", bootstrap.DefaultConfigPath, "path to the YAML config file")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fail(err)
	}
	lgr := logger.Configure(logger.Config{Level: "warn", Pretty: true, Output: os.Stderr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cmd, args := flag.Arg(0), flag.Args()[1:]
	switch cmd {
	case "migrate":
		err = runMigrate(ctx, cfg, args)
	case "make-admin":
		err = runMakeAdmin(ctx, cfg, args)
	case "import-sheet":
		err = runImportSheet(ctx, cfg, args, lgr)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fail(err)
	}
}

func fail(err error) {
	errf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

func runMigrate(ctx context.Context, cfg *config.Config, args []string) error {
	direction := "up"
	if len(args) > 0 {
		direction = args[0]
	}

	m, err := migrations.NewMigrator(cfg.GetPostgresConnectionString())
	if err != nil {
		return err
	}
	defer m.Close()

	switch direction {
	case "up":
		applied, err := m.Up(ctx)
		if err != nil {
			return err
		}
		if len(applied) == 0 {
			warnf("Database already up to date\n")
			return nil
		}
		okf("Applied %d migration(s): %v\n", len(applied), applied)
	case "down":
		if err := m.Down(ctx); err != nil {
			return err
		}
		okf("Rolled back one migration\n")
	case "status":
		version, err := m.Version(ctx)
		if err != nil {
			return err
		}
		okf("Database version: %d\n", version)
	default:
		return fmt.Errorf("unknown migrate direction %q", direction)
	}
	return nil
}

func runMakeAdmin(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("make-admin", flag.ExitOnError)
	email := fs.String("email", "", "email of the user to promote")
	_ = fs.Parse(args)

	if strings.TrimSpace(*email) == "" {
		return errors.New("--email is required")
	}

	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	users := repositories.NewUserRepository(database.Pool)
	user, err := users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(*email)))
	if errors.Is(err, apperrors.ErrUserNotFound) {
		return fmt.Errorf("no user found with email %q", *email)
	}
	if err != nil {
		return err
	}

	if user.IsAdmin() {
		warnf("User %q is already an admin\n", user.Email)
		return nil
	}
	if err := users.UpdateRole(ctx, user.ID, models.RoleAdmin); err != nil {
		return err
	}
	okf("User %q promoted to admin\n", user.Email)
	return nil
}

func runImportSheet(ctx context.Context, cfg *config.Config, args []string, lgr zerolog.Logger) error {
	fs := flag.NewFlagSet("import-sheet", flag.ExitOnError)
	file := fs.String("file", cfg.Seed.SheetPath, "YAML sheet to import")
	_ = fs.Parse(args)

	if *file == "" {
		return errors.New("--file is required")
	}

	sheet, err := seed.LoadSheet(*file)
	if err != nil {
		return err
	}

	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	repos := repositories.NewRepositories(database.Pool)
	dsa := services.NewDSAService(repos.TopicRepository, repos.QuestionRepository, lgr)

	res, err := seed.ImportSheet(ctx, dsa, sheet, lgr)
	if err != nil {
		return err
	}

	okf("Created %d topic(s) and %d question(s)\n", res.TopicsCreated, res.QuestionsCreated)
	if res.TopicsSkipped > 0 {
		warnf("Skipped %d existing topic(s)\n", res.TopicsSkipped)
	}
	return nil
}
