package cli

import (
	"context"
	"fmt"

	"github.com/aadee-inc/steward/pkg/cli/config"
	"github.com/aadee-inc/steward/pkg/repository/firestore"
	"github.com/aadee-inc/steward/pkg/repository/postgres"
	"github.com/aadee-inc/steward/pkg/utils/logging"
	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdMigrate() *cli.Command {
	var repoCfg config.Repository
	var dryRun bool

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "dry-run",
			Usage:       "Preview changes without applying",
			Destination: &dryRun,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Migrate Firestore indexes or the PostgreSQL schema",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			switch repoCfg.Backend() {
			case config.BackendFirestore:
				return migrateFirestore(ctx, repoCfg.ProjectID(), repoCfg.DatabaseID(), dryRun)
			case config.BackendPostgres:
				return migratePostgres(ctx, c, repoCfg.PostgresDSN(), dryRun)
			default:
				return goerr.Wrap(config.ErrInvalidBackend, "migrate supports firestore and postgres",
					goerr.V(config.BackendKey, repoCfg.Backend()))
			}
		},
	}
}

func migrateFirestore(ctx context.Context, projectID, databaseID string, dryRun bool) error {
	logger := logging.Default()
	if projectID == "" {
		return goerr.Wrap(config.ErrMissingCredential, "firestore-project-id is required")
	}

	logger.Info("Migrate configuration",
		"projectID", projectID,
		"databaseID", databaseID,
		"dryRun", dryRun)

	indexConfig := getIndexConfig()

	client, err := fireconf.NewClient(ctx, projectID, databaseID)
	if err != nil {
		return goerr.Wrap(err, "failed to create fireconf client")
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Error("failed to close fireconf client", "error", err.Error())
		}
	}()

	if dryRun {
		logger.Info("Dry run mode - previewing changes")
		plan, err := client.GetMigrationPlan(ctx, indexConfig)
		if err != nil {
			return goerr.Wrap(err, "failed to create migration plan")
		}

		if len(plan.Steps) == 0 {
			logger.Info("No changes required")
			return nil
		}

		for _, step := range plan.Steps {
			logger.Info("Migration step",
				"collection", step.Collection,
				"operation", step.Operation,
				"description", step.Description,
				"destructive", step.Destructive)
		}
		return nil
	}

	logger.Info("Applying migrations")
	if err := client.Migrate(ctx, indexConfig); err != nil {
		return goerr.Wrap(err, "failed to apply migrations")
	}
	logger.Info("Migrations applied successfully")
	return nil
}

func migratePostgres(ctx context.Context, c *cli.Command, dsn string, dryRun bool) error {
	if dryRun {
		for _, stmt := range postgres.Statements() {
			if _, err := fmt.Fprintf(c.Root().Writer, "%s;\n\n", stmt); err != nil {
				return goerr.Wrap(err, "failed to write statement")
			}
		}
		return nil
	}

	if dsn == "" {
		return goerr.Wrap(config.ErrMissingCredential, "postgres-dsn is required")
	}

	repo, err := postgres.New(ctx, dsn)
	if err != nil {
		return goerr.Wrap(err, "failed to connect postgres")
	}
	defer closeRepository(repo)()

	if err := repo.Migrate(ctx); err != nil {
		return err
	}
	logging.Default().Info("PostgreSQL schema applied", "statements", len(postgres.Statements()))
	return nil
}

// getIndexConfig returns the composite indexes used by the list queries of
// the Firestore repository.
func getIndexConfig() *fireconf.Config {
	asc, desc := fireconf.OrderAscending, fireconf.OrderDescending

	return &fireconf.Config{
		Collections: []fireconf.Collection{
			{
				Name: firestore.ActionsCollection,
				Indexes: []fireconf.Index{
					// List: org, newest first
					{Fields: []fireconf.IndexField{{Path: "OrgID", Order: asc}, {Path: "CreatedAt", Order: desc}}},
					// List: org and status, newest first
					{Fields: []fireconf.IndexField{{Path: "OrgID", Order: asc}, {Path: "Status", Order: asc}, {Path: "CreatedAt", Order: desc}}},
					// ListByStatus: oldest approved first
					{Fields: []fireconf.IndexField{{Path: "Status", Order: asc}, {Path: "CreatedAt", Order: asc}}},
				},
			},
			{
				Name: firestore.SuggestionsCollection,
				Indexes: []fireconf.Index{
					{Fields: []fireconf.IndexField{{Path: "OrgID", Order: asc}, {Path: "CreatedAt", Order: desc}}},
					{Fields: []fireconf.IndexField{{Path: "OrgID", Order: asc}, {Path: "Status", Order: asc}, {Path: "CreatedAt", Order: desc}}},
					{Fields: []fireconf.IndexField{{Path: "OrgID", Order: asc}, {Path: "Priority", Order: asc}, {Path: "CreatedAt", Order: desc}}},
					{Fields: []fireconf.IndexField{{Path: "OrgID", Order: asc}, {Path: "Status", Order: asc}, {Path: "Priority", Order: asc}, {Path: "CreatedAt", Order: desc}}},
				},
			},
			{
				Name: firestore.ChatMessagesCollection,
				Indexes: []fireconf.Index{
					{Fields: []fireconf.IndexField{{Path: "SessionID", Order: asc}, {Path: "CreatedAt", Order: desc}}},
				},
			},
		},
	}
}
