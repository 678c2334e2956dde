package main

import (
	"context"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"realestate/internal/model"
	"realestate/internal/repository"
)

// NewSeedCmd creates the seed subcommand.
func NewSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the sample property listings",
		Long: `Creates the sample listings served by the mock backend in the live store.
Listings whose title already exists are skipped, so the command can be re-run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnvironment(cmd, func(ctx context.Context, env *environment) error {
				created, skipped, err := seedProperties(ctx, env.properties)
				if err != nil {
					return err
				}
				cmd.Printf("Seed complete: %d created, %d already present\n", created, skipped)
				return nil
			})
		},
	}
}

func seedProperties(ctx context.Context, repo repository.PropertyRepository) (created, skipped int, err error) {
	existing, err := repo.List(ctx, model.PropertyFilter{}, 0, 0)
	if err != nil {
		return 0, 0, oops.Code("SEED_FAILED").With("operation", "list existing properties").Wrap(err)
	}
	titles := make(map[string]struct{}, len(existing))
	for _, p := range existing {
		titles[p.Title] = struct{}{}
	}

	for _, sample := range repository.SampleProperties() {
		if _, ok := titles[sample.Title]; ok {
			skipped++
			continue
		}
		if _, err := repo.Create(ctx, repository.SampleInput(sample)); err != nil {
			return created, skipped, oops.Code("SEED_FAILED").
				With("operation", "create property").
				With("title", sample.Title).
				Wrap(err)
		}
		created++
	}
	return created, skipped, nil
}
