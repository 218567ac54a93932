package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInitSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-schema",
		Short: "Create or update the database schema",
		Long:  "Applies the idempotent DDL for all pipeline tables. Safe to re-run.",
		Args:  cobra.NoArgs,
		RunE:  runInitSchema,
	}
}

func runInitSchema(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.db.InitSchema(ctx); err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}

	fmt.Println("Schema initialized")
	return nil
}
