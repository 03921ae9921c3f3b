package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func runInstallStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApplication(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if detect {
		a.classifier.IsFreshInstall(ctx)
	}

	st, err := a.installStatus(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(st)
}

func runInstallInit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApplication(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.classifier.IsFreshInstall(ctx) {
		fmt.Fprintln(cmd.OutOrStdout(), "existing install: nothing to initialize")
		return nil
	}
	if !a.classifier.InitializeFreshInstall(ctx) {
		return errors.New("fresh install initialization did not complete")
	}
	fmt.Fprintln(cmd.OutOrStdout(), "fresh install initialized")
	return nil
}
