package main

import (
	"encoding/json"
	"fmt"

	"github.com/maloquacious/freshstart/internal/store"
	"github.com/spf13/cobra"
)

func runDBCreate(cmd *cobra.Command, args []string) error {
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}

	storePath := store.GetStorePath(cfg.DataDir)
	exists, err := store.CheckExists(storePath)
	if err != nil {
		return err
	}

	db, path, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if exists {
		state, err := db.CheckState()
		if err != nil {
			return err
		}
		if state != store.StateUninitialized {
			return fmt.Errorf("datastore %s already exists (%s)", path, state)
		}
	}

	if err := db.InitSchema(schemaVersion); err != nil {
		return err
	}
	log.Info("db create: initialized %s at schema %s", path, schemaVersion)
	return nil
}

func runDBUpgrade(cmd *cobra.Command, args []string) error {
	a, err := openApplication(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	return a.activate(cmd.Context())
}

// verifyReport is the JSON summary printed by `db verify`.
type verifyReport struct {
	Path           string `json:"path"`
	State          string `json:"state"`
	SchemaVersion  string `json:"schemaVersion"`
	ExpectedSchema string `json:"expectedSchema"`
}

func runDBVerify(cmd *cobra.Command, args []string) error {
	storePath := store.GetStorePath(cfg.DataDir)
	report := verifyReport{
		Path:           store.GetDBPath(storePath),
		State:          store.StateMissing.String(),
		ExpectedSchema: schemaVersion,
	}

	exists, err := store.CheckExists(storePath)
	if err != nil {
		return err
	}
	state := store.StateMissing
	if exists {
		db, _, err := openDB(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		if state, err = db.CheckState(); err != nil {
			return err
		}
		report.State = state.String()
		if state != store.StateUninitialized {
			if report.SchemaVersion, err = db.GetSchemaVersion(); err != nil {
				return err
			}
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return err
	}
	if state != store.StateReady {
		return fmt.Errorf("datastore is not ready: %s", report.State)
	}
	return nil
}
