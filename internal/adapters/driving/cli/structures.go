package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/structdb/internal/core/domain"
)

var (
	structuresDatabase string
	structuresFailed   bool
	structuresJSON     bool
)

var structuresCmd = &cobra.Command{
	Use:   "structures",
	Short: "List structures recorded in a database",
	Long: `Lists the structures recorded in a database's build catalog with their
outcome, residue and atom counts. Use --failed to list only structures that
could not be processed, with the reason.`,
	RunE: runStructuresList,
}

var structuresShowCmd = &cobra.Command{
	Use:   "show <structure-id>",
	Short: "Show one structure's catalog record",
	Args:  cobra.ExactArgs(1),
	RunE:  runStructuresShow,
}

var structuresManifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Print the database manifest",
	RunE:  runStructuresManifest,
}

var structuresIDsCmd = &cobra.Command{
	Use:   "ids",
	Short: "Print the ids that have stored atom coordinates",
	RunE:  runStructuresIDs,
}

func init() {
	structuresCmd.PersistentFlags().StringVarP(&structuresDatabase, "database", "d", "", "structure database directory")
	structuresCmd.Flags().BoolVar(&structuresFailed, "failed", false, "list only failed structures")
	structuresCmd.PersistentFlags().BoolVar(&structuresJSON, "json", false, "output as JSON")
	_ = structuresCmd.MarkPersistentFlagRequired("database")
	structuresCmd.AddCommand(structuresShowCmd)
	structuresCmd.AddCommand(structuresManifestCmd)
	structuresCmd.AddCommand(structuresIDsCmd)
	rootCmd.AddCommand(structuresCmd)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func runStructuresList(cmd *cobra.Command, _ []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}

	outcome := domain.Outcome("")
	if structuresFailed {
		outcome = domain.OutcomeFail
	}
	records, err := catalogService.Structures(commandContext(cmd), structuresDatabase, outcome)
	if err != nil {
		return fmt.Errorf("list structures: %w", err)
	}

	if structuresJSON {
		return printJSON(cmd, records)
	}
	if len(records) == 0 {
		cmd.Println("No structures recorded.")
		return nil
	}
	for i := range records {
		r := &records[i]
		if r.Status.IsSuccess() {
			cmd.Printf("%s\t%s\t%d residues\t%d atoms\n", r.ID, r.Status, r.Residues, r.Atoms)
		} else {
			cmd.Printf("%s\t%s\t%s\n", r.ID, r.Status, r.Path)
		}
	}
	return nil
}

func runStructuresShow(cmd *cobra.Command, args []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}

	r, err := catalogService.Structure(commandContext(cmd), structuresDatabase, args[0])
	if err != nil {
		return fmt.Errorf("get structure: %w", err)
	}
	if structuresJSON {
		return printJSON(cmd, r)
	}

	cmd.Printf("ID:       %s\n", r.ID)
	cmd.Printf("Path:     %s\n", r.Path)
	cmd.Printf("Status:   %s\n", r.Status)
	cmd.Printf("Run:      %s\n", r.RunID)
	cmd.Printf("Residues: %d\n", r.Residues)
	cmd.Printf("Atoms:    %d\n", r.Atoms)
	if r.Sequence != "" {
		cmd.Printf("Sequence: %s\n", r.Sequence)
	}
	return nil
}

func runStructuresManifest(cmd *cobra.Command, _ []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}

	m, err := catalogService.Manifest(commandContext(cmd), structuresDatabase)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}
	return printJSON(cmd, m)
}

func runStructuresIDs(cmd *cobra.Command, _ []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}

	ids, err := catalogService.StoredIDs(commandContext(cmd), structuresDatabase)
	if err != nil {
		return fmt.Errorf("list stored ids: %w", err)
	}
	if structuresJSON {
		return printJSON(cmd, ids)
	}
	for _, id := range ids {
		cmd.Println(id)
	}
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
