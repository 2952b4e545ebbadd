package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"vineyard-planner/internal/fermentation/application"
	fermentation "vineyard-planner/internal/fermentation/domain"
	"vineyard-planner/internal/fermentation/infrastructure/memory"
)

// snapshotFile is the on-disk shape read by the advise command.
type snapshotFile struct {
	AsOf    time.Time               `yaml:"as_of"`
	Profile fermentation.ProfileKey `yaml:"profile"`
	Lot     fermentation.Lot        `yaml:"lot"`
	Logs    []fermentation.LogEntry `yaml:"logs"`
	Events  []fermentation.Event    `yaml:"events"`
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var adviseCmd = &cobra.Command{
	Use:   "advise",
	Short: "Evaluate a lot snapshot file offline and print its recommendations",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("snapshot")
		profile, _ := cmd.Flags().GetString("profile")
		output, _ := cmd.Flags().GetString("output")
		if path == "" {
			return errors.New("--snapshot is required")
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		snapshot, err := readSnapshot(f)
		if err != nil {
			return err
		}
		if profile != "" {
			snapshot.Profile = fermentation.ProfileKey(profile)
		}
		advice, err := adviseSnapshot(cmd.Context(), snapshot)
		if err != nil {
			return err
		}
		return writeOutput(cmd.OutOrStdout(), output, advice)
	},
}

func init() {
	rootCmd.AddCommand(adviseCmd)
	adviseCmd.Flags().StringP("snapshot", "s", "", "YAML snapshot file with lot, logs and events")
	adviseCmd.Flags().StringP("profile", "p", "", "Fermentation profile key (overrides the snapshot)")
	adviseCmd.Flags().StringP("output", "o", "json", "Output format: json or yaml")
}

func readSnapshot(r io.Reader) (snapshotFile, error) {
	var snapshot snapshotFile
	if err := yaml.NewDecoder(r).Decode(&snapshot); err != nil {
		return snapshotFile{}, fmt.Errorf("read snapshot: %w", err)
	}
	if snapshot.Lot.ID == "" {
		snapshot.Lot.ID = "snapshot"
	}
	if snapshot.Lot.OwnerID == "" {
		snapshot.Lot.OwnerID = "local"
	}
	if snapshot.Lot.Status == "" {
		snapshot.Lot.Status = fermentation.LotStatusFermenting
	}
	return snapshot, nil
}

func adviseSnapshot(ctx context.Context, snapshot snapshotFile) (*application.Advice, error) {
	store := memory.NewStore()
	if err := store.PutLot(snapshot.Lot); err != nil {
		return nil, err
	}
	for _, entry := range snapshot.Logs {
		if err := store.AppendLog(snapshot.Lot.ID, entry); err != nil {
			return nil, err
		}
	}
	for _, evt := range snapshot.Events {
		if err := store.AppendEvent(snapshot.Lot.ID, evt); err != nil {
			return nil, err
		}
	}
	opts := []application.ServiceOption{application.WithLogger(logger)}
	if !snapshot.AsOf.IsZero() {
		opts = append(opts, application.WithClock(fixedClock{now: snapshot.AsOf.UTC()}))
	}
	service, err := application.NewService(store.Lots(), store.Logs(), store.Events(), opts...)
	if err != nil {
		return nil, err
	}
	return service.Evaluate(ctx, snapshot.Lot.ID, snapshot.Profile)
}

func writeOutput(w io.Writer, format string, v any) error {
	switch format {
	case "", "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
