package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "memory",
		Short: "List the persisted conversation records",
		Run:   runMemory,
	}
	cmd.Flags().Bool("newest", false, "Show newest records first")
	cmd.Flags().Bool("json", false, "Output as JSON")
	RootCmd.AddCommand(cmd)
}

func runMemory(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	store, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer store.Close()

	records, err := store.LoadAll(cmd.Context())
	if err != nil {
		exitErr("load records", err)
	}

	newest, _ := cmd.Flags().GetBool("newest")
	if newest {
		for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
			records[i], records[j] = records[j], records[i]
		}
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(records); err != nil {
			exitErr("encode", err)
		}
		return
	}

	for _, r := range records {
		fmt.Printf("[%s]\nVocê: %s\nMira: %s\n\n", r.Timestamp, r.Question, r.Answer)
	}
}
