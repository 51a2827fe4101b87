package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/companionkit/mira/internal/shop"
)

func init() {
	cmd := &cobra.Command{
		Use:   "shop",
		Short: "List the gift catalog",
		Run:   runShop,
	}
	RootCmd.AddCommand(cmd)
}

func runShop(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	catalog, err := shop.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		exitErr("load catalog", err)
	}

	for _, item := range catalog {
		line := fmt.Sprintf("%s — %d moedas", item.Name, item.Price)
		if item.Entitlement != "" {
			line += fmt.Sprintf(" (concede: %s)", item.Entitlement)
		}
		fmt.Println(line)
		fmt.Printf("  %s\n", item.RewardText)
	}
}
