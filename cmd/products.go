package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/khedut-saathi/khedut/internal/backend"
	"github.com/khedut-saathi/khedut/internal/config"
	"github.com/khedut-saathi/khedut/internal/logging"
)

const noProductsMessage = "No products listed for sale."

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List products for sale, grouped by category",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newBackendClient()
		if err != nil {
			return err
		}

		categories, err := client.Catalog(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to fetch products: %w", err)
		}
		printCatalog(cmd.OutOrStdout(), categories)
		return nil
	},
}

func newBackendClient() (*backend.Client, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if !cfg.IsValid() {
		return nil, fmt.Errorf("profile '%s' has no backend URL; run: khedut profile edit %s", cfg.ActiveProfile, cfg.ActiveProfile)
	}
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewFile(dir, verbose)
	if err != nil {
		return nil, err
	}
	return backend.NewClient(backend.Options{
		BaseURL: cfg.GetBackendURL(),
		Timeout: cfg.GetTimeout(),
		Logger:  logger.Named("backend"),
	})
}

func printCatalog(w io.Writer, categories []backend.Category) {
	if len(categories) == 0 {
		fmt.Fprintln(w, noProductsMessage)
		return
	}
	for i, c := range categories {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s (%d)\n", c.Name, len(c.Listings))
		for _, l := range c.Listings {
			fmt.Fprintf(w, "  %s by @%s\n", l.Name, l.Seller)
			if l.Description != "" {
				fmt.Fprintf(w, "    %s\n", l.Description)
			}
			fmt.Fprintf(w, "    Pack of: %s kg  Price: ₹%s/kg  Rating: %.1f\n",
				number(l.Quantity), number(l.Price), l.Rating)
		}
	}
}

func number(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func init() {
	rootCmd.AddCommand(productsCmd)
}
