package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"facetgrip/internal/catalog"
	"facetgrip/internal/controller"
	"facetgrip/internal/domain"
	"facetgrip/internal/filter"
	"facetgrip/internal/ui"
)

var (
	queryItemStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	queryCountStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type queryOptions struct {
	search string
	tags   []string
}

func newQueryCmd(root *rootOptions) *cobra.Command {
	opts := &queryOptions{}

	cmd := &cobra.Command{
		Use:   "query <catalog.toml>",
		Short: "Print the items matching a search term and facet tags",
		Example: `  facetgrip query catalog.toml --search widget --tag color=blue
  facetgrip query catalog.toml --tag color=blue --tag kind=gadget`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(root.configPath, args[0])
			if err != nil {
				return err
			}
			root.apply(cfg)
			// a one-shot command logs to stderr unless a file was asked for,
			// and keeps stderr to warnings unless a level was asked for
			if root.logFile == "" {
				cfg.Log.File = ""
				if root.logLevel == "" {
					cfg.Log.Level = "warn"
				}
			}
			logger, cleanup, err := openLogger(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			store, err := catalog.Open(args[0], catalog.WithLogger(logger))
			if err != nil {
				return err
			}
			ctrlCfg := cfg.ControllerConfig()
			ctrlCfg.ReconcileEnabled = false
			return runQuery(cmd.OutOrStdout(), store, ctrlCfg, logger, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.search, "search", "s", "", "free-text search term")
	cmd.Flags().StringArrayVarP(&opts.tags, "tag", "t", nil, "facet selection as key=value, repeatable")
	return cmd
}

// parseTags turns key=value pairs into a selection per facet key. A later
// pair for the same key replaces the earlier one.
func parseTags(pairs []string) (map[string]string, error) {
	selections := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if !ok || key == "" || value == "" {
			return nil, fmt.Errorf("invalid tag %q, expected key=value", pair)
		}
		selections[key] = value
	}
	return selections, nil
}

// runQuery drives a controller through one set of constraints and prints the
// items its host ended up showing
func runQuery(w io.Writer, store *catalog.Store, cfg controller.Config, logger zerolog.Logger, opts *queryOptions) error {
	selections, err := parseTags(opts.tags)
	if err != nil {
		return err
	}

	host := ui.NewHost()
	ctrl, err := controller.New(controller.Options{
		Collection: store,
		Facets:     store,
		Visibility: host,
		Visuals:    host,
		Logger:     &logger,
		Config:     &cfg,
	})
	if err != nil {
		return err
	}
	defer ctrl.Close()

	for key, value := range selections {
		id, ok := ctrl.FacetByKey(key)
		if !ok {
			return fmt.Errorf("%w: no facet with key %q", filter.ErrUnknownFacet, key)
		}
		ctrl.SelectTag(id, value)
	}
	ctrl.SetSearch(opts.search)

	state := ctrl.GetState()
	for _, item := range host.Visible(store.Items()) {
		fmt.Fprintln(w, queryItemStyle.Render(itemLine(item)))
	}
	if state.IsFiltered() {
		fmt.Fprintln(w, queryCountStyle.Render(constraintLine(ctrl.Facets(), state, host)))
	}
	fmt.Fprintln(w, queryCountStyle.Render(fmt.Sprintf("%d of %d items", state.VisibleCount, state.TotalCount)))
	return nil
}

// constraintLine lists the active search term and facet selections
func constraintLine(facets []controller.FacetInfo, state domain.Result, host *ui.Host) string {
	var parts []string
	if state.SearchTerm != "" {
		parts = append(parts, fmt.Sprintf("search %q", state.SearchTerm))
	}
	for _, info := range facets {
		value := state.Selection(info.ID)
		if value == "" {
			continue
		}
		if label, ok := host.Summary(info.ID); ok {
			value = label
		}
		parts = append(parts, fmt.Sprintf("%s: %s", info.Control.Name, value))
	}
	return "matching " + strings.Join(parts, ", ")
}

func itemLine(item domain.Item) string {
	if entry, ok := item.(*catalog.Entry); ok {
		return fmt.Sprintf("%s\t%s", entry.ID, entry.String())
	}
	if fragments := item.SearchFragments(); len(fragments) > 0 {
		return fragments[0]
	}
	return ""
}
