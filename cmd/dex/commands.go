package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/pders01/dex/internal/catalog"
	"github.com/pders01/dex/internal/detailview"
	"github.com/pders01/dex/internal/listview"
	"github.com/pders01/dex/internal/pokeapi"
	"github.com/pders01/dex/internal/search"
	"github.com/pders01/dex/internal/tui"
)

var (
	listSearch   string
	listPage     int
	indexPages   int
	indexWorkers int
	searchLimit  int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print one page of the catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()

		page := max(listPage-1, 0)
		size := e.cfg.UI.PageSize
		term := strings.TrimSpace(listSearch)

		fetch := func(page int) (*pokeapi.ListResult, error) {
			return e.svc.FetchList(cmd.Context(), pokeapi.ListQuery{
				Pattern: pokeapi.SearchPattern(term),
				Limit:   size,
				Offset:  page * size,
			})
		}

		res, fetchErr := fetch(page)
		if fetchErr == nil && res != nil {
			if last := listview.NewPagination(page, res.TotalCount, size).LastPage(); page > last {
				page = last
				res, fetchErr = fetch(page)
			}
		}

		in := listview.Inputs{
			Err:          fetchErr,
			Result:       res,
			Settled:      term,
			EmptyMessage: listview.RandomEmptyMessage(),
		}
		if res != nil {
			in.Pagination = listview.NewPagination(page, res.TotalCount, size)
		}

		out := cmd.OutOrStdout()
		switch st := listview.Derive(in).(type) {
		case listview.Populated:
			fmt.Fprintln(out, itemTable(st.Items))
			fmt.Fprintln(out, st.Pagination.Indicator())
		case listview.NoMatches:
			fmt.Fprintln(out, st.Text())
			printSuggestions(out, e.searcher, term)
		case listview.Failed:
			return fetchErr
		default:
			fmt.Fprintln(out, st.Text())
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print the details of one Pokémon",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, ok := pokeapi.ParseID(args[0])
		if !ok {
			return fmt.Errorf("invalid id %q", args[0])
		}

		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()

		out := cmd.OutOrStdout()
		d, err := e.svc.FetchDetail(cmd.Context(), id)
		if err != nil {
			item, cacheErr := e.store.GetItem(strconv.Itoa(id))
			if cacheErr != nil {
				return fmt.Errorf("loading details: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v; showing the cached summary\n", err)
			d = &pokeapi.Detail{ListItem: *item}
		}
		if d == nil {
			fmt.Fprintln(out, detailview.EmptyText)
			return nil
		}

		card := detailview.NewCard(d)
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(80))
		if err != nil {
			fmt.Fprint(out, card.Markdown())
			return nil
		}
		rendered, err := r.Render(card.Markdown())
		if err != nil {
			fmt.Fprint(out, card.Markdown())
			return nil
		}
		fmt.Fprint(out, rendered)
		return nil
	},
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Fetch the catalog into the local cache and search index",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()

		errOut := cmd.ErrOrStderr()
		n, err := e.svc.Crawl(cmd.Context(), catalog.CrawlOptions{
			Pages:   indexPages,
			Workers: indexWorkers,
			Progress: func(done, total int) {
				fmt.Fprintf(errOut, "\rindexed page %d/%d", done, total)
			},
		})
		fmt.Fprintln(errOut)
		if err != nil {
			return fmt.Errorf("indexing: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Fetched %d Pokémon\n", n)
		if cached, countErr := e.store.CountItems(); countErr == nil {
			fmt.Fprintf(out, "Cache holds %d Pokémon\n", cached)
		}
		if ds, ok := e.searcher.(search.DebugStatser); ok {
			if docs, statErr := ds.DocCount(); statErr == nil {
				fmt.Fprintf(out, "Search index holds %d documents\n", docs)
			}
		}
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search the locally indexed catalog",
	Long: `search looks only at Pokémon already in the local cache.
Run "dex index" first to fetch the whole catalog.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()

		term := strings.Join(args, " ")
		results, err := e.searcher.Search(term, searchLimit)
		if err != nil {
			return fmt.Errorf("searching: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(results) == 0 {
			fmt.Fprintln(out, listview.NoMatchesText)
			printSuggestions(out, e.searcher, term)
			return nil
		}
		items := make([]pokeapi.ListItem, 0, len(results))
		for _, r := range results {
			items = append(items, *r.Item)
		}
		fmt.Fprintln(out, itemTable(items))
		return nil
	},
}

func init() {
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "filter by name")
	listCmd.Flags().IntVarP(&listPage, "page", "p", 1, "page number, starting at 1")

	indexCmd.Flags().IntVar(&indexPages, "pages", 0, "stop after this many pages (0 = all)")
	indexCmd.Flags().IntVar(&indexWorkers, "workers", 4, "concurrent page fetches")

	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum results")
}

func itemTable(items []pokeapi.ListItem) string {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{
			detailview.FormatNumber(it.ID),
			it.Name,
			strings.Join(it.Types, ", "),
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(tui.MutedColor)).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return tui.HeaderStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers("No.", "Name", "Types").
		Rows(rows...).
		String()
}

func printSuggestions(out io.Writer, s search.Searcher, term string) {
	if s == nil || term == "" {
		return
	}
	names, err := s.Suggest(term, 3)
	if err != nil || len(names) == 0 {
		return
	}
	fmt.Fprintln(out, tui.MsgDidYouMean(names))
}
