package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"moviedb/internal/catalog"
	"moviedb/internal/export"
	"moviedb/internal/omdb"
	"moviedb/internal/title"
)

var errMenuQuit = errors.New("menu quit")

func newMenuCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Run the interactive catalog session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f, ok := cmd.InOrStdin().(*os.File); ok {
				if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
					return errors.New("menu requires an interactive terminal; use the subcommands for scripted access")
				}
			}

			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}
			client, err := cctx.lookupClient()
			if err != nil {
				return err
			}

			return cctx.withStore(func(store *catalog.Store) error {
				session := &menuSession{
					store:     store,
					client:    client,
					exportDir: cfg.Paths.ExportDir,
					in:        bufio.NewScanner(cmd.InOrStdin()),
					out:       cmd.OutOrStdout(),
				}
				err := session.run(cmd.Context())
				if errors.Is(err, errMenuQuit) {
					fmt.Fprintln(session.out, "Bye.")
					return nil
				}
				return err
			})
		},
	}
}

type menuAction struct {
	label string
	run   func(context.Context) error
}

// menuSession drives the numbered-choice loop. Every prompt accepts q to
// quit the whole session and 0 to return to the previous menu.
type menuSession struct {
	store     *catalog.Store
	client    *omdb.Client
	exportDir string
	in        *bufio.Scanner
	out       io.Writer
}

func (m *menuSession) run(ctx context.Context) error {
	fmt.Fprintln(m.out)
	fmt.Fprintln(m.out, strings.Repeat("#", 50))
	fmt.Fprintf(m.out, "#%s#\n", centered("Welcome to MovieDb", 48))
	fmt.Fprintln(m.out, strings.Repeat("#", 50))

	return m.loop(ctx, "Main menu", []menuAction{
		{"Search OMDb", m.omdbMenu},
		{"My database", m.databaseMenu},
	})
}

// loop shows the named menu until the user picks 0 (back) or q (quit).
// errMenuQuit propagates to the top of the session; a plain nil from an
// action redisplays the same menu.
func (m *menuSession) loop(ctx context.Context, header string, actions []menuAction) error {
	for {
		fmt.Fprintln(m.out)
		fmt.Fprintln(m.out, strings.Repeat("-", 50))
		fmt.Fprintln(m.out, centered(header, 50))
		fmt.Fprintln(m.out)
		for i, action := range actions {
			fmt.Fprintf(m.out, "[%d] %s\n", i+1, action.label)
		}
		fmt.Fprintln(m.out)
		fmt.Fprintln(m.out, "[0] Go back to previous menu")
		fmt.Fprintln(m.out, "[q] Exit")

		choice, err := m.prompt("Enter number")
		if err != nil {
			return err
		}
		if choice == "0" {
			return nil
		}
		n, convErr := strconv.Atoi(choice)
		if convErr != nil || n < 1 || n > len(actions) {
			fmt.Fprintln(m.out, "Invalid choice. Please enter a valid number.")
			continue
		}
		if err := actions[n-1].run(ctx); err != nil {
			if errors.Is(err, errMenuQuit) {
				return err
			}
			fmt.Fprintf(m.out, "Error: %v\n", err)
		}
	}
}

// prompt reads one trimmed line. Returns errMenuQuit on q/exit or closed
// input.
func (m *menuSession) prompt(label string) (string, error) {
	fmt.Fprintf(m.out, "\n%s: ", label)
	if !m.in.Scan() {
		if err := m.in.Err(); err != nil {
			return "", err
		}
		return "", errMenuQuit
	}
	line := strings.TrimSpace(m.in.Text())
	switch strings.ToLower(line) {
	case "q", "exit":
		return "", errMenuQuit
	}
	return line, nil
}

func (m *menuSession) omdbMenu(ctx context.Context) error {
	return m.loop(ctx, "OMDb", []menuAction{
		{"Find a title by name", m.omdbByName},
		{"Find a title by IMDb ID", m.omdbByIMDbID},
	})
}

func (m *menuSession) omdbByName(ctx context.Context) error {
	name, err := m.prompt("Enter title")
	if err != nil {
		return err
	}
	if name == "" || name == "0" {
		return nil
	}

	data, err := m.client.ByTitle(ctx, name)
	if err == nil {
		return m.fetchedMenu(ctx, data)
	}
	if !errors.Is(err, omdb.ErrNotFound) {
		return err
	}

	resp, err := m.client.Search(ctx, name)
	if errors.Is(err, omdb.ErrNotFound) {
		fmt.Fprintf(m.out, "OMDb has no titles matching %q\n", name)
		return nil
	}
	if err != nil {
		return err
	}
	return m.searchResultsMenu(ctx, resp)
}

func (m *menuSession) omdbByIMDbID(ctx context.Context) error {
	for {
		imdbID, err := m.prompt("Enter IMDb ID, for example tt1234567")
		if err != nil {
			return err
		}
		if imdbID == "" || imdbID == "0" {
			return nil
		}
		if !title.ValidIMDbID(imdbID) {
			fmt.Fprintf(m.out, "%q is not a valid IMDb ID. Expected tt followed by 7 to 9 digits.\n", imdbID)
			continue
		}

		data, err := m.client.ByIMDbID(ctx, imdbID)
		if errors.Is(err, omdb.ErrNotFound) {
			fmt.Fprintf(m.out, "OMDb has no title %s\n", imdbID)
			continue
		}
		if err != nil {
			return err
		}
		return m.fetchedMenu(ctx, data)
	}
}

func (m *menuSession) searchResultsMenu(ctx context.Context, resp *omdb.SearchResponse) error {
	actions := make([]menuAction, 0, len(resp.Results))
	for _, result := range resp.Results {
		actions = append(actions, menuAction{
			label: fmt.Sprintf("%-50s %-6s %s", result.Title, result.Year, result.IMDbID),
			run: func(ctx context.Context) error {
				data, err := m.client.ByIMDbID(ctx, result.IMDbID)
				if err != nil {
					return err
				}
				return m.fetchedMenu(ctx, data)
			},
		})
	}
	return m.loop(ctx, "Search results", actions)
}

// fetchedMenu offers actions on a title fetched from OMDb but not yet
// necessarily stored.
func (m *menuSession) fetchedMenu(ctx context.Context, data omdb.TitleData) error {
	rec, err := title.FromData(data)
	if err != nil {
		return err
	}
	header := fmt.Sprintf("%q (%s)", rec.Title, rec.Year)
	return m.loop(ctx, header, []menuAction{
		{"Show details", func(context.Context) error {
			fmt.Fprintln(m.out)
			printRecord(m.out, rec)
			return nil
		}},
		{"Add to my database", func(ctx context.Context) error {
			return m.addToDatabase(ctx, rec)
		}},
	})
}

func (m *menuSession) addToDatabase(ctx context.Context, rec *title.Record) error {
	rating, err := m.promptRating()
	if err != nil {
		return err
	}
	if err := m.store.CreateTitle(ctx, rec, rating); err != nil {
		if errors.Is(err, catalog.ErrDuplicate) {
			fmt.Fprintf(m.out, "%s is already in the catalog.\n", rec.IMDbID)
			return nil
		}
		return err
	}
	fmt.Fprintf(m.out, "Added %q (%s) to the catalog.\n", rec.Title, rec.Year)
	return nil
}

// promptRating returns nil when the user leaves the title unrated.
func (m *menuSession) promptRating() (*int, error) {
	for {
		line, err := m.prompt("Your rating from 0 to 10, or press Enter to skip")
		if err != nil {
			return nil, err
		}
		if line == "" {
			return nil, nil
		}
		n, convErr := strconv.Atoi(line)
		if convErr != nil || n < 0 || n > 10 {
			fmt.Fprintln(m.out, "Rating must be a whole number from 0 to 10.")
			continue
		}
		return &n, nil
	}
}

func (m *menuSession) databaseMenu(ctx context.Context) error {
	return m.loop(ctx, "My Database", []menuAction{
		{"Find a title by IMDb ID or name", m.databaseFind},
		{"Show all titles", m.databaseShowAll},
		{"Show titles by minimum rating", m.databaseByRating},
		{"Search titles by name", m.databaseSearch},
	})
}

func (m *menuSession) databaseFind(ctx context.Context) error {
	query, err := m.prompt("Enter IMDb ID or exact name")
	if err != nil {
		return err
	}
	if query == "" || query == "0" {
		return nil
	}
	rec, err := resolveRecord(ctx, m.store, query)
	if errors.Is(err, catalog.ErrNotFound) {
		fmt.Fprintf(m.out, "No catalog entry matches %q. Try the search instead.\n", query)
		return nil
	}
	if err != nil {
		return err
	}
	return m.storedMenu(ctx, rec)
}

func (m *menuSession) databaseShowAll(ctx context.Context) error {
	records, err := m.store.ListAll(ctx)
	if err != nil {
		return err
	}
	return m.recordListMenu(ctx, records, "The catalog is empty.")
}

func (m *menuSession) databaseByRating(ctx context.Context) error {
	line, err := m.prompt("Minimum rating from 0 to 10")
	if err != nil {
		return err
	}
	if line == "" {
		return nil
	}
	threshold, convErr := strconv.Atoi(line)
	if convErr != nil {
		fmt.Fprintln(m.out, "Rating must be a whole number from 0 to 10.")
		return nil
	}
	records, err := m.store.TitlesByMinimumRating(ctx, threshold)
	if err != nil {
		return err
	}
	return m.recordListMenu(ctx, records, fmt.Sprintf("No titles rated %d or higher.", threshold))
}

func (m *menuSession) databaseSearch(ctx context.Context) error {
	query, err := m.prompt("Search for")
	if err != nil {
		return err
	}
	if query == "" || query == "0" {
		return nil
	}
	records, err := m.store.SearchByName(ctx, query)
	if err != nil {
		return err
	}
	return m.recordListMenu(ctx, records, fmt.Sprintf("No titles match %q.", query))
}

func (m *menuSession) recordListMenu(ctx context.Context, records []*title.Record, emptyMessage string) error {
	if len(records) == 0 {
		fmt.Fprintln(m.out, emptyMessage)
		return nil
	}
	fmt.Fprintln(m.out)
	fmt.Fprintln(m.out, recordTable(records))

	actions := make([]menuAction, 0, len(records))
	for _, rec := range records {
		actions = append(actions, menuAction{
			label: fmt.Sprintf("%-50s %-6s %s", rec.Title, rec.Year, rec.IMDbID),
			run: func(ctx context.Context) error {
				return m.storedMenu(ctx, rec)
			},
		})
	}
	return m.loop(ctx, "Search results", actions)
}

// storedMenu offers actions on a title already in the catalog.
func (m *menuSession) storedMenu(ctx context.Context, rec *title.Record) error {
	header := fmt.Sprintf("%q (%s)", rec.Title, rec.Year)
	return m.loop(ctx, header, []menuAction{
		{"Show details", func(context.Context) error {
			fmt.Fprintln(m.out)
			printRecord(m.out, rec)
			return nil
		}},
		{"Update my rating", func(ctx context.Context) error {
			return m.updateRating(ctx, rec)
		}},
		{"Export as JSON", func(context.Context) error {
			return m.export(rec, export.FormatJSON)
		}},
		{"Export as YAML", func(context.Context) error {
			return m.export(rec, export.FormatYAML)
		}},
	})
}

func (m *menuSession) updateRating(ctx context.Context, rec *title.Record) error {
	rating, err := m.promptRating()
	if err != nil {
		return err
	}
	if rating == nil {
		fmt.Fprintln(m.out, "Rating unchanged.")
		return nil
	}
	updated, err := m.store.UpdateRating(ctx, rec.IMDbID, *rating)
	if err != nil {
		return err
	}
	if !updated {
		fmt.Fprintf(m.out, "No catalog entry for %s.\n", rec.IMDbID)
		return nil
	}
	rec.MyRating = *rating
	rec.Rated = true
	fmt.Fprintf(m.out, "Rated %q %d/10.\n", rec.Title, *rating)
	return nil
}

func (m *menuSession) export(rec *title.Record, format export.Format) error {
	path, err := export.ToFile(m.exportDir, rec, format)
	if err != nil {
		return err
	}
	fmt.Fprintf(m.out, "Wrote %s\n", path)
	return nil
}

func centered(s string, width int) string {
	if len(s) >= width {
		return s
	}
	left := (width - len(s)) / 2
	right := width - len(s) - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}
