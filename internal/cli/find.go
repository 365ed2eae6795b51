package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/biotree/pkg/errors"
	"github.com/matzehuels/biotree/pkg/hierarchy"
)

// findCommand creates the find command, which resolves a node path.
func (c *CLI) findCommand() *cobra.Command {
	var lf loadFlags

	cmd := &cobra.Command{
		Use:   "find [source] <path>",
		Short: "Resolve a slash-separated node path",
		Long: `Resolve a node path such as Life/Eukarya/Animalia.

The first segment must name the root. Collapsed subtrees are searched too.
When the path does not resolve, the deepest matching node is reported and
the command fails.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			location, err := c.location(args[:len(args)-1])
			if err != nil {
				return err
			}
			return c.runFind(cmd, location, args[len(args)-1], &lf)
		},
	}
	lf.register(cmd)

	return cmd
}

func (c *CLI) runFind(cmd *cobra.Command, location, raw string, lf *loadFlags) error {
	path := hierarchy.ParsePath(raw)
	if err := errors.ValidatePathSegments(path); err != nil {
		return err
	}
	e, err := c.load(cmd, location, lf)
	if err != nil {
		return err
	}
	t := e.Tree()
	w := cmd.OutOrStdout()

	id, found := t.FindNodeByPath(path)
	if !found {
		printError(w, "No node at %s", hierarchy.FormatPath(path))
		if prefix := deepestPrefix(t, path); prefix > 0 {
			printDetail(w, "Deepest match: %s", hierarchy.FormatPath(path[:prefix]))
		}
		return errors.New(errors.ErrCodeNodeNotFound, "no node at %s", hierarchy.FormatPath(path))
	}

	n := t.Node(id)
	printSuccess(w, "%s", StyleHighlight.Render(hierarchy.FormatPath(t.PathOf(id))))
	printKeyValue(w, "depth", strconv.Itoa(n.Depth))
	printKeyValue(w, "state", n.Pres.Kind().String())
	printKeyValue(w, "children", strconv.Itoa(len(n.Pres.Kids())))
	printKeyValue(w, "visible", fmt.Sprint(t.IsVisible(id)))
	return nil
}

// deepestPrefix returns the length of the longest prefix of path that
// resolves, or 0 when not even the root matches.
func deepestPrefix(t *hierarchy.Tree, path []string) int {
	for n := len(path); n > 0; n-- {
		if _, ok := t.FindNodeByPath(path[:n]); ok {
			return n
		}
	}
	return 0
}

// searchCommand creates the search command, which matches node labels.
func (c *CLI) searchCommand() *cobra.Command {
	var (
		lf    loadFlags
		term  string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "search [source] -t <term>",
		Short: "List nodes whose label contains a term",
		Long: `List every node whose label contains the term, ignoring case, in
document order. Each match is printed as its full path.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if term == "" {
				return errors.New(errors.ErrCodeInvalidInput, "--term is required")
			}
			location, err := c.location(args)
			if err != nil {
				return err
			}
			return c.runSearch(cmd, location, term, limit, &lf)
		},
	}
	cmd.Flags().StringVarP(&term, "term", "t", "", "text to look for in node labels")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "print at most this many matches (0 prints all)")
	lf.register(cmd)

	return cmd
}

func (c *CLI) runSearch(cmd *cobra.Command, location, term string, limit int, lf *loadFlags) error {
	e, err := c.load(cmd, location, lf)
	if err != nil {
		return err
	}
	t := e.Tree()
	w := cmd.OutOrStdout()

	matches := t.Search(term)
	if len(matches) == 0 {
		printInfo(w, "No labels contain %q", term)
		return nil
	}
	shown := matches
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	for _, id := range shown {
		fmt.Fprintln(w, hierarchy.FormatPath(t.PathOf(id)))
	}
	if len(shown) < len(matches) {
		printDetail(w, "%d of %d matches shown", len(shown), len(matches))
	}
	return nil
}
