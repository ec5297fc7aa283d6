package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cecil-the-coder/todo-provider-kit/pkg/client"
	"github.com/cecil-the-coder/todo-provider-kit/pkg/types"
)

var clientFlags struct {
	url      string
	provider string
}

var lsCmd = &cobra.Command{
	Use:   "ls [search]",
	Short: "List items, optionally filtered by title",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		search := ""
		if len(args) == 1 {
			search = args[0]
		}
		items, err := newClient().List(cmd.Context(), search)
		if err != nil {
			return err
		}
		renderList(cmd.OutOrStdout(), items, search)
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add <title...>",
	Short: "Add an item",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		item := types.NewItem()
		item.Title = strings.Join(args, " ")

		created, err := newClient().Add(cmd.Context(), item)
		if err != nil {
			return err
		}
		renderOK(cmd.OutOrStdout(), fmt.Sprintf("Added #%d %s", created.ID, created.Title))
		return nil
	},
}

var doneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Toggle an item's completion",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		c := newClient()
		item, found, err := c.Get(cmd.Context(), id)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("no item #%d", id)
		}

		item.IsComplete = !item.IsComplete
		if err := c.Update(cmd.Context(), item); err != nil {
			return err
		}

		state := "open"
		if item.IsComplete {
			state = "done"
		}
		renderOK(cmd.OutOrStdout(), fmt.Sprintf("Marked #%d %s", id, state))
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete an item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := newClient().Delete(cmd.Context(), id); err != nil {
			return err
		}
		renderOK(cmd.OutOrStdout(), fmt.Sprintf("Removed #%d", id))
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	for _, c := range []*cobra.Command{lsCmd, addCmd, doneCmd, rmCmd} {
		c.Flags().StringVar(&clientFlags.url, "url", envOr("TODO_API_URL", client.DefaultBaseURL), "server base URL")
		c.Flags().StringVar(&clientFlags.provider, "provider", os.Getenv("TODO_API_PROVIDER"), "X-Provider header value (e.g. EfCore)")
	}
}

func newClient() *client.Client {
	return client.New(clientFlags.url, client.WithProvider(clientFlags.provider))
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(s, "#"))
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
