package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/gabsakura/Projeto-siteProfissional/internal/client"
	"github.com/gabsakura/Projeto-siteProfissional/internal/kanban"
	"github.com/gabsakura/Projeto-siteProfissional/internal/models"
)

const boardFlag = "board"

// newBoardFlags is called once per command; a cobraflags.Flag binds to
// the last command it was registered on.
func newBoardFlags() map[string]cobraflags.Flag {
	return map[string]cobraflags.Flag{
		boardFlag: &cobraflags.StringFlag{
			Name:  boardFlag,
			Value: "1",
			Usage: "Board ID",
		},
	}
}

func loadBoard(ctx context.Context, c *client.Client, flags map[string]cobraflags.Flag) (*kanban.Workflow, error) {
	id, err := strconv.Atoi(flags[boardFlag].GetString())
	if err != nil {
		return nil, fmt.Errorf("--board must be a number")
	}
	w := kanban.NewWorkflow(c, id)
	if err := w.ResyncFromServer(ctx); err != nil {
		return nil, err
	}
	return w, nil
}

func printBoard(w io.Writer, cols []models.Column) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, col := range cols {
		fmt.Fprintf(tw, "[%d] %s\n", col.ID, col.Title)
		for _, card := range col.Cards {
			due := ""
			if card.DueDate != nil {
				due = formatter().Date(*card.DueDate)
			}
			fmt.Fprintf(tw, "  %d.\t#%d\t%s\t%s\t%s\n", card.Position, card.ID, card.Title, card.Priority, due)
		}
	}
	return tw.Flush()
}

func newKanbanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kanban",
		Short: "Show the board and move cards",
	}
	showFlags, moveFlags := newBoardFlags(), newBoardFlags()
	show := &cobra.Command{
		Use:   "show",
		Short: "Print every column with its cards",
		Args:  cobra.NoArgs,
		RunE: protected(routeFor("/kanban"), func(ctx context.Context, c *client.Client, cmd *cobra.Command, _ []string) error {
			w, err := loadBoard(ctx, c, showFlags)
			if err != nil {
				return err
			}
			return printBoard(cmd.OutOrStdout(), w.Snapshot())
		}),
	}
	move := &cobra.Command{
		Use:   "move <card-id> <column-id> <position>",
		Short: "Move a card, positions start at 0",
		Args:  cobra.ExactArgs(3),
		RunE: protected(routeFor("/kanban"), func(ctx context.Context, c *client.Client, cmd *cobra.Command, args []string) error {
			n, err := parseInts(args...)
			if err != nil {
				return err
			}
			w, err := loadBoard(ctx, c, moveFlags)
			if err != nil {
				return err
			}
			if err := w.Move(ctx, n[0], n[1], n[2]); err != nil {
				return err
			}
			return printBoard(cmd.OutOrStdout(), w.Snapshot())
		}),
	}
	cobraflags.RegisterMap(show, showFlags)
	cobraflags.RegisterMap(move, moveFlags)
	cmd.AddCommand(show, move)
	return cmd
}
