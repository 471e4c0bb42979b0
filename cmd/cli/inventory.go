package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/gabsakura/Projeto-siteProfissional/internal/client"
	"github.com/gabsakura/Projeto-siteProfissional/internal/models"
)

func newInventoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "List and edit stock",
	}
	cmd.AddCommand(newInventoryListCommand(), newInventoryAddCommand(), newInventorySetQtyCommand(), newInventoryRemoveCommand())
	return cmd
}

func newInventoryListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show every inventory item",
		Args:  cobra.NoArgs,
		RunE: protected(routeFor("/inventory"), func(ctx context.Context, c *client.Client, _ *cobra.Command, _ []string) error {
			items, err := c.ListInventory(ctx)
			if err != nil {
				return err
			}
			return formatter().Inventory(os.Stdout, items)
		}),
	}
}

const (
	descricaoFlag = "descricao"
	precoFlag     = "preco"
)

var inventoryAddFlags = map[string]cobraflags.Flag{
	descricaoFlag: &cobraflags.StringFlag{
		Name:  descricaoFlag,
		Usage: "Free text description",
	},
	precoFlag: &cobraflags.StringFlag{
		Name:  precoFlag,
		Value: "0",
		Usage: "Unit price",
	},
}

func newInventoryAddCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <item> <quantity>",
		Short: "Add an inventory item",
		Args:  cobra.ExactArgs(2),
		RunE: protected(routeFor("/inventory"), func(ctx context.Context, c *client.Client, _ *cobra.Command, args []string) error {
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("quantity must be an integer: %q", args[1])
			}
			preco, err := strconv.ParseFloat(inventoryAddFlags[precoFlag].GetString(), 64)
			if err != nil {
				return fmt.Errorf("--preco must be a number")
			}
			item, err := c.CreateInventoryItem(ctx, models.InventoryItem{
				Item:      args[0],
				Quantity:  qty,
				Descricao: inventoryAddFlags[descricaoFlag].GetString(),
				Preco:     preco,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Created item %d (%s).\n", item.ID, item.Item)
			return nil
		}),
	}
	cobraflags.RegisterMap(cmd, inventoryAddFlags)
	return cmd
}

func newInventorySetQtyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-qty <id>=<quantity>...",
		Short: "Set the quantity of one or more items",
		Args:  cobra.MinimumNArgs(1),
		RunE: protected(routeFor("/inventory"), func(ctx context.Context, c *client.Client, _ *cobra.Command, args []string) error {
			quantities := make(map[int]int, len(args))
			for _, a := range args {
				var id, qty int
				if _, err := fmt.Sscanf(a, "%d=%d", &id, &qty); err != nil {
					return fmt.Errorf("expected <id>=<quantity>, got %q", a)
				}
				quantities[id] = qty
			}
			if err := c.SetInventoryQuantities(ctx, quantities); err != nil {
				return err
			}
			fmt.Printf("Updated %d item(s).\n", len(quantities))
			return nil
		}),
	}
}

func newInventoryRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>...",
		Short: "Delete inventory items",
		Args:  cobra.MinimumNArgs(1),
		RunE: protected(routeFor("/inventory"), func(ctx context.Context, c *client.Client, _ *cobra.Command, args []string) error {
			ids, err := parseInts(args...)
			if err != nil {
				return err
			}
			for _, id := range ids {
				if err := c.DeleteInventoryItem(ctx, id); err != nil {
					return fmt.Errorf("item %d: %w", id, err)
				}
			}
			fmt.Printf("Deleted %d item(s).\n", len(ids))
			return nil
		}),
	}
}
