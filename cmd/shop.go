package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/abhisek/tablequest/internal/rewards"
	"github.com/abhisek/tablequest/internal/store"
)

var shopCmd = &cobra.Command{
	Use:   "shop",
	Short: "Spend points on themes, badges and companions",
}

var shopListCmd = &cobra.Command{
	Use:   "list",
	Short: "List shop items with prices",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRewards(cmd, func(svc *rewards.Service) error {
			w, err := svc.Wallet(cmd.Context())
			if err != nil {
				return err
			}
			printShop(cmd.OutOrStdout(), w)
			return nil
		})
	},
}

var shopBuyCmd = &cobra.Command{
	Use:   "buy <theme|badge|pet> <id>",
	Short: "Buy an item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := parseKind(args[0])
		if err != nil {
			return err
		}
		return withRewards(cmd, func(svc *rewards.Service) error {
			err := svc.Buy(cmd.Context(), kind, args[1])
			if errors.Is(err, rewards.ErrAlreadyOwned) {
				fmt.Fprintf(cmd.OutOrStdout(), "You already own %s.\n", args[1])
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Bought %s %s.\n", kind, args[1])
			return nil
		})
	},
}

var shopEquipCmd = &cobra.Command{
	Use:   "equip <theme-id>",
	Short: "Switch to an owned theme",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRewards(cmd, func(svc *rewards.Service) error {
			if err := svc.EquipTheme(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Theme set to %s.\n", rewards.ThemeByID(args[0]).Name)
			return nil
		})
	},
}

var shopPetCmd = &cobra.Command{
	Use:   "pet [pet-id]",
	Short: "Choose the companion shown while playing; no argument clears it",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var id string
		if len(args) == 1 {
			id = args[0]
		}
		return withRewards(cmd, func(svc *rewards.Service) error {
			ctx := cmd.Context()
			if err := svc.SetActivePet(ctx, id); err != nil {
				return err
			}
			w, err := svc.Wallet(ctx)
			if err != nil {
				return err
			}
			if pet, ok := rewards.LookupPet(w.ActivePet); ok {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s will keep you company.\n", pet.Emoji, pet.Name)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "No companion selected.")
			}
			return nil
		})
	},
}

func withRewards(cmd *cobra.Command, fn func(*rewards.Service) error) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(newRewards(st))
}

func newRewards(st *store.Store) *rewards.Service {
	return rewards.NewService(st.KVRepo(), st.EventRepo(), logger)
}

func parseKind(s string) (rewards.Kind, error) {
	switch strings.ToLower(s) {
	case "theme", "themes":
		return rewards.KindTheme, nil
	case "badge", "badges":
		return rewards.KindBadge, nil
	case "pet", "pets", "companion", "companions":
		return rewards.KindPet, nil
	}
	return "", fmt.Errorf("unknown item kind %q (want theme, badge or pet)", s)
}

func printShop(out io.Writer, w rewards.Wallet) {
	p := message.NewPrinter(language.English)
	sep := strings.Repeat("─", 64)

	p.Fprintf(out, "Balance: %d points\n", w.Points)

	mark := func(kind rewards.Kind, id string) string {
		switch {
		case kind == rewards.KindTheme && w.CurrentTheme == id:
			return "equipped"
		case kind == rewards.KindPet && w.ActivePet == id:
			return "active"
		case w.Owns(kind, id):
			return "owned"
		}
		return ""
	}
	price := func(n int) string {
		if n == 0 {
			return "free"
		}
		return p.Sprintf("%d", n)
	}

	for _, kind := range rewards.AllKinds() {
		fmt.Fprintln(out)
		fmt.Fprintln(out, kind.DisplayName())
		fmt.Fprintln(out, sep)
		switch kind {
		case rewards.KindTheme:
			for _, t := range rewards.Themes() {
				fmt.Fprintf(out, "  %-10s %-20s %7s  %s\n", t.ID, t.Name, price(t.Price), mark(kind, t.ID))
			}
		case rewards.KindBadge:
			for _, b := range rewards.Badges() {
				cost := "earned"
				if b.Purchasable() {
					cost = price(b.Price)
				}
				fmt.Fprintf(out, "  %-14s %s %-22s %7s  %s\n", b.ID, b.Icon, b.Name, cost, mark(kind, b.ID))
			}
		case rewards.KindPet:
			for _, pet := range rewards.Pets() {
				fmt.Fprintf(out, "  %-10s %s %-24s %7s  %s\n", pet.ID, pet.Emoji, pet.Name, price(pet.Price), mark(kind, pet.ID))
			}
		}
	}
}

func init() {
	shopCmd.AddCommand(shopListCmd)
	shopCmd.AddCommand(shopBuyCmd)
	shopCmd.AddCommand(shopEquipCmd)
	shopCmd.AddCommand(shopPetCmd)
}
