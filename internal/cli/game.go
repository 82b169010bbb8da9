package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/broadside/internal/services/identity"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game commands",
	}

	cmd.AddCommand(newGameCreateCmd())
	cmd.AddCommand(newGameListCmd())
	cmd.AddCommand(newGameJoinCmd())
	cmd.AddCommand(newGameViewCmd())
	cmd.AddCommand(newGameFireCmd())

	return cmd
}

func newGameCreateCmd() *cobra.Command {
	var capacity int

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new game",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]int{"capacity": capacity}
			var result CreateGameResult

			if err := client.Post("/api/v1/games", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&capacity, "capacity", 2, "Number of player slots")

	return cmd
}

func newGameListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List games in the directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Directory

			if err := client.Get("/api/v1/games", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <id>",
		Short: "Join a game with the stored identity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseGameID(args[0])
			if err != nil {
				return err
			}

			stored, err := requireIdentity()
			if err != nil {
				return err
			}

			req := map[string]string{"handle": stored.Handle}
			var result JoinResult

			if err := client.Post(fmt.Sprintf("/api/v1/games/%d/join", id), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameViewCmd() *cobra.Command {
	var asSpectator bool

	cmd := &cobra.Command{
		Use:   "view <id>",
		Short: "View a game's state",
		Long: `Fetch a game's state.

With a stored identity the request carries an encrypted read proof, so a
game the identity plays in is shown with its own fleet overlaid. Without
an identity, or with --spectator, the public view is shown.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseGameID(args[0])
			if err != nil {
				return err
			}

			result, err := fetchView(id, !asSpectator)
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(*result)
			return nil
		},
	}

	cmd.Args = cobra.ExactArgs(1)
	cmd.Flags().BoolVar(&asSpectator, "spectator", false, "Request the public view even with a stored identity")

	return cmd
}

func newGameFireCmd() *cobra.Command {
	var target, x, y int

	cmd := &cobra.Command{
		Use:   "fire <id>",
		Short: "Fire a shot in a game",
		Long: `Fire at cell (x, y) of the target slot's board.

The current round challenge is fetched from the game view, encrypted
against the stored public key, and sent as the shot's proof.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseGameID(args[0])
			if err != nil {
				return err
			}

			stored, err := requireIdentity()
			if err != nil {
				return err
			}

			view, err := fetchView(id, true)
			if err != nil {
				return err
			}
			if view.Challenge == "" {
				return fmt.Errorf("game #%d has no active challenge", id)
			}

			from := -1
			for i, h := range view.Roster {
				if h == stored.Handle {
					from = i
					break
				}
			}
			if from < 0 {
				return fmt.Errorf("%s is not a player in game #%d", stored.Handle, id)
			}

			proof, err := identity.EncryptProof(stored.PublicKey, view.Challenge)
			if err != nil {
				return fmt.Errorf("failed to build proof: %w", err)
			}

			req := map[string]any{
				"from":   from,
				"target": target,
				"x":      x,
				"y":      y,
				"proof":  proof,
			}
			var result FireResult

			if err := client.Post(fmt.Sprintf("/api/v1/games/%d/fire", id), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&target, "target", 0, "Target player slot")
	cmd.Flags().IntVarP(&x, "x", "x", 0, "Target column")
	cmd.Flags().IntVarP(&y, "y", "y", 0, "Target row")
	_ = cmd.MarkFlagRequired("target")
	_ = cmd.MarkFlagRequired("x")
	_ = cmd.MarkFlagRequired("y")

	return cmd
}

// fetchView gets a game view, attaching a read proof when requested and a
// stored identity exists
func fetchView(id uint64, withProof bool) (*GameView, error) {
	req := map[string]string{}

	if withProof {
		stored, err := cfg.LoadIdentity()
		if err != nil {
			return nil, err
		}
		if stored != nil {
			proof, err := identity.EncryptProof(stored.PublicKey, identity.ReadProofPlaintext)
			if err != nil {
				return nil, fmt.Errorf("failed to build proof: %w", err)
			}
			req["handle"] = stored.Handle
			req["proof"] = proof
		}
	}

	var result GameView
	if err := client.Post(fmt.Sprintf("/api/v1/games/%d/view", id), req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func requireIdentity() (*StoredIdentity, error) {
	stored, err := cfg.LoadIdentity()
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, fmt.Errorf("no stored identity, run 'player create' first")
	}
	return stored, nil
}

func parseGameID(arg string) (uint64, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid game id %q", arg)
	}
	return id, nil
}
