package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"steameagle/internal/steamid"
)

type idView struct {
	Input         string `json:"input"`
	Raw           uint64 `json:"id64"`
	ID32          uint32 `json:"id32"`
	Universe      uint8  `json:"universe"`
	AccountType   string `json:"account_type"`
	Instance      uint32 `json:"account_instance"`
	AccountNumber uint32 `json:"account_number"`
	Parity        uint8  `json:"parity"`
	Steam2        string `json:"steam2"`
	Steam3        string `json:"steam3"`
	Canonical     uint64 `json:"canonical_id64,omitempty"`
	CanonicalErr  string `json:"canonical_error,omitempty"`
}

func newIDCommand() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:         "id <steamid>",
		Short:       "Decode a SteamID in id64, id32, STEAM_X:Y:Z or [L:U:N] form",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := steamid.Parse(args[0])
			if err != nil {
				return err
			}
			view := describeID(args[0], raw)
			if jsonOutput {
				return writeJSON(cmd, view)
			}

			canonical := strconv.FormatUint(view.Canonical, 10)
			if view.CanonicalErr != "" {
				canonical = view.CanonicalErr
			}
			rows := [][]string{
				{"id64", strconv.FormatUint(view.Raw, 10)},
				{"id32", strconv.FormatUint(uint64(view.ID32), 10)},
				{"steam2", view.Steam2},
				{"steam3", view.Steam3},
				{"universe", strconv.FormatUint(uint64(view.Universe), 10)},
				{"account type", view.AccountType},
				{"instance", strconv.FormatUint(uint64(view.Instance), 10)},
				{"account number", strconv.FormatUint(uint64(view.AccountNumber), 10)},
				{"parity", strconv.FormatUint(uint64(view.Parity), 10)},
				{"canonical id64", canonical},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows, nil))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func describeID(input string, raw uint64) idView {
	c := steamid.Decode(raw)
	view := idView{
		Input:         input,
		Raw:           c.Raw(),
		ID32:          c.ID32(),
		Universe:      uint8(c.Universe),
		AccountType:   c.AccountType.String(),
		Instance:      c.Instance,
		AccountNumber: c.AccountNumber,
		Parity:        c.Parity,
		Steam2:        c.Steam2(),
		Steam3:        c.Steam3(),
	}
	if id64, err := c.ID64(); err != nil {
		view.CanonicalErr = err.Error()
	} else {
		view.Canonical = id64
	}
	return view
}
