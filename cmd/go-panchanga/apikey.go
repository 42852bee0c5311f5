package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/zalando/go-keyring"

	"github.com/tartampluch/go-panchanga/internal/config"
)

// newAPIKeyCmd stores the optional geocoder API key in the OS keyring,
// so it never lands in the config file.
func newAPIKeyCmd(_ *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apikey [KEY]",
		Short: "Store or remove the geocoder API key in the system keyring",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if del, _ := cmd.Flags().GetBool(config.FlagDelete); del {
				if err := keyring.Delete(config.KeyringService, config.KeyringAccountGeocoder); err != nil {
					return fmt.Errorf("%s: %w", config.ErrKeyring, err)
				}
				slog.Info(config.MsgAPIKeyDeleted, config.LogKeyComponent, config.CompCLI)
				return nil
			}
			if len(args) == 0 || args[0] == "" {
				return errors.New(config.ErrAPIKeyMissing)
			}
			if err := keyring.Set(config.KeyringService, config.KeyringAccountGeocoder, args[0]); err != nil {
				return fmt.Errorf("%s: %w", config.ErrKeyring, err)
			}
			slog.Info(config.MsgAPIKeyStored, config.LogKeyComponent, config.CompCLI)
			return nil
		},
	}
	cmd.Flags().Bool(config.FlagDelete, false, config.FlagDescDelete)
	return cmd
}
