package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lumenlearn/lumen/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		data, err := cfg.Encode()
		if err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "# %s\n", path)
		_, err = out.Write(data)
		return err
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a sample configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		target, _ := cmd.Flags().GetString("path")
		overwrite, _ := cmd.Flags().GetBool("overwrite")

		var err error
		if target = strings.TrimSpace(target); target == "" {
			target, _ = cmd.Flags().GetString("config")
		}
		if target == "" {
			if target, err = config.DefaultConfigPath(); err != nil {
				return fmt.Errorf("determine default config path: %w", err)
			}
		}
		if target, err = config.ExpandPath(target); err != nil {
			return fmt.Errorf("resolve config path: %w", err)
		}

		if _, err := os.Stat(target); err == nil {
			if !overwrite {
				return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
			}
			if err := os.Remove(target); err != nil {
				return fmt.Errorf("remove existing config: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("check config path: %w", err)
		}

		if err := config.CreateSample(target); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", target)
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Config path: %s\n", resolved)
		if !exists {
			fmt.Fprintln(out, "Config file did not exist; defaults were used")
		}
		if _, err := loadDeck(cfg); err != nil {
			return err
		}
		fmt.Fprintln(out, "Configuration valid")
		return nil
	},
}

func init() {
	configInitCmd.Flags().StringP("path", "p", "", "Destination for the configuration file")
	configInitCmd.Flags().Bool("overwrite", false, "Overwrite an existing configuration file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)
}
