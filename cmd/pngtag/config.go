package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lewtec/pngtag/internal/metaedit"
	"github.com/lewtec/pngtag/tagging"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the pngtag configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(a.config)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", a.configPath, data)
		return nil
	},
}

var configSetFolderCmd = &cobra.Command{
	Use:   "set-folder <dir>",
	Short: "Set the default folder used by scan, list and bare file names",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateConfig(cmd, func(config *tagging.Config) error {
			return config.SetDefaultFolder(args[0])
		})
	},
}

var configSetPolicyCmd = &cobra.Command{
	Use:   "set-policy <replace|append>",
	Short: "Set what happens when a key is written again",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateConfig(cmd, func(config *tagging.Config) error {
			policy, err := metaedit.ParsePolicy(args[0])
			if err != nil {
				return err
			}
			config.Policy = policy
			return nil
		})
	},
}

// updateConfig loads the config file without command line overrides, applies change and saves it
func updateConfig(cmd *cobra.Command, change func(*tagging.Config) error) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	config, err := tagging.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	if err := change(config); err != nil {
		return err
	}
	if err := tagging.SaveConfig(a.configPath, config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Default folder: %s\nPolicy: %s\nSaved to %s\n", config.DefaultFolder, config.Policy, a.configPath)
	return nil
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetFolderCmd, configSetPolicyCmd)
	rootCmd.AddCommand(configCmd)
}
