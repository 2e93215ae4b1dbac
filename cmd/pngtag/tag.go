package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lewtec/pngtag/internal/metaedit"
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add <file> <key> <value>",
	Short: "Set a metadata key in a PNG file",
	Long: `Set key to value in a PNG file. With the replace policy (the default) any
previous value of the key is dropped; with append the value is joined onto the
existing one with "; ".

Keys are 1 to 79 Latin-1 characters; values must be representable in Latin-1.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		policy := a.config.Policy
		if flag, _ := cmd.Flags().GetString("policy"); flag != "" {
			policy, err = metaedit.ParsePolicy(flag)
			if err != nil {
				return err
			}
		}
		path, err := a.config.Resolve(args[0])
		if err != nil {
			return err
		}
		edit, err := a.tagger(cmd.Context(), policy).Tag(cmd.Context(), path, args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s=%s in %s (%s)\n", edit.Key, edit.NewValue, edit.Path, edit.Policy)
		return nil
	},
}

// removeCmd represents the remove command
var removeCmd = &cobra.Command{
	Use:   "remove <file> <key>",
	Short: "Delete every entry of a metadata key from a PNG file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		path, err := a.config.Resolve(args[0])
		if err != nil {
			return err
		}
		edit, err := a.tagger(cmd.Context(), a.config.Policy).Remove(cmd.Context(), path, args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from %s\n", edit.Key, edit.Path)
		return nil
	},
}

func init() {
	addCmd.Flags().StringP("policy", "p", "", "Edit policy: replace or append (default from config)")
	rootCmd.AddCommand(addCmd, removeCmd)
}
