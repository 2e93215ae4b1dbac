package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lewtec/pngtag/tagging"
)

// viewCmd represents the view command
var viewCmd = &cobra.Command{
	Use:   "view <file>",
	Short: "Print every metadata entry of a PNG file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}
		path, err := a.config.Resolve(args[0])
		if err != nil {
			return err
		}
		entries, err := tagging.ReadMetadata(path)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No metadata found in %s\n", path)
			return nil
		}
		t := newTable(cmd.OutOrStdout(), "KEY", "VALUE")
		for _, e := range entries {
			t.Row(e.Key, e.Value)
		}
		return t.Flush()
	},
}

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify <file> <key>",
	Short: "Print the value of a key, failing when it is absent",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}
		path, err := a.config.Resolve(args[0])
		if err != nil {
			return err
		}
		value, err := tagging.Verify(path, args[1])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(viewCmd, verifyCmd)
}
