package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lewtec/pngtag/tagging"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list [folder]",
	Short: "Print the tags of every image in a folder",
	Long: `Print one row per tag for every candidate image of a folder. Files without
tags get a single row with empty key and value; files that cannot be read show
the reason instead and do not stop the listing.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}
		folder, err := a.config.Folder(firstArg(args))
		if err != nil {
			return err
		}
		files, err := tagging.ListFolder(folder)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No images found in %s\n", folder)
			return nil
		}
		t := newTable(cmd.OutOrStdout(), "FILE", "KEY", "VALUE")
		for _, f := range files {
			switch {
			case f.Err != nil:
				t.Row(f.Name, "!", tagging.Classify(f.Err).String())
			case len(f.Entries) == 0:
				t.Row(f.Name, "", "")
			default:
				for _, e := range f.Entries {
					t.Row(f.Name, e.Key, e.Value)
				}
			}
		}
		return t.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
