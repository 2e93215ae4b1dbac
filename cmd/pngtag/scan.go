package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/lewtec/pngtag/tagging"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan [folder]",
	Short: "List the PNG and JPEG files of a folder",
	Long: `List the .png, .jpg and .jpeg files directly inside a folder (subfolders are
not visited). Without an argument the configured default folder is scanned.
Only PNG files can be tagged; JPEG files are listed so they can be converted.`,
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
		candidates, err := tagging.ScanFolder(folder)
		if err != nil {
			return err
		}
		if len(candidates) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No images found in %s\n", folder)
			return nil
		}
		withHash, _ := cmd.Flags().GetBool("hash")

		header := []string{"FILE", "FORMAT", "SIZE"}
		if withHash {
			header = append(header, "SHA256")
		}
		t := newTable(cmd.OutOrStdout(), header...)
		for _, c := range candidates {
			row := []string{c.Name, c.Format.String(), humanize.Bytes(uint64(c.Size))}
			if withHash {
				hash, err := tagging.HashFile(c.Path)
				if err != nil {
					return err
				}
				row = append(row, hash)
			}
			t.Row(row...)
		}
		return t.Flush()
	},
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func init() {
	scanCmd.Flags().Bool("hash", false, "Also print the SHA-256 of each file")
	rootCmd.AddCommand(scanCmd)
}
