package main

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/lewtec/pngtag/tagging"
)

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert <file|folder>... <output-folder>",
	Short: "Convert JPEG images to PNG so they can be tagged",
	Long: `Re-encode JPEG (and GIF) images as PNG files in a flat output folder. Folders
are walked recursively. Existing files in the output folder are never
overwritten and the sources are left untouched.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if err := cobra.MinimumNArgs(2)(cmd, args); err != nil {
			return err
		}
		inputs := args[0 : len(args)-1]
		for i, input := range inputs {
			if _, err := os.Stat(input); err != nil {
				return fmt.Errorf("on %dth argument: %w", i+1, err)
			}
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs := args[0 : len(args)-1]
		output := args[len(args)-1]
		if err := os.MkdirAll(output, 0o755); err != nil {
			return fmt.Errorf("failed to create output folder: %w", err)
		}
		jobs, _ := cmd.Flags().GetUint("jobs")
		if jobs == 0 {
			jobs = 1
		}

		queue := make(chan string, 10) // pipeline
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			converted int
			failed    int
		)
		convertWorker := func() {
			defer wg.Done()
			for src := range queue {
				dst, err := tagging.ConvertToPNG(src, output)
				mu.Lock()
				if err != nil {
					failed++
					log.Printf("Converting '%s' failed: %s", src, tagging.Describe(err))
				} else {
					converted++
					fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", src, dst)
				}
				mu.Unlock()
			}
		}
		for i := uint(0); i < jobs; i++ {
			wg.Add(1)
			go convertWorker()
		}

		var walkErr error
		for _, input := range inputs {
			walkErr = filepath.WalkDir(input, func(path string, info fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if info.IsDir() || !isConvertible(path) {
					return nil
				}
				select {
				case queue <- path:
					return nil
				case <-cmd.Context().Done():
					return cmd.Context().Err()
				}
			})
			if walkErr != nil {
				break
			}
		}
		close(queue)
		wg.Wait()

		log.Printf("Converted %d images, %d failed", converted, failed)
		if walkErr != nil {
			return walkErr
		}
		if failed > 0 {
			return fmt.Errorf("%d images could not be converted", failed)
		}
		return nil
	},
}

func isConvertible(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".gif":
		return true
	}
	return false
}

func init() {
	convertCmd.Flags().UintP("jobs", "J", 1, "Amount of concurrent converters")
	rootCmd.AddCommand(convertCmd)
}
