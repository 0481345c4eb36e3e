package cmd

import (
	"fmt"

	ET "github.com/IBM/fp-go/v2/either"
	"github.com/spf13/cobra"
)

var fileCmd = &cobra.Command{
	Use:   "file",
	Short: "Attach files to or remove files from a dispatch request",
}

var fileAddCmd = &cobra.Command{
	Use:   "add <request-id> <path|s3://bucket/key>...",
	Short: "Upload files, expanding zip archives",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()
		id := args[0]
		if _, err := openDetail(ctx, id); err != nil {
			return err
		}
		for _, source := range args[1:] {
			uploads, err := ET.UnwrapError(services.Picker.Pick(ctx, source)())
			if err != nil {
				return fmt.Errorf("pick %s: %w", source, err)
			}
			for _, u := range uploads {
				if err := services.Workflows.AddFile(ctx, id, u); err != nil {
					return fmt.Errorf("upload %s: %w", u.Name, err)
				}
			}
		}
		services.SyncGrid()
		showCurrent(cmd)
		return nil
	},
}

var fileDeleteCmd = &cobra.Command{
	Use:   "delete <request-id> <file-id>",
	Short: "Remove a file from a dispatch request",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()
		if _, err := openDetail(ctx, args[0]); err != nil {
			return err
		}
		if err := services.Workflows.DeleteFile(ctx, args[0], args[1]); err != nil {
			return err
		}
		services.SyncGrid()
		showCurrent(cmd)
		return nil
	},
}

func init() {
	fileCmd.AddCommand(fileAddCmd)
	fileCmd.AddCommand(fileDeleteCmd)
}
