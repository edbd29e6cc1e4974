package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	outFlag string
	dirFlag string
)

var downloadCmd = &cobra.Command{
	Use:   "download <path>",
	Short: "Download a byte-stream payload and save it to disk",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		query, err := parseQuery(queryFlags)
		if err != nil {
			return err
		}
		opts, err := callOptions()
		if err != nil {
			return err
		}
		saved, err := client.Download(cmd.Context(), args[0], query, outFlag, opts...)
		if err != nil {
			return err
		}
		okPaint.Fprint(cmd.OutOrStdout(), "saved")
		fmt.Fprintf(cmd.OutOrStdout(), " %s\n", saved)
		return nil
	},
}

func init() {
	downloadCmd.Flags().StringVarP(&outFlag, "out", "o", "", "filename for the saved payload (defaults to the server-provided name)")
	downloadCmd.Flags().StringVar(&dirFlag, "dir", "", "directory downloads are saved into (default from config)")
}
