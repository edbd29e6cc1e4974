package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/samvad-api-relay/pkg/relay"
)

var dataFlag string

var (
	getCmd    = newQueryCommand("get", (*relay.Client).Get)
	deleteCmd = newQueryCommand("delete", (*relay.Client).Delete)
	postCmd   = newBodyCommand("post", (*relay.Client).Post)
	putCmd    = newBodyCommand("put", (*relay.Client).Put)
	patchCmd  = newBodyCommand("patch", (*relay.Client).Patch)
)

type queryVerb func(*relay.Client, context.Context, string, url.Values, ...relay.CallOption) (*relay.Envelope, error)

type bodyVerb func(*relay.Client, context.Context, string, any, ...relay.CallOption) (*relay.Envelope, error)

func newQueryCommand(verb string, call queryVerb) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <path>",
		Short: "Perform a " + strings.ToUpper(verb) + " call and print the shaped envelope",
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
			env, err := call(client, cmd.Context(), args[0], query, opts...)
			if err != nil {
				return err
			}
			return renderEnvelope(cmd.OutOrStdout(), env)
		},
	}
}

func newBodyCommand(verb string, call bodyVerb) *cobra.Command {
	cmd := &cobra.Command{
		Use:   verb + " <path>",
		Short: "Perform a " + strings.ToUpper(verb) + " call and print the shaped envelope",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(queryFlags) > 0 {
				return fmt.Errorf("--query is only supported on get, delete, and download")
			}
			client, err := newClient()
			if err != nil {
				return err
			}
			body, err := loadBody(dataFlag)
			if err != nil {
				return err
			}
			opts, err := callOptions()
			if err != nil {
				return err
			}
			env, err := call(client, cmd.Context(), args[0], body, opts...)
			if err != nil {
				return err
			}
			return renderEnvelope(cmd.OutOrStdout(), env)
		},
	}
	cmd.Flags().StringVarP(&dataFlag, "data", "d", "", "request body as JSON, or @file to read it from disk")
	return cmd
}

// loadBody expands @file references; the body is sent as-is otherwise.
func loadBody(data string) (any, error) {
	if data == "" {
		return nil, nil
	}
	if name, ok := strings.CutPrefix(data, "@"); ok {
		raw, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read body file: %w", err)
		}
		return string(raw), nil
	}
	return data, nil
}
