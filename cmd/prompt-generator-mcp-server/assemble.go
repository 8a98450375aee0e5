package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/complytime/prompt-generator-mcp-server/chat"
	"github.com/complytime/prompt-generator-mcp-server/prompt"
)

// copyToClipboard is swapped out in tests.
var copyToClipboard = clipboard.WriteAll

type assembleOptions struct {
	file   string
	values map[prompt.Field]*string
	copy   bool
	check  bool
}

func newAssembleCmd() *cobra.Command {
	opts := &assembleOptions{values: make(map[prompt.Field]*string)}

	cmd := &cobra.Command{
		Use:   "assemble",
		Short: "Assemble a prompt from the command line",
		Long: "Assemble a prompt from purpose, topic, format, tone, length, audience and instructions. " +
			"Values may come from a YAML selection file; flags override it.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd.Flags().Changed, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.file, "file", "f", "", "YAML file holding a selection")
	for _, field := range prompt.Fields() {
		value := new(string)
		opts.values[field] = value
		usage := fmt.Sprintf("%s of the prompt", field)
		if v, ok := prompt.Lookup(field); ok {
			usage = fmt.Sprintf("%s (default %q)", v.Values(), v.Default)
		}
		flags.StringVar(value, string(field), "", usage)
	}
	flags.BoolVar(&opts.copy, "copy", false, "copy the assembled prompt to the clipboard")
	flags.BoolVar(&opts.check, "check", false, "fail when the prompt is not ready to send")

	return cmd
}

func (o *assembleOptions) run(changed func(string) bool, out io.Writer) error {
	values := make(map[string]string)
	if o.file != "" {
		data, err := os.ReadFile(o.file)
		if err != nil {
			return fmt.Errorf("failed to read selection: %w", err)
		}
		if err := yaml.Unmarshal(data, &values); err != nil {
			return fmt.Errorf("failed to parse selection %s: %w", o.file, err)
		}
	}
	for field, value := range o.values {
		if changed(string(field)) {
			values[string(field)] = *value
		}
	}

	sel, err := prompt.ParseSelection(values)
	if err != nil {
		return err
	}
	text, err := prompt.Assemble(sel)
	if err != nil {
		return err
	}
	if o.check {
		if err := prompt.CheckSendable(sel, text); err != nil {
			return errors.New(prompt.MissingTopicMessage)
		}
	}

	if _, err := fmt.Fprintln(out, text); err != nil {
		return err
	}
	if o.copy {
		if err := copyToClipboard(text); err != nil {
			return fmt.Errorf("failed to copy prompt: %w", err)
		}
	}
	return nil
}

func newOptionsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "options",
		Short: "List every prompt option with its label and phrase",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeOptions(cmd.OutOrStdout(), asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of YAML")
	return cmd
}

type optionsListing struct {
	Vocabularies []prompt.Vocabulary `json:"vocabularies" yaml:"vocabularies"`
	Models       []string            `json:"models" yaml:"models"`
}

func writeOptions(out io.Writer, asJSON bool) error {
	listing := optionsListing{Vocabularies: prompt.Catalog(), Models: chat.Models()}

	var (
		data []byte
		err  error
	)
	if asJSON {
		data, err = json.MarshalIndent(listing, "", "  ")
		data = append(data, '\n')
	} else {
		data, err = yaml.Marshal(listing)
	}
	if err != nil {
		return fmt.Errorf("failed to encode options: %w", err)
	}
	_, err = out.Write(data)
	return err
}
