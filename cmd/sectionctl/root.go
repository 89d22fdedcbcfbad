package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/iota-uz/section-editor/modules/section/domain/aggregates/section"
	"github.com/iota-uz/section-editor/modules/section/infrastructure/graphql"
	"github.com/iota-uz/section-editor/pkg/configuration"
	"github.com/iota-uz/section-editor/pkg/logging"
)

type apiFlags struct {
	url     string
	token   string
	timeout time.Duration
	verbose bool
	output  string
}

// repoFactory builds the repository a command talks to.
type repoFactory func(flags *apiFlags) (section.Repository, error)

func graphqlRepository(flags *apiFlags) (section.Repository, error) {
	client, err := graphql.NewClient(graphql.Options{
		Endpoint: flags.url,
		Token:    flags.token,
		Timeout:  flags.timeout,
	})
	if err != nil {
		return nil, err
	}
	return graphql.NewSectionRepository(client), nil
}

func newRootCmd(newRepo repoFactory, stderr io.Writer) *cobra.Command {
	flags := &apiFlags{}
	cmd := &cobra.Command{
		Use:           "sectionctl",
		Short:         "Inspect, edit and delete template sections",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flags.output != formatJSON && flags.output != formatYAML {
				return fmt.Errorf("invalid --output %q, want json or yaml", flags.output)
			}
			opts := configuration.SectionsAPIOptions{URL: flags.url, Token: flags.token, Timeout: flags.timeout}
			return opts.Validate()
		},
	}

	// Flags default to the same environment the server reads.
	var defaults configuration.SectionsAPIOptions
	_ = env.Parse(&defaults)

	cmd.PersistentFlags().StringVar(&flags.url, "api-url", defaults.URL, "Sections GraphQL endpoint")
	cmd.PersistentFlags().StringVar(&flags.token, "token", defaults.Token, "Bearer token for the sections API")
	cmd.PersistentFlags().DurationVar(&flags.timeout, "timeout", defaults.Timeout, "Request timeout")
	cmd.PersistentFlags().StringVarP(&flags.output, "output", "o", formatJSON, "Output format: json or yaml")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Log remote operations")

	ce := &cmdEnv{flags: flags, newRepo: newRepo, stderr: stderr}
	cmd.AddCommand(newShowCmd(ce))
	cmd.AddCommand(newEditCmd(ce))
	cmd.AddCommand(newDeleteCmd(ce))
	return cmd
}

// cmdEnv carries what every subcommand needs to open a session.
type cmdEnv struct {
	flags   *apiFlags
	newRepo repoFactory
	stderr  io.Writer
}

func (e *cmdEnv) write(w io.Writer, v any) error {
	return writeOutput(w, e.flags.output, v)
}

func (e *cmdEnv) logger() *logrus.Logger {
	level := logrus.ErrorLevel
	if e.flags.verbose {
		level = logrus.DebugLevel
	}
	log := logging.ConsoleLogger(level)
	log.SetOutput(e.stderr)
	return log
}

func Execute() {
	if err := newRootCmd(graphqlRepository, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
