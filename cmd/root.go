package cmd

import (
	"io"
	"os"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sidkik/template-sync/cmd/util"
	"github.com/sidkik/template-sync/pkg/config"
	"github.com/sidkik/template-sync/pkg/errors"
	"github.com/sidkik/template-sync/pkg/sync"
	"github.com/sidkik/template-sync/pkg/version"
)

// verboseLogKey is the environment variable used to enable verbose logging.
// When it's set to `true`, Debug events are logged, rather than just Info and
// above.
const verboseLogKey = "TEMPLATE_SYNC_LOG_VERBOSE"

// Mocked for unit testing.
var getWorkingDirectory = os.Getwd

type options struct {
	template   string
	instance   string
	configPath string
}

// Execute runs the main CLI process.
func Execute() {
	if os.Getenv(verboseLogKey) == "true" {
		log.SetLevel(log.DebugLevel)
	}

	if err := New().Execute(); err != nil {
		util.HandleFatalError(err)
	}
}

// New creates the root `template-sync` command.
func New() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "template-sync",
		Short: "Update a template from a repository instance",
		Long: "Given a template and a repository instance, update all existing\n" +
			"template files with the instance content.",
		Version: version.Version,
		Args:    cobra.NoArgs,

		SilenceUsage: true,

		// Execute's caller prints the error, so we silence errors here to
		// avoid double printing.
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&opts.template, "template", "t", "",
		"Template to update. Resolved relative to the working directory.")
	cmd.Flags().StringVarP(&opts.instance, "instance", "i", "",
		"Instance to reference.")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "",
		"Optional config file that overrides the list of ignored files.")
	cmd.MarkFlagRequired("template")
	cmd.MarkFlagRequired("instance")
	return cmd
}

func run(opts options, out io.Writer) error {
	ignore, err := config.LoadIgnore(opts.configPath)
	if err != nil {
		return errors.WithContext(err, "load config")
	}

	workingDir, err := getWorkingDirectory()
	if err != nil {
		return errors.WithContext(err, "get working directory")
	}

	cfg, err := config.NewSync(opts.template, opts.instance, workingDir, ignore)
	if err != nil {
		return err
	}

	_, err = sync.New(out, log.StandardLogger(), clockwork.NewRealClock()).Run(cfg)
	return err
}
