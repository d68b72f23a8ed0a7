package skill

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/invopop/jsonschema"
	"github.com/jingkaihe/stepkit/pkg/config"
	"github.com/jingkaihe/stepkit/pkg/logger"
	"github.com/jingkaihe/stepkit/pkg/telemetry"
	"github.com/jingkaihe/stepkit/pkg/version"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/attribute"
)

// Description is printed by the description subcommand. Hosts call
// `<binary> description` to discover the tool before invoking `<binary> run`.
type Description struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	InputSchema *jsonschema.Schema `json:"input_schema"`
}

type runner struct {
	skill    Skill
	viper    *viper.Viper
	cfg      config.Config
	shutdown telemetry.ShutdownFunc
}

// NewCommand builds the command tree for s. Invoked without a subcommand the
// binary behaves like `run`.
func NewCommand(s Skill) *cobra.Command {
	r := &runner{
		skill: s,
		viper: config.NewViper(),
		cfg:   config.Default(),
	}

	root := &cobra.Command{
		Use:   s.Name(),
		Short: s.Description(),
		Long: fmt.Sprintf(`%s

Reads one JSON object on stdin and writes one JSON object on stdout.
Malformed input is treated as an empty object; problems are reported in the
"issues" field and the exit status stays zero.`, s.Description()),
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  r.setup,
		PersistentPostRunE: r.teardown,
		RunE:               r.run,
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "Path to a stepkit.yaml config file")
	flags.String("log-level", "", "Log level (trace, debug, info, warn, error)")
	flags.String("log-format", "", "Log format (fmt or json)")
	flags.String("profile", "", "Configuration profile to apply")
	bindFlags(r.viper, flags)

	root.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Run the skill on the JSON payload read from stdin",
			Args:  cobra.NoArgs,
			RunE:  r.run,
		},
		&cobra.Command{
			Use:   "description",
			Short: "Print the tool description and input schema as JSON",
			Args:  cobra.NoArgs,
			RunE:  r.describe,
		},
		newManifestCmd(s),
		&cobra.Command{
			Use:   "version",
			Short: "Print the version information",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				out, err := version.Get().JSON()
				if err != nil {
					return errors.Wrap(err, "failed to format version info")
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
				return err
			},
		},
	)

	return root
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	for key, name := range map[string]string{
		"log_level":  "log-level",
		"log_format": "log-format",
		"profile":    "profile",
	} {
		_ = v.BindPFlag(key, flags.Lookup(name))
	}
}

func newManifestCmd(s Skill) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Print a skill.yaml manifest describing this binary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := BuildManifest(s, version.Version, path)
			if err != nil {
				return err
			}
			out, err := m.Render()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVar(&path, "path", "./"+s.Name(), "Executable path recorded in the manifest")
	return cmd
}

// setup never fails: a broken configuration only costs the user their
// settings, not the skill output.
func (r *runner) setup(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger.SetLogOutput(cmd.ErrOrStderr())

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		r.viper.SetConfigFile(path)
	}

	cfg, err := config.Load(r.viper)
	if err != nil {
		logger.G(ctx).WithError(err).Warn("invalid configuration, using defaults")
		cfg = config.Default()
	}
	r.cfg = cfg

	logger.SetLogFormat(cfg.LogFormat)
	if err := logger.SetLogLevel(cfg.LogLevel); err != nil {
		logger.G(ctx).WithError(err).Warn("invalid log level")
	}

	shutdown, err := telemetry.InitTracer(ctx, cfg.Tracing, r.skill.Name(), version.Version)
	if err != nil {
		logger.G(ctx).WithError(err).Warn("failed to initialize tracing")
		shutdown = func(context.Context) error { return nil }
	}
	r.shutdown = shutdown

	if c, ok := r.skill.(Configurable); ok {
		c.Configure(cfg)
	}
	return nil
}

func (r *runner) teardown(cmd *cobra.Command, _ []string) error {
	if r.shutdown == nil {
		return nil
	}
	if err := r.shutdown(cmd.Context()); err != nil {
		logger.G(cmd.Context()).WithError(err).Debug("failed to flush traces")
	}
	return nil
}

func (r *runner) run(cmd *cobra.Command, _ []string) error {
	ctx := logger.WithInvocation(cmd.Context(), r.skill.Name(), uuid.New().String())
	log := logger.G(ctx)

	limit := r.cfg.MaxInputBytes
	if limit <= 0 {
		limit = config.DefaultMaxInputBytes
	}

	var result Result
	telemetry.WithSpanFunc(ctx, "skill.execute", func(ctx context.Context) {
		args, err := ReadArgs(cmd.InOrStdin(), limit)
		if err != nil {
			log.WithError(err).Info("payload discarded, continuing with an empty object")
			telemetry.AddEvent(ctx, "payload.discarded", attribute.String("reason", err.Error()))
		}

		result = r.skill.Execute(ctx, args)
		telemetry.SetAttributes(ctx, attribute.Int("skill.issue_count", len(result.GetIssues())))
	}, attribute.String("skill.name", r.skill.Name()))

	log.WithField("issues", len(result.GetIssues())).Debug("skill finished")

	return writeJSON(cmd.OutOrStdout(), result)
}

func (r *runner) describe(cmd *cobra.Command, _ []string) error {
	return writeJSON(cmd.OutOrStdout(), Description{
		Name:        r.skill.Name(),
		Description: r.skill.Description(),
		InputSchema: r.skill.GenerateSchema(),
	})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "failed to write result")
	}
	return nil
}
