package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/datatrails/go-datatrails-common/logger"
	units "github.com/docker/go-units"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/clst/UNREADABLESECTOR-merger/pkg/merge"
)

const (
	serviceName = "secmerge"
	envPrefix   = "SECMERGE"
)

var logLevels = map[string]bool{
	"DEBUG": true,
	"INFO":  true,
	"WARN":  true,
	"ERROR": true,
	"NOOP":  true,
}

// Options holds high-level configuration for a merge run.
type Options struct {
	DumpA        string
	DumpB        string
	Output       string
	SkipSectors  int64 // -s
	EnableAppend bool  // -a
	Quiet        bool  // -q
	SectorSize   int
	Marker       string
	Progress     int64
	DryRun       bool
	Verify       bool
	StateLog     string
	LogLevel     string

	// Args is the full command line, recorded in the state log.
	Args []string
}

func (o Options) mergeOptions() merge.Options {
	return merge.Options{
		SectorSize:       o.SectorSize,
		Marker:           []byte(o.Marker),
		AlignOffset:      o.SkipSectors,
		AllowAppend:      o.EnableAppend,
		Quiet:            o.Quiet,
		ProgressInterval: o.Progress,
	}
}

// UI abstracts where user-facing output goes so the CLI stays testable.
type UI interface {
	Println(a ...any)
	Printf(format string, a ...any)
}

type stdUI struct {
	out io.Writer
}

// NewStdUI returns a UI backed by stdout.
func NewStdUI() UI {
	return &stdUI{out: os.Stdout}
}

func (u *stdUI) Println(a ...any) {
	fmt.Fprintln(u.out, a...)
}

func (u *stdUI) Printf(format string, a ...any) {
	fmt.Fprintf(u.out, format, a...)
}

// Run is the main entrypoint for the CLI.
//
// It validates arguments and, in dry-run mode, prints the merge plan without
// creating the output. Otherwise it merges the two dumps and prints the
// sector statistics.
func Run(args []string) error {
	return run(args, NewStdUI())
}

// run is the internal implementation that allows injecting a custom UI
// (useful for tests).
func run(args []string, ui UI) error {
	if len(args) == 0 {
		return fmt.Errorf("no arguments provided")
	}
	cmd := newRootCommand(ui, args)
	cmd.SetArgs(args[1:])
	return cmd.Execute()
}

func newRootCommand(ui UI, argv []string) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "secmerge [flags] DUMP_A DUMP_B OUTPUT",
		Short: "Merge two sector dumps into one image",
		Long: fmt.Sprintf(`Merge two raw dumps of the same medium.

If a sector in DUMP_A starts with %q the sector from DUMP_B is used.
If that one is marked as well the sector is kept and reported.
Readable sectors that differ between the dumps abort the merge.`, merge.DefaultMarker),
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions(v, args)
			if err != nil {
				return err
			}
			opts.Args = argv
			return execute(opts, ui)
		},
	}

	fs := cmd.Flags()
	fs.Int64P("skip-sectors", "s", 0, "copy this many sectors of DUMP_A before DUMP_B applies; DUMP_B's first sector lines up with this one")
	fs.BoolP("enable-append", "a", false, "allow DUMP_B to be larger than DUMP_A + skip-sectors and append the rest of it")
	fs.BoolP("quiet", "q", false, "do not announce DUMP_B bad sectors that are fine in DUMP_A, nor bad sectors in copied areas")
	fs.String("sector-size", fmt.Sprint(merge.DefaultSectorSize), "sector size, e.g. 512, 4k")
	fs.String("marker", string(merge.DefaultMarker), "bytes that start an unreadable sector")
	fs.Int64("progress", merge.DefaultProgressInterval, "report progress every N sectors (0 disables)")
	fs.Bool("dry-run", false, "print the merge plan without writing the output")
	fs.Bool("verify", false, "re-read the output after merging and check it")
	fs.String("state-log", "", "append a record of this run to the given file")
	fs.String("log-level", "INFO", "log level (DEBUG, INFO, WARN, ERROR, NOOP)")
	fs.String("config", "", "read options from a config file (yaml, toml or json)")

	_ = v.BindPFlags(fs)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return cmd
}

// loadOptions merges flags, SECMERGE_* environment variables and the
// optional config file into Options. Explicit flags win over the environment,
// which wins over the config file.
func loadOptions(v *viper.Viper, args []string) (Options, error) {
	if cfg := v.GetString("config"); cfg != "" {
		v.SetConfigFile(cfg)
		if err := v.ReadInConfig(); err != nil {
			return Options{}, fmt.Errorf("read config %s: %w", cfg, err)
		}
	}

	sectorSize, err := units.RAMInBytes(v.GetString("sector-size"))
	if err != nil {
		return Options{}, fmt.Errorf("%w: sector size %q: %v", merge.ErrInvalidOptions, v.GetString("sector-size"), err)
	}
	if sectorSize <= 0 || sectorSize > merge.MaxSectorSize {
		return Options{}, fmt.Errorf("%w: sector size %q must be between 1 and %d bytes", merge.ErrInvalidOptions, v.GetString("sector-size"), merge.MaxSectorSize)
	}

	level := strings.ToUpper(v.GetString("log-level"))
	if !logLevels[level] {
		return Options{}, fmt.Errorf("%w: unknown log level %q", merge.ErrInvalidOptions, v.GetString("log-level"))
	}

	return Options{
		DumpA:        args[0],
		DumpB:        args[1],
		Output:       args[2],
		SkipSectors:  v.GetInt64("skip-sectors"),
		EnableAppend: v.GetBool("enable-append"),
		Quiet:        v.GetBool("quiet"),
		SectorSize:   int(sectorSize),
		Marker:       v.GetString("marker"),
		Progress:     v.GetInt64("progress"),
		DryRun:       v.GetBool("dry-run"),
		Verify:       v.GetBool("verify"),
		StateLog:     v.GetString("state-log"),
		LogLevel:     level,
	}, nil
}

func execute(opts Options, ui UI) error {
	logger.New(opts.LogLevel)
	defer logger.OnExit()
	log := logger.Sugar.WithServiceName(serviceName)
	merge.SetLogger(log)
	defer merge.SetLogger(nil)

	mopts := opts.mergeOptions()
	sys := merge.DefaultSystem
	rec := merge.NewRunRecord(opts.Args, opts.DumpA, opts.DumpB, opts.Output, mopts)

	if opts.DryRun {
		if err := merge.ValidateMergeSafety(sys, opts.DumpA, opts.DumpB, opts.Output, mopts); err != nil {
			return err
		}
		plan, err := merge.Plan(sys, opts.DumpA, opts.DumpB, opts.Output, mopts)
		if err != nil {
			return err
		}
		ui.Println(plan.String())
		return appendStateLog(opts, merge.PhasePlan, rec, nil)
	}

	res, err := merge.MergeFiles(sys, opts.DumpA, opts.DumpB, opts.Output, mopts, merge.NewLogReporter())
	rec.Result = res

	phase := merge.PhaseMergeSuccess
	if err != nil {
		phase = merge.PhaseMergeFailed
	}
	if serr := appendStateLog(opts, phase, rec, err); serr != nil {
		log.Warnf("cannot write state log %s: %v", opts.StateLog, serr)
	}

	if err != nil {
		if ce, ok := merge.IsConflict(err); ok {
			ui.Printf("dump A sector %d:\n%q\n\ndump B sector %d:\n%q\n", ce.Index, ce.A, ce.Index, ce.B)
		}
		return err
	}

	ui.Println(res.String())

	if opts.Verify {
		v, err := merge.VerifyOutput(opts.Output, mopts, res)
		if err != nil {
			return err
		}
		ui.Printf("verified %s: %d sectors, %s, %d still unreadable\n",
			opts.Output, v.Sectors, units.BytesSize(float64(v.Bytes)), v.Marked)
	}
	return nil
}

func appendStateLog(opts Options, phase string, rec merge.RunRecord, err error) error {
	if opts.StateLog == "" {
		return nil
	}
	return merge.AppendStateLog(opts.StateLog, phase, rec, err)
}
