// Package cli implements the jsondiff command line
package cli

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-isatty"
	"github.com/qri-io/jsondiff"
	"github.com/qri-io/jsondiff/internal/config"
	"github.com/qri-io/jsondiff/internal/debug"
	"github.com/qri-io/jsondiff/internal/decode"
	"github.com/qri-io/jsondiff/internal/errors"
	"github.com/qri-io/jsondiff/internal/render"
	"go.uber.org/zap"
)

// Version information
const Version = "0.2.0"

// CLI defines the command-line interface
type CLI struct {
	Config string `help:"Path to a config file. Defaults to the nearest .jsondiff.yml." type:"path"`
	Debug  bool   `help:"Enable debug logging." short:"d"`

	Diff    DiffCmd    `cmd:"" help:"Show the structural difference between two documents."`
	Patch   PatchCmd   `cmd:"" help:"Apply a JSON patch to a document and print the result."`
	Get     GetCmd     `cmd:"" help:"Print the value a JSON pointer resolves to."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// Globals are shared with every command's Run method
type Globals struct {
	Config *config.Config
	Stdout io.Writer
	Stderr io.Writer
	Log    *zap.Logger
}

type exitCode int

// Main runs the command line with args, excluding the program name, and
// returns the process exit code
func Main(args []string, stdout, stderr io.Writer) (code int) {
	defer func() {
		if r := recover(); r != nil {
			c, ok := r.(exitCode)
			if !ok {
				panic(r)
			}
			code = int(c)
		}
	}()

	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("jsondiff"),
		kong.Description("Structural diff & patch for JSON and YAML documents"),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.Exit(func(c int) { panic(exitCode(c)) }),
	)
	if err != nil {
		fmt.Fprintf(stderr, "%s\n", err)
		return 1
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "jsondiff: %s\n", err)
		return 1
	}

	cfg, err := loadConfig(cli.Config)
	if err != nil {
		fmt.Fprintf(stderr, "%s\n", errors.UserFriendlyError(err))
		return 1
	}
	if cli.Debug || cfg.Dev.Debug {
		debug.EnableAll()
	}

	g := &Globals{
		Config: cfg,
		Stdout: stdout,
		Stderr: stderr,
		Log:    debug.Logger(debug.CLI()),
	}
	g.Log.Debug("running command", zap.String("command", ctx.Command()))

	if err := ctx.Run(g); err != nil {
		g.Log.Debug("command failed", zap.Error(err))
		var appErr *errors.AppError
		if !stderrors.As(err, &appErr) {
			err = errors.NewUnknownError(fmt.Sprintf("running %s", ctx.Command()), err)
		}
		fmt.Fprintf(stderr, "%s\n", errors.UserFriendlyError(err))
		return 1
	}
	return 0
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = config.FindConfigFile()
	}
	if path == "" {
		return config.NewConfig(), nil
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("loading %s", path), err)
	}
	return cfg, nil
}

// DiffCmd compares two documents
type DiffCmd struct {
	Old string `arg:"" help:"The original document." type:"path"`
	New string `arg:"" help:"The changed document." type:"path"`

	Arrays string `help:"Array comparison: lcs or simple." placeholder:"POLICY"`
	Output string `help:"Output format: pretty, list, patch or json." short:"o" placeholder:"FORMAT"`
	Color  string `help:"Color output: auto, always or never." placeholder:"MODE"`
	Indent int    `help:"Spaces per nesting level." default:"-1"`
	Inline bool   `help:"Show replaced strings as a single line with inline changes."`
	Stats  bool   `help:"Print a summary of the changes."`
}

// Run executes the diff command
func (c *DiffCmd) Run(g *Globals) error {
	cfg := *g.Config
	if c.Arrays != "" {
		cfg.Arrays = c.Arrays
	}
	if c.Output != "" {
		cfg.Output.Format = c.Output
	}
	if c.Color != "" {
		cfg.Render.Color = c.Color
	}
	if c.Indent >= 0 {
		cfg.Render.Indent = c.Indent
	}
	cfg.Render.InlineStrings = cfg.Render.InlineStrings || c.Inline
	cfg.Output.Stats = cfg.Output.Stats || c.Stats
	if err := cfg.Validate(); err != nil {
		return errors.NewConfigError("invalid options", err)
	}

	left, _, err := loadDocument(c.Old)
	if err != nil {
		return err
	}
	right, _, err := loadDocument(c.New)
	if err != nil {
		return err
	}

	stats := &jsondiff.Stats{}
	res := jsondiff.Diff(left, right,
		jsondiff.OptionArrayPolicy(cfg.ArrayPolicy()),
		jsondiff.OptionSetStats(stats),
	)
	debug.Logger(debug.Diff()).Debug("diff computed",
		zap.String("arrays", cfg.Arrays),
		zap.Int("changes", res.Len()),
		zap.Int("leftNodes", stats.Left),
		zap.Int("rightNodes", stats.Right),
	)

	colored := useColor(cfg.Render.Color, g.Stdout)
	if err := writeDiff(g.Stdout, &cfg, left, res, colored); err != nil {
		return errors.NewOutputError("writing diff", err)
	}

	if cfg.Output.Stats {
		s := jsondiff.FormatPrettyStats(stats)
		if colored {
			s = jsondiff.FormatPrettyStatsColor(stats)
		}
		if _, err := io.WriteString(g.Stdout, s); err != nil {
			return errors.NewOutputError("writing stats", err)
		}
	}
	return nil
}

func writeDiff(w io.Writer, cfg *config.Config, left interface{}, res *jsondiff.Result, colored bool) error {
	switch cfg.Output.Format {
	case config.FormatList:
		return jsondiff.FormatPretty(w, res, colored)
	case config.FormatPatch:
		return decode.Encode(w, res.Patch(), decode.JSON, cfg.Render.Indent)
	case config.FormatJSON:
		return decode.Encode(w, res, decode.JSON, cfg.Render.Indent)
	case config.FormatPretty:
		return render.Render(w, left, res, render.Options{
			Indent:        cfg.Render.Indent,
			Color:         colored,
			InlineStrings: cfg.Render.InlineStrings,
		})
	}
	return fmt.Errorf("%w %q", errors.ErrUnknownFormat, cfg.Output.Format)
}

// PatchCmd applies a patch document
type PatchCmd struct {
	Doc   string `arg:"" help:"The document to patch." type:"path"`
	Patch string `arg:"" help:"A JSON patch document, JSON or YAML." type:"path"`

	Indent int `help:"Spaces per nesting level." default:"-1"`
}

// Run executes the patch command
func (c *PatchCmd) Run(g *Globals) error {
	doc, format, err := loadDocument(c.Doc)
	if err != nil {
		return err
	}
	raw, _, err := loadDocument(c.Patch)
	if err != nil {
		return err
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return errors.NewParsingError(fmt.Sprintf("encoding %s", c.Patch), err)
	}
	patch, err := jsondiff.ParsePatch(data)
	if err != nil {
		return errors.NewPatchError(fmt.Sprintf("parsing %s", c.Patch), err)
	}

	log := debug.Logger(debug.Patch())
	log.Debug("applying patch", zap.String("doc", c.Doc), zap.Int("operations", len(patch)))
	res, err := jsondiff.Apply(doc, patch)
	if err != nil {
		return errors.NewPatchError("applying patch", err)
	}

	indent := g.Config.Render.Indent
	if c.Indent >= 0 {
		indent = c.Indent
	}
	if err := decode.Encode(g.Stdout, res, format, indent); err != nil {
		return errors.NewOutputError("writing document", err)
	}
	return nil
}

// GetCmd resolves a pointer
type GetCmd struct {
	Doc     string `arg:"" help:"The document to read." type:"path"`
	Pointer string `arg:"" help:"A JSON pointer, e.g. /a/0/b. The empty string is the whole document."`
}

// Run executes the get command
func (c *GetCmd) Run(g *Globals) error {
	doc, format, err := loadDocument(c.Doc)
	if err != nil {
		return err
	}
	path, err := jsondiff.ParsePointer(c.Pointer)
	if err != nil {
		return errors.NewInputError("invalid pointer", err)
	}
	v, err := jsondiff.Get(doc, path)
	if err != nil {
		return errors.NewInputError(fmt.Sprintf("resolving %q", c.Pointer), err)
	}
	if err := decode.Encode(g.Stdout, v, format, g.Config.Render.Indent); err != nil {
		return errors.NewOutputError("writing value", err)
	}
	return nil
}

// VersionCmd prints the version
type VersionCmd struct{}

// Run executes the version command
func (c *VersionCmd) Run(g *Globals) error {
	_, err := fmt.Fprintf(g.Stdout, "jsondiff version %s\n", Version)
	return err
}

// loadDocument reads & decodes a document, classifying failures
func loadDocument(path string) (interface{}, decode.Format, error) {
	v, format, err := decode.File(path)
	if err == nil {
		return v, format, nil
	}

	var pathErr *fs.PathError
	switch {
	case os.IsNotExist(err):
		return nil, format, errors.NewInputError(fmt.Sprintf("reading %s", path), errors.ErrFileNotFound)
	case stderrors.As(err, &pathErr):
		return nil, format, errors.NewInputError(fmt.Sprintf("reading %s", path), err)
	case err == io.EOF:
		return nil, format, errors.NewInputError(fmt.Sprintf("reading %s", path), errors.ErrFileEmpty)
	}
	invalid := errors.ErrInvalidJSON
	if format == decode.YAML {
		invalid = errors.ErrInvalidYAML
	}
	return nil, format, errors.NewParsingError(fmt.Sprintf("decoding %s", path), fmt.Errorf("%w: %v", invalid, err))
}

// useColor decides whether output to w gets ANSI colors
func useColor(mode string, w io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
