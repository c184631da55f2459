package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/reoring/zephyr"
	"github.com/reoring/zephyr/codec"
	"github.com/reoring/zephyr/definition"
	"github.com/reoring/zephyr/i18n"
	"github.com/reoring/zephyr/internal/logging"
)

// errInvalid is returned after a validation report has been printed.
var errInvalid = errors.New("input is invalid")

type app struct {
	in       io.Reader
	out      io.Writer
	errOut   io.Writer
	log      *slog.Logger
	schema   string
	format   string
	lang     string
	verbose  bool
	compiled zephyr.Type
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{in: in, out: out, errOut: errOut, log: logging.NewNop()}
	root := &cobra.Command{
		Use:           "zephyr",
		Short:         "Load, validate and convert data against a zephyr schema",
		Long:          `zephyr reads a declarative schema file (YAML or JSON) and checks documents against it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.log = logging.NewTo(a.errOut, logging.Level(a.verbose))
			if a.lang != "" {
				i18n.SetLanguage(a.lang)
			}
			return nil
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVarP(&a.schema, "schema", "s", "", "Schema definition file (.yaml, .yml or .json)")
	pf.StringVarP(&a.format, "format", "f", "", "Input format: json, yaml or msgpack (default: from file extension, else json)")
	pf.StringVar(&a.lang, "lang", "", "Message language (en, ja)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(a.validateCmd(), a.convertCmd(), a.jsonSchemaCmd())
	return root
}

// loadSchema parses --schema once per invocation.
func (a *app) loadSchema() (zephyr.Type, error) {
	if a.compiled != nil {
		return a.compiled, nil
	}
	if a.schema == "" {
		return nil, errors.New("--schema is required")
	}
	t, err := definition.ParseFile(a.schema)
	if err != nil {
		return nil, err
	}
	a.log.Debug("schema loaded", "path", a.schema, "type", fmt.Sprintf("%T", t))
	a.compiled = t
	return t, nil
}

// readInput decodes the document named by args (stdin when absent or "-").
func (a *app) readInput(args []string) (any, error) {
	path := "-"
	if len(args) > 0 {
		path = args[0]
	}
	c, err := a.inputCodec(path)
	if err != nil {
		return nil, err
	}
	var data []byte
	if path == "-" {
		data, err = io.ReadAll(a.in)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	a.log.Debug("input read", "path", path, "format", c.Name(), "bytes", len(data))
	return codec.Decode(c, data)
}

func (a *app) inputCodec(path string) (codec.Codec, error) {
	if a.format != "" {
		return codec.ForName(a.format)
	}
	if path == "-" {
		return codec.JSON(), nil
	}
	return codec.ForPath(path)
}

// outputJSON picks indented JSON for terminals and compact JSON for pipes.
func (a *app) outputJSON() codec.Codec {
	if f, ok := a.out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return codec.IndentedJSON()
	}
	return codec.JSON()
}

// debugValue logs a spew dump of v; the dump is only built when debug
// logging is on.
func (a *app) debugValue(ctx context.Context, msg string, v any) {
	if !a.log.Enabled(ctx, slog.LevelDebug) {
		return
	}
	a.log.DebugContext(ctx, msg, "value", spew.Sdump(v))
}

// messageTree renders a validation failure as a keyed tree, placing the
// messages of a scalar root under zephyr.SchemaKey.
func messageTree(ve *zephyr.ValidationError) zephyr.MessageMap {
	if m, ok := ve.Messages.(zephyr.MessageMap); ok {
		return m
	}
	return zephyr.MessageMap{zephyr.SchemaKey: ve.Messages}
}
