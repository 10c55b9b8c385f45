package app

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"codeberg.org/sigterm-de/boopkit/internal/engine"
	"codeberg.org/sigterm-de/boopkit/internal/logging"
	"codeberg.org/sigterm-de/boopkit/internal/scripts"
	"github.com/spf13/cobra"
)

const (
	outputText = "text"
	outputJSON = "json"
)

type runOptions struct {
	file      string
	selection string
	eachLine  bool
	output    string
	timeout   time.Duration
}

// runReport is one execution in --output json mode.
type runReport struct {
	Script    string        `json:"script"`
	Action    engine.Action `json:"action"`
	Output    string        `json:"output"`
	Info      string        `json:"info,omitempty"`
	Error     string        `json:"error,omitempty"`
	Exception string        `json:"exception,omitempty"`
}

func (r runReport) failed() bool { return r.Error != "" || r.Exception != "" }

func (c *cli) newRunCommand() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run SCRIPT",
		Short: "Run a script against stdin or a file",
		Long: `Run a script against stdin or a file and print the result.

SCRIPT is a path to a .js file or the name of a loaded script. Names match
case-insensitively; when no name matches exactly the best fuzzy match wins.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var selection *string
			if cmd.Flags().Changed("selection") {
				selection = engine.Selected(opts.selection)
			}
			if !cmd.Flags().Changed("timeout") {
				opts.timeout = c.cfg.Timeout
			}
			return c.run(cmd, args[0], selection, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "read input from this file instead of stdin")
	cmd.Flags().StringVarP(&opts.selection, "selection", "s", "", "treat this text as the current selection")
	cmd.Flags().BoolVar(&opts.eachLine, "each-line", false, "run the script once per input line")
	cmd.Flags().StringVarP(&opts.output, "output", "o", outputText, "output format: text or json")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", defaultTimeout, "abort a script invocation after this long (0 disables)")
	return cmd
}

func (c *cli) run(cmd *cobra.Command, ref string, selection *string, opts runOptions) error {
	if opts.output != outputText && opts.output != outputJSON {
		return fmt.Errorf("unknown output format %q", opts.output)
	}

	script, err := c.resolveScript(ref)
	if err != nil {
		return err
	}

	input, err := readInput(cmd.InOrStdin(), opts.file)
	if err != nil {
		return err
	}

	ec, err := engine.New(script.Content,
		engine.WithName(script.Name),
		engine.WithResolver(engine.DefaultResolver(c.cfg.ScriptsDir)),
	)
	if err != nil {
		return err
	}

	sup := supervisor{ctx: cmd.Context(), timeout: opts.timeout}

	var reports []runReport
	if opts.eachLine {
		for _, line := range strings.Split(input, "\n") {
			reports = append(reports, sup.execute(ec, line, nil))
		}
	} else {
		reports = append(reports, sup.execute(ec, input, selection))
	}

	if opts.output == outputJSON {
		err = writeJSON(cmd.OutOrStdout(), reports)
	} else {
		err = writeText(cmd.OutOrStdout(), cmd.ErrOrStderr(), reports)
	}
	if err != nil {
		return err
	}

	for _, r := range reports {
		if r.failed() {
			return errScriptFailed
		}
	}
	return nil
}

func execute(ec *engine.Context, input string, selection *string) runReport {
	st := ec.Execute(input, selection)
	act := st.Resolve()

	r := runReport{
		Script: ec.Name(),
		Action: act,
		Output: Render(act, input, selection),
	}
	r.Info, _ = st.InfoMessage()
	r.Error, _ = st.ErrorMessage()
	r.Exception, _ = st.Exception()
	return r
}

func writeText(stdout, stderr io.Writer, reports []runReport) error {
	lines := make([]string, len(reports))
	for i, r := range reports {
		lines[i] = r.Output
		if r.Info != "" {
			fmt.Fprintf(stderr, "info: %s\n", r.Info)
		}
		if r.Error != "" {
			fmt.Fprintf(stderr, "error: %s\n", r.Error)
		}
		if r.Exception != "" {
			fmt.Fprintf(stderr, "exception: %s\n", r.Exception)
		}
	}
	_, err := io.WriteString(stdout, strings.Join(lines, "\n"))
	return err
}

func writeJSON(w io.Writer, reports []runReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if len(reports) == 1 {
		return enc.Encode(reports[0])
	}
	return enc.Encode(reports)
}

// resolveScript finds the script named by ref: an existing .js file first,
// then an exact library name, then the best fuzzy match.
func (c *cli) resolveScript(ref string) (scripts.Script, error) {
	if strings.HasSuffix(ref, ".js") {
		if b, err := os.ReadFile(ref); err == nil {
			s, herr := scripts.ParseHeader(string(b))
			if herr != nil {
				logging.Logf(logging.DEBUG, ref, "running file without a valid header: %v", herr)
				s.Name = filepath.Base(ref)
			}
			s.Origin = scripts.UserProvided
			s.Path = ref
			return s, nil
		}
	}

	lib, err := c.loadLibrary()
	if err != nil {
		return scripts.Script{}, err
	}
	if s, ok := lib.Find(ref); ok {
		return s, nil
	}
	if matches := lib.Search(ref); len(matches) > 0 {
		logging.Logf(logging.DEBUG, matches[0].Name, "fuzzy match for %q", ref)
		return matches[0], nil
	}
	return scripts.Script{}, fmt.Errorf("no script matches %q", ref)
}
