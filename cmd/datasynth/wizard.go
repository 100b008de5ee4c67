package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spektr-org/datasynth/config"
	"github.com/spektr-org/datasynth/engine"
	"github.com/spektr-org/datasynth/export"
	"github.com/spektr-org/datasynth/remote"
	"github.com/spektr-org/datasynth/schema"
	"github.com/spektr-org/datasynth/wizard"
)

// ============================================================================
// INTERACTIVE WIZARD — Line-oriented session over a Controller
// ============================================================================
// Every command is translated into a controller call (field edits become
// schema intents). Output is rendered from snapshots only.
// ============================================================================

const wizardHelp = `Commands:
  desc <text>                   set the description
  region <code>                 set the region (see: regions)
  regions                       list regions
  suggest [web]                 suggest a schema (AI by default)
  fields                        list fields
  add <index>                   insert a blank field after index (-1 = first)
  del <index>                   delete a field (the last one is kept)
  set <index> <attr> <value>    set name, description or useAI
  generate                      generate rows
  back                          go back one step
  show [n]                      preview rows (default 10)
  edit <row> <column> <value>   edit one cell
  chart [type] [x] [y]          aggregate for a chart
  export [csv|xlsx|<path>]      write .csv, .xlsx, .svg or .png (default: configured CSV name)
  history                       list past generations
  load <n>                      open a past generation
  forget <n>                    delete a past generation
  status                        show the current step
  quit                          leave`

func newWizardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "wizard",
		Short: "Run the describe → schema → explore wizard interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := newSession(current.newController(), current.cfg.Export, cmd.OutOrStdout())
			defer s.close()
			return s.run(cmd.Context(), cmd.InOrStdin())
		},
	}
}

type session struct {
	c           *wizard.Controller
	names       config.ExportConfig
	out         io.Writer
	unsubscribe func()
	lastNotice  string
}

func newSession(c *wizard.Controller, names config.ExportConfig, out io.Writer) *session {
	s := &session{c: c, names: names, out: out}
	s.unsubscribe = c.Subscribe(s.onChange)
	return s
}

func (s *session) close() { s.unsubscribe() }

// onChange renders transient state: the busy marker and new notices.
func (s *session) onChange(snap wizard.Snapshot) {
	if snap.Busy {
		fmt.Fprintf(s.out, "… %s\n", snap.Pending)
	}
	if snap.Notice != "" && snap.Notice != s.lastNotice {
		fmt.Fprintf(s.out, "! %s\n", snap.Notice)
	}
	s.lastNotice = snap.Notice
}

func (s *session) run(ctx context.Context, in io.Reader) error {
	fmt.Fprintln(s.out, "Describe the dataset you need (type help for commands).")
	s.prompt()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		quit, err := s.exec(ctx, scanner.Text())
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
		if quit || ctx.Err() != nil {
			return nil
		}
		s.prompt()
	}
	return scanner.Err()
}

func (s *session) prompt() {
	fmt.Fprintf(s.out, "[%s]> ", s.c.Snapshot().Step)
}

// exec runs one command line.
func (s *session) exec(ctx context.Context, line string) (quit bool, err error) {
	cmd, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	cmd = strings.ToLower(cmd)
	rest = strings.TrimSpace(rest)
	args := strings.Fields(rest)

	switch cmd {
	case "":
		return false, nil
	case "help", "?":
		fmt.Fprintln(s.out, wizardHelp)
	case "quit", "exit":
		return true, nil
	case "status":
		s.status()

	case "desc", "describe":
		s.c.SetDescription(rest)
	case "region":
		if len(args) != 1 {
			return false, errors.New("usage: region <code>")
		}
		return false, s.c.SetRegion(args[0])
	case "regions":
		for _, r := range wizard.Regions {
			fmt.Fprintf(s.out, "  %-6s %s\n", r.Code, r.Label)
		}
	case "suggest":
		source := remote.SourceAI
		if len(args) > 0 && strings.EqualFold(args[0], "web") {
			source = remote.SourceWeb
		}
		if err := s.c.SuggestSchema(ctx, source); err != nil {
			return false, quiet(err)
		}
		snap := s.c.Snapshot()
		printFields(s.out, snap.Fields)
		if snap.Reasoning != "" {
			fmt.Fprintln(s.out, snap.Reasoning)
		}

	case "fields":
		printFields(s.out, s.c.Snapshot().Fields)
	case "add", "del", "set":
		intent, err := parseIntent(cmd, args)
		if err != nil {
			return false, err
		}
		if err := s.c.Apply(intent); err != nil {
			return false, err
		}
		printFields(s.out, s.c.Snapshot().Fields)

	case "generate":
		if err := s.c.Generate(ctx); err != nil {
			return false, quiet(err)
		}
		printTable(s.out, s.c.Snapshot().Rows, 10)
	case "back":
		if err := s.c.Back(); err != nil {
			return false, err
		}
		s.status()

	case "show":
		n := 10
		if len(args) > 0 {
			if n, err = strconv.Atoi(args[0]); err != nil {
				return false, fmt.Errorf("show: %w", err)
			}
		}
		printTable(s.out, s.c.Snapshot().Rows, n)
	case "edit":
		parts := strings.SplitN(rest, " ", 3)
		if len(parts) != 3 {
			return false, errors.New("usage: edit <row> <column> <value>")
		}
		row, err := strconv.Atoi(parts[0])
		if err != nil {
			return false, fmt.Errorf("edit: %w", err)
		}
		return false, s.c.EditCell(row, parts[1], parts[2])
	case "chart":
		return false, s.chart(args)
	case "export":
		if len(args) > 1 {
			return false, errors.New("usage: export [csv|xlsx|<path>]")
		}
		return false, s.export(s.exportPath(args))

	case "history":
		printHistory(s.out, s.c.Snapshot().History)
	case "load", "forget":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: %s <n>", cmd)
		}
		id, err := s.historyID(args[0])
		if err != nil {
			return false, err
		}
		if cmd == "forget" {
			s.c.DeleteHistory(id)
			return false, nil
		}
		if err := s.c.SelectHistory(id); err != nil {
			return false, err
		}
		printTable(s.out, s.c.Snapshot().Rows, 10)

	default:
		return false, fmt.Errorf("unknown command %q (type help)", cmd)
	}
	return false, nil
}

func (s *session) status() {
	snap := s.c.Snapshot()
	fmt.Fprintf(s.out, "step %d (%s), region %s, %d fields, %d rows\n",
		snap.Step, snap.Step, snap.Region, len(snap.Fields), len(snap.Rows))
}

func parseIntent(cmd string, args []string) (schema.Intent, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("usage: %s <index> ...", cmd)
	}
	index, err := strconv.Atoi(args[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cmd, err)
	}
	switch cmd {
	case "add":
		return schema.InsertAfter(index), nil
	case "del":
		return schema.DeleteAt(index), nil
	default:
		if len(args) < 2 {
			return nil, errors.New("usage: set <index> <attr> <value>")
		}
		return schema.Update(index, args[1], strings.Join(args[2:], " ")), nil
	}
}

func (s *session) chart(args []string) error {
	snap := s.c.Snapshot()
	cfg := snap.Chart
	if len(args) > 0 {
		t, err := engine.ParseChartType(args[0])
		if err != nil {
			return err
		}
		cfg.Type = t
	}
	if len(args) > 1 {
		cfg.XKey = args[1]
	}
	if len(args) > 2 {
		cfg.YKey = args[2]
	}
	if err := s.c.SetChart(cfg); err != nil {
		return err
	}
	res, err := s.c.Chart()
	if err != nil {
		return err
	}
	printChart(s.out, res)
	return nil
}

func (s *session) export(path string) error {
	if len(s.c.Snapshot().Rows) == 0 {
		return errors.New("nothing to export: generate or load a dataset first")
	}
	lower := strings.ToLower(path)
	var err error
	switch {
	case strings.HasSuffix(lower, ".csv"):
		err = writeFile(path, s.c.ExportCSV)
	case strings.HasSuffix(lower, ".xlsx"):
		err = writeFile(path, func(w io.Writer) error { return s.c.ExportXLSX(w, s.names.Sheet) })
	case strings.HasSuffix(lower, ".svg"), strings.HasSuffix(lower, ".png"):
		var res *engine.ChartResult
		if res, err = s.c.Chart(); err == nil {
			err = writeFile(path, func(w io.Writer) error {
				return export.RenderChart(w, res, export.FormatFromPath(path))
			})
		}
	default:
		return fmt.Errorf("export %s: unsupported extension", path)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Wrote %s\n", path)
	return nil
}

// exportPath maps no argument or a bare format name to the configured
// artifact name.
func (s *session) exportPath(args []string) string {
	if len(args) == 0 {
		return orDefault(s.names.CSVName, export.DefaultCSVName)
	}
	switch strings.ToLower(args[0]) {
	case "csv":
		return orDefault(s.names.CSVName, export.DefaultCSVName)
	case "xlsx":
		return orDefault(s.names.XLSXName, export.DefaultXLSXName)
	}
	return args[0]
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// historyID resolves a list position or a literal id.
func (s *session) historyID(ref string) (string, error) {
	entries := s.c.Snapshot().History
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 0 || n >= len(entries) {
			return "", fmt.Errorf("no history entry %d", n)
		}
		return entries[n].ID, nil
	}
	return ref, nil
}

// quiet hides remote failures already shown as a notice.
func quiet(err error) error {
	if errors.Is(err, remote.ErrRemoteCallFailed) {
		return nil
	}
	return err
}
