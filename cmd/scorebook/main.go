package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"scorebook/internal/audit"
	"scorebook/internal/config"
	"scorebook/internal/dates"
	"scorebook/internal/importer"
	"scorebook/internal/report"
	"scorebook/internal/scorecard"
	"scorebook/internal/snapshot"
	"scorebook/internal/store"
	"scorebook/internal/workspace"
)

const appName = "scorebook"

func main() {
	flag.String("workspace", "", "Path to workspace root")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s: scorecard tracking and goal evaluation\n\n", appName)
		fmt.Fprintf(os.Stderr, "Usage:\n  %s [command] [flags]\n\n", appName)
		fmt.Fprintln(os.Stderr, "Commands:")
		fmt.Fprintln(os.Stderr, "  init      Initialize a new workspace")
		fmt.Fprintln(os.Stderr, "  metric    Manage metrics")
		fmt.Fprintln(os.Stderr, "  score     Record observations")
		fmt.Fprintln(os.Stderr, "  goal      Manage per-bucket goal overrides")
		fmt.Fprintln(os.Stderr, "  view      Render the scorecard")
		fmt.Fprintln(os.Stderr, "  summary   Show per-metric summaries and trends")
		fmt.Fprintln(os.Stderr, "  import    Import scores from CSV")
		fmt.Fprintln(os.Stderr, "  export    Export the workspace as a snapshot file")
		fmt.Fprintln(os.Stderr, "  compare   Diff two rendered scorecards")
		fmt.Fprintln(os.Stderr, "  validate  Check workspace data for problems")
		fmt.Fprintln(os.Stderr, "  help      Show this help")
		fmt.Fprintln(os.Stderr, "\nFlags:")
		flag.PrintDefaults()
	}

	workspacePath, remaining, err := extractWorkspaceFlag(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	args := remaining
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		flag.Usage()
		return
	}

	switch args[0] {
	case "init":
		err = runInit(args[1:], workspacePath)
	case "metric":
		err = runMetric(args[1:], workspacePath)
	case "score":
		err = runScore(args[1:], workspacePath)
	case "goal":
		err = runGoal(args[1:], workspacePath)
	case "view":
		err = runView(args[1:], workspacePath)
	case "summary":
		err = runSummary(args[1:], workspacePath)
	case "import":
		err = runImport(args[1:], workspacePath)
	case "export":
		err = runExport(args[1:], workspacePath)
	case "compare":
		err = runCompare(args[1:], workspacePath)
	case "validate":
		err = runValidate(args[1:], workspacePath)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", args[0])
		flag.Usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func extractWorkspaceFlag(args []string) (string, []string, error) {
	var workspacePath string
	remaining := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--workspace" {
			if i+1 >= len(args) {
				return "", nil, fmt.Errorf("--workspace requires a value")
			}
			workspacePath = args[i+1]
			i++
			continue
		}
		if strings.HasPrefix(arg, "--workspace=") {
			workspacePath = strings.TrimPrefix(arg, "--workspace=")
			continue
		}
		remaining = append(remaining, arg)
	}
	return workspacePath, remaining, nil
}

type env struct {
	Workspace *workspace.Workspace
	Config    config.Config
	Store     *store.Store
	Audit     *audit.Logger
}

func (e *env) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

func (e *env) actor() string {
	if e.Config.Actor != "" {
		return e.Config.Actor
	}
	return "cli"
}

func openEnv(workspacePath string) (*env, error) {
	if strings.TrimSpace(workspacePath) == "" {
		return nil, fmt.Errorf("--workspace is required")
	}
	ws, err := workspace.Resolve(workspacePath)
	if err != nil {
		return nil, err
	}
	if err := ws.EnsureDirs(); err != nil {
		return nil, err
	}
	cfg, err := config.Load(ws.ConfigPath)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(ws.DBPath)
	if err != nil {
		return nil, err
	}
	return &env{
		Workspace: ws,
		Config:    cfg,
		Store:     st,
		Audit:     audit.NewLogger(ws.AuditDBPath),
	}, nil
}

func (e *env) logEvent(eventType, metricID string, payload any) {
	if err := e.Audit.LogEvent(e.actor(), eventType, metricID, payload); err != nil {
		fmt.Fprintln(os.Stderr, "audit log failed:", err)
	}
}

// findMetric accepts either a metric id or a metric name.
func (e *env) findMetric(ref string) (scorecard.Metric, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return scorecard.Metric{}, fmt.Errorf("metric is required")
	}
	all, err := e.Store.ListMetrics()
	if err != nil {
		return scorecard.Metric{}, err
	}
	for _, m := range all {
		if m.ID == ref {
			return m, nil
		}
	}
	m, ok, err := e.Store.FindMetricByName(ref)
	if err != nil {
		return scorecard.Metric{}, err
	}
	if !ok {
		return scorecard.Metric{}, fmt.Errorf("no metric with id or name %q", ref)
	}
	return m, nil
}

func todayUTC() dates.Day {
	return dates.FromTime(time.Now().UTC())
}

func parseAsOf(asOf string) (dates.Day, error) {
	if asOf == "" {
		return todayUTC(), nil
	}
	day, err := dates.Parse(asOf)
	if err != nil {
		return dates.Day{}, fmt.Errorf("parse --as-of: %w", err)
	}
	return day, nil
}

func runInit(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	actor := fs.String("actor", "", "Actor recorded on audit events")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(workspacePath) == "" {
		return fmt.Errorf("--workspace is required")
	}

	root, err := workspace.ResolveRoot(workspacePath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("create workspace root: %w", err)
	}
	ws, err := workspace.Resolve(root)
	if err != nil {
		return err
	}
	if err := ws.EnsureDirs(); err != nil {
		return err
	}

	if _, err := os.Stat(ws.ConfigPath); os.IsNotExist(err) {
		cfg := config.Default()
		cfg.Actor = *actor
		if err := config.Save(ws.ConfigPath, cfg); err != nil {
			return err
		}
	} else if err != nil {
		return fmt.Errorf("stat config: %w", err)
	}

	st, err := store.Open(ws.DBPath)
	if err != nil {
		return err
	}
	if err := st.Close(); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Initialized workspace: %s\n", ws.Root)
	fmt.Fprintln(os.Stdout, "Next steps:")
	fmt.Fprintf(os.Stdout, "  %s metric add --workspace %s --name \"Weekly Revenue\" --goal 10000\n", appName, ws.Root)
	fmt.Fprintf(os.Stdout, "  %s score set --workspace %s --metric \"Weekly Revenue\" --date 2026-01-05 --value 12500\n", appName, ws.Root)
	fmt.Fprintf(os.Stdout, "  %s view --workspace %s\n", appName, ws.Root)
	return nil
}

func runMetric(args []string, workspacePath string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		return fmt.Errorf("%s metric: missing subcommand (add, list, archive)", appName)
	}
	switch args[0] {
	case "add":
		return runMetricAdd(args[1:], workspacePath)
	case "list":
		return runMetricList(args[1:], workspacePath)
	case "archive":
		return runMetricArchive(args[1:], workspacePath)
	default:
		return fmt.Errorf("%s metric: unknown subcommand %q", appName, args[0])
	}
}

func runMetricAdd(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("metric add", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	name := fs.String("name", "", "Metric name")
	periodType := fs.String("type", "weekly", "Metric cadence (weekly, monthly, quarterly)")
	valueType := fs.String("value-type", "number", "Value type (number, currency, percentage)")
	goalStr := fs.String("goal", "", "Default goal value (empty for no goal)")
	op := fs.String("op", "greater_equal", "Comparison operator (greater_equal, greater, less_equal, less, equal)")
	summaryType := fs.String("summary", "weekly_avg", "Summary strategy (weekly_avg, monthly_avg, quarterly_avg, quarterly_total, latest_value)")
	owner := fs.String("owner", "", "Optional owner id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*name) == "" {
		return fmt.Errorf("--name is required")
	}

	var goal *float64
	if *goalStr != "" {
		v, err := parseFloatFlag(*goalStr, "--goal")
		if err != nil {
			return err
		}
		goal = &v
	}

	e, err := openEnv(workspacePath)
	if err != nil {
		return err
	}
	defer e.Close()

	metric, err := e.Store.AddMetric(scorecard.Metric{
		Name:        strings.TrimSpace(*name),
		Type:        scorecard.ParsePeriodType(*periodType),
		ValueType:   scorecard.ParseValueType(*valueType),
		Goal:        goal,
		CompareOp:   scorecard.ParseCompareOp(*op),
		SummaryType: scorecard.ParseSummaryType(*summaryType),
		OwnerID:     *owner,
	})
	if err != nil {
		return err
	}
	e.logEvent(audit.EventMetricAdded, metric.ID, map[string]any{
		"name": metric.Name,
		"type": string(metric.Type),
		"goal": goal,
	})

	fmt.Fprintf(os.Stdout, "Added metric %s (%s)\n", metric.Name, metric.ID)
	return nil
}

func runMetricList(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("metric list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	includeArchived := fs.Bool("archived", false, "Include archived metrics")
	if err := fs.Parse(args); err != nil {
		return err
	}

	e, err := openEnv(workspacePath)
	if err != nil {
		return err
	}
	defer e.Close()

	metrics, err := e.Store.ListMetrics()
	if err != nil {
		return err
	}
	for _, m := range metrics {
		if m.Archived && !*includeArchived {
			continue
		}
		status := ""
		if m.Archived {
			status = " [archived]"
		}
		fmt.Fprintf(os.Stdout, "%s  %s  %s  goal=%s%s\n",
			m.ID, m.Name, m.Type, scorecard.FormatGoal(m.Goal, m.ValueType), status)
	}
	return nil
}

func runMetricArchive(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("metric archive", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	metricRef := fs.String("metric", "", "Metric id or name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	e, err := openEnv(workspacePath)
	if err != nil {
		return err
	}
	defer e.Close()

	metric, err := e.findMetric(*metricRef)
	if err != nil {
		return err
	}
	if err := e.Store.ArchiveMetric(metric.ID); err != nil {
		return err
	}
	e.logEvent(audit.EventMetricArchived, metric.ID, map[string]any{"name": metric.Name})

	fmt.Fprintf(os.Stdout, "Archived metric %s\n", metric.Name)
	return nil
}

func runScore(args []string, workspacePath string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		return fmt.Errorf("%s score: missing subcommand (set, list, delete)", appName)
	}
	switch args[0] {
	case "set":
		return runScoreSet(args[1:], workspacePath)
	case "list":
		return runScoreList(args[1:], workspacePath)
	case "delete":
		return runScoreDelete(args[1:], workspacePath)
	default:
		return fmt.Errorf("%s score: unknown subcommand %q", appName, args[0])
	}
}

func runScoreSet(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("score set", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	metricRef := fs.String("metric", "", "Metric id or name")
	dateStr := fs.String("date", "", "Observation date (YYYY-MM-DD)")
	valueStr := fs.String("value", "", "Observed value (empty records a cell with no number)")
	note := fs.String("note", "", "Optional note")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dateStr == "" {
		return fmt.Errorf("--date is required")
	}
	day, err := dates.Parse(*dateStr)
	if err != nil {
		return fmt.Errorf("parse --date: %w", err)
	}

	// An empty --value stores a null observation: the cell exists but has
	// no number. "0" stores a real zero.
	var value *float64
	if *valueStr != "" {
		v, err := parseFloatFlag(*valueStr, "--value")
		if err != nil {
			return err
		}
		value = &v
	}

	e, err := openEnv(workspacePath)
	if err != nil {
		return err
	}
	defer e.Close()

	metric, err := e.findMetric(*metricRef)
	if err != nil {
		return err
	}
	if err := e.Store.SetScore(metric.ID, day, value, *note); err != nil {
		return err
	}
	e.logEvent(audit.EventScoreSet, metric.ID, map[string]any{
		"date":  day.String(),
		"value": value,
	})

	fmt.Fprintf(os.Stdout, "Recorded %s for %s on %s\n",
		scorecard.FormatValue(value, metric.ValueType), metric.Name, day)
	return nil
}

func runScoreList(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("score list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	metricRef := fs.String("metric", "", "Metric id or name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	e, err := openEnv(workspacePath)
	if err != nil {
		return err
	}
	defer e.Close()

	metric, err := e.findMetric(*metricRef)
	if err != nil {
		return err
	}
	scores, err := e.Store.ListScores(metric.ID)
	if err != nil {
		return err
	}
	for _, row := range scores {
		fmt.Fprintf(os.Stdout, "%s  %s", row.Date, scorecard.FormatValue(row.Value, metric.ValueType))
		if row.Note != "" {
			fmt.Fprintf(os.Stdout, "  %q", row.Note)
		}
		fmt.Fprintln(os.Stdout)
	}
	return nil
}

func runScoreDelete(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("score delete", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	metricRef := fs.String("metric", "", "Metric id or name")
	dateStr := fs.String("date", "", "Observation date (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dateStr == "" {
		return fmt.Errorf("--date is required")
	}
	day, err := dates.Parse(*dateStr)
	if err != nil {
		return fmt.Errorf("parse --date: %w", err)
	}

	e, err := openEnv(workspacePath)
	if err != nil {
		return err
	}
	defer e.Close()

	metric, err := e.findMetric(*metricRef)
	if err != nil {
		return err
	}
	if err := e.Store.DeleteScore(metric.ID, day); err != nil {
		return err
	}
	e.logEvent(audit.EventScoreSet, metric.ID, map[string]any{
		"date":    day.String(),
		"deleted": true,
	})

	fmt.Fprintf(os.Stdout, "Deleted score for %s on %s\n", metric.Name, day)
	return nil
}

func runGoal(args []string, workspacePath string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		return fmt.Errorf("%s goal: missing subcommand (set, clear, default)", appName)
	}
	switch args[0] {
	case "set":
		return runGoalSet(args[1:], workspacePath)
	case "clear":
		return runGoalClear(args[1:], workspacePath)
	case "default":
		return runGoalDefault(args[1:], workspacePath)
	default:
		return fmt.Errorf("%s goal: unknown subcommand %q", appName, args[0])
	}
}

func runGoalSet(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("goal set", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	metricRef := fs.String("metric", "", "Metric id or name")
	bucketStr := fs.String("bucket", "", "Bucket start date (YYYY-MM-DD)")
	goalStr := fs.String("goal", "", "Override goal value")
	minStr := fs.String("min", "", "Range lower bound")
	maxStr := fs.String("max", "", "Range upper bound")
	notes := fs.String("notes", "", "Optional override notes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *bucketStr == "" {
		return fmt.Errorf("--bucket is required")
	}
	bucketStart, err := dates.Parse(*bucketStr)
	if err != nil {
		return fmt.Errorf("parse --bucket: %w", err)
	}

	goal := scorecard.CustomGoal{Notes: *notes}
	if *goalStr != "" {
		v, err := parseFloatFlag(*goalStr, "--goal")
		if err != nil {
			return err
		}
		goal.Goal = &v
	}
	if *minStr != "" {
		v, err := parseFloatFlag(*minStr, "--min")
		if err != nil {
			return err
		}
		goal.Min = &v
	}
	if *maxStr != "" {
		v, err := parseFloatFlag(*maxStr, "--max")
		if err != nil {
			return err
		}
		goal.Max = &v
	}
	if goal.Min != nil && goal.Max != nil && *goal.Min > *goal.Max {
		return fmt.Errorf("--min must not exceed --max")
	}

	e, err := openEnv(workspacePath)
	if err != nil {
		return err
	}
	defer e.Close()

	metric, err := e.findMetric(*metricRef)
	if err != nil {
		return err
	}
	if err := e.Store.SetCustomGoal(metric.ID, bucketStart, goal); err != nil {
		return err
	}
	e.logEvent(audit.EventCustomGoalSet, metric.ID, map[string]any{
		"bucket_start": bucketStart.String(),
		"goal":         goal.Goal,
		"min":          goal.Min,
		"max":          goal.Max,
	})

	fmt.Fprintf(os.Stdout, "Set goal override for %s on bucket %s\n", metric.Name, bucketStart)
	return nil
}

func runGoalClear(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("goal clear", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	metricRef := fs.String("metric", "", "Metric id or name")
	bucketStr := fs.String("bucket", "", "Bucket start date (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *bucketStr == "" {
		return fmt.Errorf("--bucket is required")
	}
	bucketStart, err := dates.Parse(*bucketStr)
	if err != nil {
		return fmt.Errorf("parse --bucket: %w", err)
	}

	e, err := openEnv(workspacePath)
	if err != nil {
		return err
	}
	defer e.Close()

	metric, err := e.findMetric(*metricRef)
	if err != nil {
		return err
	}
	if err := e.Store.ClearCustomGoal(metric.ID, bucketStart); err != nil {
		return err
	}
	e.logEvent(audit.EventCustomGoalSet, metric.ID, map[string]any{
		"bucket_start": bucketStart.String(),
		"cleared":      true,
	})

	fmt.Fprintf(os.Stdout, "Cleared goal override for %s on bucket %s\n", metric.Name, bucketStart)
	return nil
}

func runGoalDefault(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("goal default", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	metricRef := fs.String("metric", "", "Metric id or name")
	goalStr := fs.String("goal", "", "New default goal value (empty clears the goal)")
	op := fs.String("op", "", "Comparison operator (empty keeps the current one)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var goal *float64
	if *goalStr != "" {
		v, err := parseFloatFlag(*goalStr, "--goal")
		if err != nil {
			return err
		}
		goal = &v
	}

	e, err := openEnv(workspacePath)
	if err != nil {
		return err
	}
	defer e.Close()

	metric, err := e.findMetric(*metricRef)
	if err != nil {
		return err
	}
	newOp := metric.CompareOp
	if *op != "" {
		newOp = scorecard.ParseCompareOp(*op)
	}
	if err := e.Store.UpdateMetricGoal(metric.ID, goal, newOp); err != nil {
		return err
	}
	e.logEvent(audit.EventGoalUpdated, metric.ID, map[string]any{
		"goal": goal,
		"op":   string(newOp),
	})

	fmt.Fprintf(os.Stdout, "Updated default goal for %s: %s %s\n",
		metric.Name, newOp, scorecard.FormatGoal(goal, metric.ValueType))
	return nil
}

// viewFlags are the shared knobs for commands that compute a view. Config
// values act as defaults; flags override per invocation.
type viewFlags struct {
	asOf           *string
	periodType     *string
	timePeriod     *string
	showHistorical *bool
	meeting        *bool
	periods        *int
	reversed       *bool
	snapshotPath   *string
}

func addViewFlags(fs *flag.FlagSet) *viewFlags {
	return &viewFlags{
		asOf:           fs.String("as-of", "", "Evaluation date (YYYY-MM-DD, default: today UTC)"),
		periodType:     fs.String("period", "", "Metric cadence to show (weekly, monthly, quarterly)"),
		timePeriod:     fs.String("time-period", "", "Summary window (current_quarter, last_4_weeks, 13_week_rolling)"),
		showHistorical: fs.Bool("show-historical", false, "Widen the view back to the earliest observation"),
		meeting:        fs.Bool("meeting", false, "Compact meeting view with a fixed trailing bucket count"),
		periods:        fs.Int("periods", 0, "Trailing bucket count for meeting view (default from config)"),
		reversed:       fs.Bool("reversed", false, "Order buckets newest first"),
		snapshotPath:   fs.String("snapshot", "", "Compute from a snapshot file instead of the workspace database"),
	}
}

func (vf *viewFlags) buildView(fs *flag.FlagSet, e *env) (*scorecard.ViewModel, *scorecard.Snapshot, error) {
	seen := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { seen[f.Name] = true })

	today, err := parseAsOf(*vf.asOf)
	if err != nil {
		return nil, nil, err
	}

	cfg := e.Config
	periodType := scorecard.ParsePeriodType(cfg.PeriodType)
	if seen["period"] {
		periodType = scorecard.ParsePeriodType(*vf.periodType)
	}
	timePeriod := scorecard.ParseTimePeriod(cfg.TimePeriod)
	if seen["time-period"] {
		timePeriod = scorecard.ParseTimePeriod(*vf.timePeriod)
	}
	showHistorical := cfg.ShowHistorical
	if seen["show-historical"] {
		showHistorical = *vf.showHistorical
	}

	var snap *scorecard.Snapshot
	if *vf.snapshotPath != "" {
		path, err := e.Workspace.ResolvePath(*vf.snapshotPath)
		if err != nil {
			return nil, nil, fmt.Errorf("resolve --snapshot: %w", err)
		}
		snap, err = snapshot.Load(path)
		if err != nil {
			return nil, nil, err
		}
		if seen["as-of"] {
			snap.Today = today
		}
		if seen["period"] {
			snap.PeriodType = periodType
		}
		if seen["time-period"] {
			snap.TimePeriod = timePeriod
		}
		if seen["show-historical"] {
			snap.ShowHistorical = showHistorical
		}
	} else {
		snap, err = e.Store.LoadSnapshot(store.SnapshotOptions{
			Today:          today,
			PeriodType:     periodType,
			TimePeriod:     timePeriod,
			ShowHistorical: showHistorical,
		})
		if err != nil {
			return nil, nil, err
		}
	}

	opts := scorecard.ViewOptions{Mode: scorecard.ModeStandard}
	if *vf.meeting {
		opts.Mode = scorecard.ModeMeeting
		opts.MeetingPeriods = cfg.MeetingPeriods
		if seen["periods"] {
			opts.MeetingPeriods = *vf.periods
		}
	}
	opts.Reversed = cfg.ReversedDisplay
	if seen["reversed"] {
		opts.Reversed = *vf.reversed
	}

	vm, err := scorecard.BuildView(snap, opts)
	if err != nil {
		return nil, nil, err
	}
	return vm, snap, nil
}

func runView(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("view", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	vf := addViewFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	e, err := openEnv(workspacePath)
	if err != nil {
		return err
	}
	defer e.Close()

	vm, _, err := vf.buildView(fs, e)
	if err != nil {
		return err
	}
	fmt.Fprint(os.Stdout, report.Render(vm))
	return nil
}

func runSummary(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("summary", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	vf := addViewFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	e, err := openEnv(workspacePath)
	if err != nil {
		return err
	}
	defer e.Close()

	vm, _, err := vf.buildView(fs, e)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Window: %s to %s\n", vm.Window.From, vm.Window.To)
	for _, m := range vm.Metrics {
		sum := vm.Summaries[m.ID]
		trend := vm.Trends[m.ID]
		fmt.Fprintf(os.Stdout, "%s: %s (goal %s %s, met=%t) trend=%s\n",
			m.Name,
			scorecard.FormatValue(sum.Value, m.ValueType),
			m.CompareOp,
			scorecard.FormatGoal(m.Goal, m.ValueType),
			sum.GoalMet,
			scorecard.FormatTrend(trend))
	}
	return nil
}

func runImport(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	filePath := fs.String("file", "", "CSV file to import")
	periodType := fs.String("type", "weekly", "Cadence assigned to created metrics")
	dryRun := fs.Bool("dry-run", false, "Parse and report without writing")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *filePath == "" {
		return fmt.Errorf("--file is required")
	}

	e, err := openEnv(workspacePath)
	if err != nil {
		return err
	}
	defer e.Close()

	path, err := e.Workspace.ResolvePath(*filePath)
	if err != nil {
		return fmt.Errorf("resolve --file: %w", err)
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open import file: %w", err)
	}
	defer f.Close()

	result, err := importer.Parse(f)
	if err != nil {
		return err
	}
	for _, w := range result.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}
	if *dryRun {
		fmt.Fprintf(os.Stdout, "Parsed %d rows (%d warnings), nothing written\n",
			len(result.Rows), len(result.Warnings))
		return nil
	}

	created, scored := 0, 0
	for _, row := range result.Rows {
		metric, ok, err := e.Store.FindMetricByName(row.Name)
		if err != nil {
			return err
		}
		if !ok {
			metric, err = e.Store.AddMetric(scorecard.Metric{
				Name:      row.Name,
				Type:      scorecard.ParsePeriodType(*periodType),
				Goal:      row.Goal,
				CompareOp: row.CompareOp,
			})
			if err != nil {
				return err
			}
			created++
		}
		for day, value := range row.Scores {
			v := value
			if err := e.Store.SetScore(metric.ID, day, &v, ""); err != nil {
				return err
			}
			scored++
		}
	}
	e.logEvent(audit.EventImport, "", map[string]any{
		"file":            path,
		"rows":            len(result.Rows),
		"metrics_created": created,
		"scores_written":  scored,
		"warnings":        len(result.Warnings),
	})

	fmt.Fprintf(os.Stdout, "Imported %d rows: %d metrics created, %d scores written\n",
		len(result.Rows), created, scored)
	return nil
}

func runExport(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	outPath := fs.String("out", "", "Output path (default: <workspace>/snapshots/<as-of>.json)")
	asOfStr := fs.String("as-of", "", "Snapshot evaluation date (YYYY-MM-DD, default: today UTC)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	today, err := parseAsOf(*asOfStr)
	if err != nil {
		return err
	}

	e, err := openEnv(workspacePath)
	if err != nil {
		return err
	}
	defer e.Close()

	snap, err := e.Store.LoadSnapshot(store.SnapshotOptions{
		Today:          today,
		PeriodType:     scorecard.ParsePeriodType(e.Config.PeriodType),
		TimePeriod:     scorecard.ParseTimePeriod(e.Config.TimePeriod),
		ShowHistorical: e.Config.ShowHistorical,
	})
	if err != nil {
		return err
	}

	path := *outPath
	if path == "" {
		path = filepath.Join(e.Workspace.SnapshotsDir, today.String()+".json")
	} else {
		path, err = e.Workspace.ResolvePath(path)
		if err != nil {
			return fmt.Errorf("resolve --out: %w", err)
		}
	}
	if err := snapshot.Write(path, snap); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Wrote snapshot: %s\n", path)
	return nil
}

func runCompare(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("compare", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	vf := addViewFlags(fs)
	baseline := fs.String("baseline", "", "Baseline snapshot file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *baseline == "" {
		return fmt.Errorf("--baseline is required")
	}

	e, err := openEnv(workspacePath)
	if err != nil {
		return err
	}
	defer e.Close()

	basePath, err := e.Workspace.ResolvePath(*baseline)
	if err != nil {
		return fmt.Errorf("resolve --baseline: %w", err)
	}
	baseSnap, err := snapshot.Load(basePath)
	if err != nil {
		return err
	}
	baseVM, err := scorecard.BuildView(baseSnap, scorecard.ViewOptions{Mode: scorecard.ModeStandard})
	if err != nil {
		return fmt.Errorf("baseline: %w", err)
	}

	currentVM, _, err := vf.buildView(fs, e)
	if err != nil {
		return err
	}

	diff, err := report.Compare(baseVM, currentVM, "baseline", "current")
	if err != nil {
		return err
	}
	if diff == "" {
		fmt.Fprintln(os.Stdout, "No differences")
		return nil
	}
	fmt.Fprint(os.Stdout, diff)
	return nil
}

func runValidate(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	snapshotPath := fs.String("snapshot", "", "Validate a snapshot file instead of the workspace database")
	if err := fs.Parse(args); err != nil {
		return err
	}

	e, err := openEnv(workspacePath)
	if err != nil {
		return err
	}
	defer e.Close()

	var snap *scorecard.Snapshot
	if *snapshotPath != "" {
		path, err := e.Workspace.ResolvePath(*snapshotPath)
		if err != nil {
			return fmt.Errorf("resolve --snapshot: %w", err)
		}
		snap, err = snapshot.Load(path)
		if err != nil {
			return err
		}
	} else {
		snap, err = e.Store.LoadSnapshot(store.SnapshotOptions{
			Today:      todayUTC(),
			PeriodType: scorecard.ParsePeriodType(e.Config.PeriodType),
			TimePeriod: scorecard.ParseTimePeriod(e.Config.TimePeriod),
		})
		if err != nil {
			return err
		}
	}

	if errs := scorecard.ValidateSnapshot(snap); len(errs) > 0 {
		return errs
	}
	fmt.Fprintln(os.Stdout, "OK")
	return nil
}

func parseFloatFlag(s, name string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}
	return v, nil
}
