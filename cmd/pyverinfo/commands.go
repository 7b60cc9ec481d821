package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/git-pkgs/purl"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pyverinfo/pyverinfo"
	"github.com/pyverinfo/pyverinfo/fetch"
)

const appVersion = "1.0.0"

var (
	databaseFlag string
	configFlag   string
	verbose      bool
	noCache      bool

	listCPython   bool
	listPyPy      bool
	listAll       bool
	listReleased  bool
	listSupported bool
	listNotEOL    bool

	showCPython     bool
	showPyPy        bool
	showJSON        bool
	showSubversions string

	rootCmd = &cobra.Command{
		Use:   "pyverinfo",
		Short: "Show details about Python versions",
		Long: "Show details about Python versions\n\n" +
			"Queries a database of CPython and PyPy releases for versions,\n" +
			"release dates, support status, and end-of-life dates.",
		Version:       appVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	listCmd = &cobra.Command{
		Use:   "list {major|minor|micro}",
		Short: "List known versions at the given version level",
		Args:  cobra.ExactArgs(1),
		RunE:  runList,
	}

	showCmd = &cobra.Command{
		Use:   "show VERSION",
		Short: "Show information about a Python version",
		Long: "Show information about a Python version\n\n" +
			"VERSION is a major, minor, or micro version number, or a Package\n" +
			"URL naming the implementation and version, e.g.\n" +
			"pkg:generic/cpython@3.10 or pkg:generic/pypy@7.3.5.",
		Args: cobra.ExactArgs(1),
		RunE: runShow,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&databaseFlag, "database", "d", "",
		"Fetch version information from the given database (FILE|URL)")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "",
		"Read defaults from the given config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Log fetch activity")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false,
		"Disable the on-disk HTTP cache")

	listCmd.Flags().BoolVar(&listCPython, "cpython", false,
		"List CPython versions  [default]")
	listCmd.Flags().BoolVar(&listPyPy, "pypy", false,
		"List PyPy versions")
	listCmd.Flags().BoolVarP(&listAll, "all", "a", false,
		"List all known versions")
	listCmd.Flags().BoolVarP(&listReleased, "released", "r", false,
		"List only released versions  [default]")
	listCmd.Flags().BoolVarP(&listSupported, "supported", "s", false,
		"List only supported versions")
	listCmd.Flags().BoolVarP(&listNotEOL, "not-eol", "n", false,
		"List only versions that are not end-of-life")

	showCmd.Flags().BoolVar(&showCPython, "cpython", false,
		"Show information about a CPython version  [default]")
	showCmd.Flags().BoolVar(&showPyPy, "pypy", false,
		"Show information about a PyPy version")
	showCmd.Flags().BoolVarP(&showJSON, "json", "J", false,
		"Output JSON")
	showCmd.Flags().StringVarP(&showSubversions, "subversions", "S", "released",
		"Which subversions to list (all, not-eol, released, supported)")

	rootCmd.AddCommand(listCmd, showCmd)
}

// versionInfo is the query surface shared by both families.
type versionInfo interface {
	MajorVersions() []string
	MinorVersions() []string
	MicroVersions() []string
	Subversions(v string) ([]string, error)
	ReleaseDate(v string) (time.Time, error)
	IsReleased(v string) (bool, error)
	EOLDate(v string) (pyverinfo.EOL, error)
	IsEOL(v string) (bool, error)
	IsSupported(v string) (bool, error)
}

func loadDatabase(ctx context.Context) (*pyverinfo.Database, error) {
	cfg, err := loadConfig(configFlag)
	if err != nil {
		return nil, err
	}

	source := databaseFlag
	if source == "" {
		source = cfg.Database
	}

	opts := []fetch.Option{}
	if noCache {
		opts = append(opts, fetch.WithoutCache())
	} else if cfg.CacheDir != "" {
		opts = append(opts, fetch.WithCacheDir(cfg.CacheDir))
	}
	if verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return nil, err
		}
		opts = append(opts, fetch.WithLogger(logger))
	}

	return pyverinfo.Fetch(ctx, source, fetch.NewFetcher(opts...))
}

func pickFamily(db *pyverinfo.Database, cpython, pypy bool) (versionInfo, error) {
	if cpython && pypy {
		return nil, fmt.Errorf("--cpython and --pypy are mutually exclusive")
	}
	if pypy {
		return db.PyPy, nil
	}
	return db.CPython, nil
}

func listMode() (pyverinfo.Filter, error) {
	var (
		mode pyverinfo.Filter = pyverinfo.FilterReleased
		n    int
	)
	for _, m := range []struct {
		set bool
		f   pyverinfo.Filter
	}{
		{listAll, pyverinfo.FilterAll},
		{listReleased, pyverinfo.FilterReleased},
		{listSupported, pyverinfo.FilterSupported},
		{listNotEOL, pyverinfo.FilterNotEOL},
	} {
		if m.set {
			mode = m.f
			n++
		}
	}
	if n > 1 {
		return 0, fmt.Errorf("at most one of --all, --released, --supported, --not-eol may be given")
	}
	return mode, nil
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := loadDatabase(cmd.Context())
	if err != nil {
		return err
	}
	info, err := pickFamily(db, listCPython, listPyPy)
	if err != nil {
		return err
	}
	mode, err := listMode()
	if err != nil {
		return err
	}

	var versions []string
	switch args[0] {
	case "major":
		versions = info.MajorVersions()
	case "minor":
		versions = info.MinorVersions()
	case "micro":
		versions = info.MicroVersions()
	default:
		return fmt.Errorf("invalid level %q (choose from major, minor, micro)", args[0])
	}

	versions, err = filterVersions(info, mode, versions)
	if err != nil {
		return err
	}
	for _, v := range versions {
		fmt.Fprintln(cmd.OutOrStdout(), v)
	}
	return nil
}

// filterVersions keeps the versions the mode selects, judged by the
// family's own query engine.
func filterVersions(info versionInfo, mode pyverinfo.Filter, versions []string) ([]string, error) {
	kept := make([]string, 0, len(versions))
	for _, v := range versions {
		var (
			ok  bool
			err error
		)
		switch mode {
		case pyverinfo.FilterAll:
			ok = true
		case pyverinfo.FilterReleased:
			ok, err = info.IsReleased(v)
		case pyverinfo.FilterSupported:
			ok, err = info.IsSupported(v)
		case pyverinfo.FilterNotEOL:
			ok, err = info.IsEOL(v)
			ok = !ok
		}
		if err != nil {
			return nil, err
		}
		if ok {
			kept = append(kept, v)
		}
	}
	return kept, nil
}

func runShow(cmd *cobra.Command, args []string) error {
	spec := args[0]
	cpython, pypy := showCPython, showPyPy
	if strings.HasPrefix(spec, "pkg:") {
		var err error
		spec, cpython, pypy, err = resolvePURL(spec)
		if err != nil {
			return err
		}
	}

	mode, err := pyverinfo.ParseFilter(showSubversions)
	if err != nil {
		return err
	}

	db, err := loadDatabase(cmd.Context())
	if err != nil {
		return err
	}
	info, err := pickFamily(db, cpython, pypy)
	if err != nil {
		return err
	}

	fields, err := buildFields(db, info, pypy, spec, mode)
	if err != nil {
		return err
	}
	if showJSON {
		return renderJSON(cmd.OutOrStdout(), fields)
	}
	renderText(cmd.OutOrStdout(), fields)
	return nil
}

// resolvePURL extracts the version and implementation from a Package URL.
// The package name selects the family; the type is not constrained so both
// pkg:generic/pypy@7.3.5 and pkg:pypi/cpython@3.10 work.
func resolvePURL(spec string) (version string, cpython, pypy bool, err error) {
	p, err := purl.Parse(spec)
	if err != nil {
		return "", false, false, fmt.Errorf("invalid package URL %q: %w", spec, err)
	}
	if p.Version == "" {
		return "", false, false, fmt.Errorf("package URL %q carries no version", spec)
	}
	switch strings.ToLower(p.Name) {
	case "cpython", "python":
		return p.Version, true, false, nil
	case "pypy":
		return p.Version, false, true, nil
	}
	return "", false, false, fmt.Errorf("unknown Python implementation %q in package URL", p.Name)
}
