// Package session holds the per-process state described in the data
// model: the current database directory, the quiet and subselect flags,
// and the name of the table a single-table statement is running against.
// It also owns the scratch-file namespace used by joins, sorts, and
// DISTINCT.
package session

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/zakazai/flatsql/internal/enginerr"
	"github.com/zakazai/flatsql/internal/logging"
	"github.com/zakazai/flatsql/internal/storage"
)

// Session is the state that lives for one process, per spec.md §3
// "Session values" and §5's scratch-file discipline.
type Session struct {
	Store *storage.Store
	Dir   string
	Quiet bool
	Log   *logging.Logger

	// Subselect is set while a nested SELECT is executing. Nothing in the
	// core reads it: a nested run's rows go back to the enclosing
	// predicate and are never printed, so they carry no header or
	// row-count chrome in any case.
	Subselect bool
	// CurrentTable is set while a single-table statement (UPDATE/DELETE)
	// executes. The predicate compiler does not read it; it resolves bare
	// names through the schema it is given.
	CurrentTable string

	scratchRoot string
}

// Open validates dir (resolved via ResolveDir) and constructs a Session
// rooted at it, with its own scratch namespace for the process lifetime.
func Open(dirArg string, quiet bool, log *logging.Logger) (*Session, error) {
	dir, err := ResolveDir(dirArg)
	if err != nil {
		return nil, err
	}
	scratchRoot, err := os.MkdirTemp("", "flatsql-")
	if err != nil {
		return nil, enginerr.IOErrorf(err, "creating scratch root")
	}
	if log == nil {
		log = logging.New(logging.Info, nil)
	}
	return &Session{
		Store:       storage.New(dir),
		Dir:         dir,
		Quiet:       quiet,
		Log:         log,
		scratchRoot: scratchRoot,
	}, nil
}

// Close removes the session's scratch root. Any leftover per-statement
// scratch directories (e.g. from a killed process) live under it and are
// removed too.
func (s *Session) Close() error {
	return os.RemoveAll(s.scratchRoot)
}

// NewStatementScratch allocates a fresh scratch namespace for one
// statement. Callers must Close it on every exit path.
func (s *Session) NewStatementScratch() (*storage.Scratch, error) {
	return storage.NewScratch(s.scratchRoot)
}

const rootEnvVar = "FLATSQL_ROOT"

// ResolveDir implements the CLI's directory resolution rule (spec.md §6):
// an absolute path, or a path that already exists relative to the current
// working directory, is used as-is. Otherwise, if it's relative, the
// root-directory environment variable is consulted and the argument is
// resolved under it. Fails with ConfigError if no candidate exists.
func ResolveDir(arg string) (string, error) {
	if arg == "" {
		return "", enginerr.ConfigErrorf("database directory argument is required")
	}
	if info, err := os.Stat(arg); err == nil {
		if !info.IsDir() {
			return "", enginerr.ConfigErrorf("%q is not a directory", arg)
		}
		return arg, nil
	}
	if filepath.IsAbs(arg) {
		return "", enginerr.ConfigErrorf("database directory %q does not exist", arg)
	}

	v := viper.New()
	v.SetEnvPrefix("FLATSQL")
	if err := v.BindEnv("root"); err != nil {
		return "", enginerr.ConfigErrorf("binding %s: %v", rootEnvVar, err)
	}
	v.AutomaticEnv()
	root := v.GetString("root")
	if root == "" {
		return "", enginerr.ConfigErrorf("database directory %q does not exist and %s is not set", arg, rootEnvVar)
	}

	candidate := filepath.Join(root, arg)
	info, err := os.Stat(candidate)
	if err != nil || !info.IsDir() {
		return "", enginerr.ConfigErrorf("database directory %q not found under %s (%q)", arg, rootEnvVar, root)
	}
	return candidate, nil
}
