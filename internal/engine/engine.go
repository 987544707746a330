// Package engine is the single entrypoint the statement loop calls once
// per Collecting→Executing transition (spec.md §4.7): parse the
// accumulated text and run it against the session's executor.
package engine

import (
	"github.com/zakazai/flatsql/internal/exec"
	"github.com/zakazai/flatsql/internal/parser"
	"github.com/zakazai/flatsql/internal/session"
)

// Engine ties one session's storage to the parser.
type Engine struct {
	Sess *session.Session
	exec *exec.Executor
}

func New(sess *session.Session) *Engine {
	return &Engine{Sess: sess, exec: exec.New(sess)}
}

// Run parses and executes one full statement's accumulated text.
func (g *Engine) Run(text string) (*exec.Result, error) {
	stmt, err := parser.Parse(text)
	if err != nil {
		return nil, err
	}
	g.Sess.Log.Debugf("executing statement: %s", text)
	res, err := g.exec.Execute(stmt)
	if err != nil {
		g.Sess.Log.Warnf("statement failed: %v", err)
		return nil, err
	}
	return res, nil
}
