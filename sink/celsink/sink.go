// Package celsink filters hub entries with a CEL expression before handing
// them to another sink.
//
// The expression sees these variables:
//
//	level       int     numeric level (TRACE, INFO, WARN, ERROR constants)
//	level_name  string  "trace", "info", ...
//	log_id      string
//	template    string  message template before expansion
//	seq         int
//	ts_ms       int     entry time in Unix milliseconds
//	has_error   bool
//	error       string  error message, empty without an error
//	fields      map     every structured field keyed by name
//	message     string  the shared rendering
//
// fields and message are computed only when the expression reads them, so a
// filter on level or log_id never forces the rendering.
package celsink

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"

	"github.com/trickstertwo/loghub"
)

// ErrEmptyExpression is returned by New for a blank expression.
var ErrEmptyExpression = errors.New("celsink: empty expression")

// Sink forwards entries for which the expression evaluates to true.
type Sink struct {
	expr  string
	prog  cel.Program
	next  loghub.Sink
	onErr func(error)
}

// New compiles expr and wraps next. The expression must evaluate to a bool.
func New(expr string, next loghub.Sink) (*Sink, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, ErrEmptyExpression
	}
	if next == nil {
		return nil, errors.New("celsink: nil downstream sink")
	}
	env, err := cel.NewEnv(
		cel.Variable("level", cel.IntType),
		cel.Variable("level_name", cel.StringType),
		cel.Variable("log_id", cel.StringType),
		cel.Variable("template", cel.StringType),
		cel.Variable("seq", cel.IntType),
		cel.Variable("ts_ms", cel.IntType),
		cel.Variable("has_error", cel.BoolType),
		cel.Variable("error", cel.StringType),
		cel.Variable("fields", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("message", cel.StringType),
		cel.Constant("TRACE", cel.IntType, types.Int(loghub.LevelTrace)),
		cel.Constant("INFO", cel.IntType, types.Int(loghub.LevelInfo)),
		cel.Constant("WARN", cel.IntType, types.Int(loghub.LevelWarn)),
		cel.Constant("ERROR", cel.IntType, types.Int(loghub.LevelError)),
	)
	if err != nil {
		return nil, fmt.Errorf("celsink: env: %w", err)
	}
	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("celsink: compile %q: %w", expr, iss.Err())
	}
	if t := ast.OutputType(); !t.IsExactType(cel.BoolType) && !t.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("celsink: %q yields %s, want bool", expr, t)
	}
	prog, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("celsink: program: %w", err)
	}
	return &Sink{expr: expr, prog: prog, next: next, onErr: func(error) {}}, nil
}

// WithErrorHandler sets a callback for evaluation errors. An entry whose
// evaluation fails is not forwarded.
func (s *Sink) WithErrorHandler(fn func(error)) *Sink {
	if fn != nil {
		s.onErr = fn
	}
	return s
}

// Expr returns the compiled expression.
func (s *Sink) Expr() string { return s.expr }

func (s *Sink) Name() string { return "cel(" + loghub.SinkName(s.next) + ")" }

// Match evaluates the expression against one entry.
func (s *Sink) Match(e *loghub.Entry, r *loghub.Rendering) (bool, error) {
	var errText string
	if err := e.Err(); err != nil {
		errText = err.Error()
	}
	out, _, err := s.prog.Eval(map[string]any{
		"level":      int64(e.Level()),
		"level_name": e.Level().String(),
		"log_id":     e.LogID(),
		"template":   e.Template(),
		"seq":        int64(e.Seq()),
		"ts_ms":      e.Time().UnixMilli(),
		"has_error":  e.Err() != nil,
		"error":      errText,
		"fields":     func() any { return fieldMap(e) },
		"message": func() any {
			text, err := r.Text()
			if err != nil {
				return e.Message()
			}
			return text
		},
	})
	if err != nil {
		return false, err
	}
	b, ok := out.Value().(bool)
	return ok && b, nil
}

func (s *Sink) Handle(e *loghub.Entry, r *loghub.Rendering) {
	ok, err := s.Match(e, r)
	if err != nil {
		s.onErr(fmt.Errorf("celsink: seq %d: %w", e.Seq(), err))
		return
	}
	if ok {
		s.next.Handle(e, r)
	}
}

// OnLevelChange forwards to the downstream sink.
func (s *Sink) OnLevelChange(c loghub.LevelChange) {
	if lo, ok := s.next.(loghub.LevelObserver); ok {
		lo.OnLevelChange(c)
	}
}

// Close closes the downstream sink when it is an io.Closer.
func (s *Sink) Close() error {
	if c, ok := s.next.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func fieldMap(e *loghub.Entry) map[string]any {
	fields := e.AllFields()
	m := make(map[string]any, len(fields))
	for _, f := range fields {
		switch f.Kind {
		case loghub.KindAny:
			m[f.K] = fmt.Sprint(f.Any)
		default:
			m[f.K] = f.Value()
		}
	}
	return m
}
