package treebind

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/mafrosis/treebind/ast"
	"github.com/mafrosis/treebind/tree"
)

var (
	debug       bool
	debugLogger = newTraceLogger(os.Stderr)
)

// SetDebug toggles matcher tracing for parsers built afterwards, reporting
// to stderr. Tracing is woven in at Build time so that a parser built with
// tracing off runs the raw matchers with no indirection; flipping the flag
// does not affect existing parsers.
func SetDebug(enabled bool) { debug = enabled }

func newTraceLogger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})
	return l
}

// traceLogger returns the logger matchers report to, or nil when tracing is
// off for this parser.
func (p *Parser) traceLogger() *logrus.Logger {
	if p.trace != nil {
		return p.trace
	}
	if debug {
		return debugLogger
	}
	return nil
}

// traceNode decorates a node-tier matcher with invocation logging. The
// result is passed through untouched; tracing has no semantic effect.
func (p *Parser) traceNode(rule string, m nodeMatcher) nodeMatcher {
	log := p.traceLogger()
	if log == nil {
		return m
	}
	return func(pc *parseContext, n *tree.Node) (ast.Value, bool) {
		v, ok := m(pc, n)
		log.WithFields(logrus.Fields{
			"rule":    rule,
			"tier":    "node",
			"input":   n.Type,
			"matched": ok,
		}).Debug("match")
		return v, ok
	}
}

func (p *Parser) traceChildren(rule string, m childrenMatcher) childrenMatcher {
	log := p.traceLogger()
	if log == nil {
		return m
	}
	return func(pc *parseContext, nodes []*tree.Node) (ast.Value, bool) {
		v, ok := m(pc, nodes)
		log.WithFields(logrus.Fields{
			"rule":    rule,
			"tier":    "children",
			"nodes":   len(nodes),
			"matched": ok,
		}).Debug("match")
		return v, ok
	}
}
