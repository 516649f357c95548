package treebind

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mafrosis/treebind/ast"
	"github.com/mafrosis/treebind/tree"
)

type memoResult struct {
	value ast.Value
	ok    bool
}

// parseContext owns the state of a single parse run: the source buffer and
// every rule's memoization cache. ParseTree constructs a fresh context per
// call, so caches are never shared across runs and concurrent parses of
// independent trees are safe by construction.
type parseContext struct {
	source   []byte
	extras   map[string]bool
	memoize  bool
	memoSize int
	memo     map[string]*lru.Cache[*tree.Node, memoResult]
}

func (p *Parser) newParseContext(source []byte) *parseContext {
	return &parseContext{
		source:   source,
		extras:   p.grammar.Extras,
		memoize:  p.memoize,
		memoSize: p.memoSize,
		memo:     map[string]*lru.Cache[*tree.Node, memoResult]{},
	}
}

// skipExtras drops leading siblings whose type the grammar declares as
// skippable (comments and the like).
func (pc *parseContext) skipExtras(nodes []*tree.Node) []*tree.Node {
	for len(nodes) > 0 && pc.extras[nodes[0].Type] {
		nodes = nodes[1:]
	}
	return nodes
}

func (pc *parseContext) memoGet(rule string, n *tree.Node) (memoResult, bool) {
	cache := pc.memo[rule]
	if cache == nil {
		return memoResult{}, false
	}
	return cache.Get(n)
}

func (pc *parseContext) memoPut(rule string, n *tree.Node, v ast.Value, ok bool) {
	cache := pc.memo[rule]
	if cache == nil {
		// memoSize is validated by MemoLimit, so New cannot fail.
		cache, _ = lru.New[*tree.Node, memoResult](pc.memoSize)
		pc.memo[rule] = cache
	}
	cache.Add(n, memoResult{value: v, ok: ok})
}
