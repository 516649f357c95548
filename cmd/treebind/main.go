// Command treebind inspects a grammar and binds generic syntax trees
// against it.
//
// Given only a grammar, it prints a rule report. Given a JSON-encoded
// generic tree (and optionally the source it was parsed from), it binds the
// tree to the grammar's entrypoint and prints the typed value.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/alecthomas/repr"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/mafrosis/treebind"
	"github.com/mafrosis/treebind/tree"
)

var (
	grammarFile = kingpin.Arg("grammar", "EBNF grammar file.").Required().ExistingFile()
	entrypoint  = kingpin.Flag("entrypoint", "Rule a whole-tree parse starts from.").Short('e').Required().String()
	extras      = kingpin.Flag("extra", "Token type skipped anywhere between siblings (repeatable).").Strings()
	treeFile    = kingpin.Flag("tree", "JSON-encoded generic syntax tree to bind.").ExistingFile()
	sourceFile  = kingpin.Flag("source", "Source buffer the tree's spans point into.").ExistingFile()
	debug       = kingpin.Flag("debug", "Trace matcher invocations to stderr.").Bool()
)

func main() {
	kingpin.CommandLine.Help = `Compile an EBNF grammar into typed-tree matchers.

Upper-case productions are rules, lower-case names are the external
parser's terminals, and productions starting with "_" are hidden rules
spliced inline at each reference.`
	kingpin.Parse()

	treebind.SetDebug(*debug)

	f, err := os.Open(*grammarFile)
	kingpin.FatalIfError(err, "open grammar")
	defer f.Close()

	grammar, err := treebind.FromEBNF(f, *grammarFile, *entrypoint, *extras...)
	kingpin.FatalIfError(err, "load grammar")

	parser, err := treebind.Build(grammar)
	kingpin.FatalIfError(err, "compile grammar")

	if *treeFile == "" {
		report(grammar)
		return
	}

	t, err := loadTree(*treeFile, *sourceFile)
	kingpin.FatalIfError(err, "load tree")

	value, err := parser.ParseTree(t)
	kingpin.FatalIfError(err, "parse")
	repr.Println(value)
}

func report(g *treebind.Grammar) {
	fmt.Println(g.EBNF())
	fmt.Println()
	for i, group := range g.Groups {
		fmt.Printf("group %d:\n", i)
		for _, rule := range group {
			flags := ""
			if rule.IsLeaf() {
				flags += " leaf"
			}
			if rule.Hidden {
				flags += " hidden"
			}
			if rule.Recursive {
				flags += " recursive"
			}
			fmt.Printf("  %s%s\n", rule.Name, flags)
		}
	}
}

func loadTree(treePath, sourcePath string) (*tree.Tree, error) {
	data, err := os.ReadFile(treePath)
	if err != nil {
		return nil, err
	}
	root := &tree.Node{}
	if err := json.Unmarshal(data, root); err != nil {
		return nil, fmt.Errorf("%s: %w", treePath, err)
	}
	t := &tree.Tree{Root: root, Label: treePath}
	if sourcePath != "" {
		if t.Source, err = os.ReadFile(sourcePath); err != nil {
			return nil, err
		}
		t.Label = sourcePath
	}
	return t, nil
}
