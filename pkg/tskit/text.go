package tskit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xlab/treeprint"

	"github.com/matzehuels/treeviz/pkg/errors"
)

// DrawText renders the tree as an indented outline, children in minlex
// order. Each line shows the node ID and its time.
func (t *Tree) DrawText() string {
	root := treeprint.New()
	for _, r := range t.MinlexRoots() {
		t.addTextBranch(root, r)
	}
	return root.String()
}

func (t *Tree) addTextBranch(parent treeprint.Tree, u int) {
	label := fmt.Sprintf("%d (t=%s)", u, strconv.FormatFloat(t.Time(u), 'g', 6, 64))
	if t.IsLeaf(u) {
		parent.AddNode(label)
		return
	}
	branch := parent.AddBranch(label)
	for _, c := range t.MinlexChildren(u) {
		t.addTextBranch(branch, c)
	}
}

// DrawText renders every tree with a header giving its interval.
func (ts *TreeSequence) DrawText() string {
	var b strings.Builder
	for _, t := range ts.Trees() {
		left, right := t.Interval()
		fmt.Fprintf(&b, "tree %d [%s, %s)\n", t.Index(), fmtPos(left), fmtPos(right))
		b.WriteString(t.DrawText())
	}
	return b.String()
}

// Newick returns the tree in Newick format with branch lengths printed
// to the given number of decimals. Leaves are labelled by node ID.
func (t *Tree) Newick(precision int) (string, error) {
	root := t.Root()
	if root == Null {
		return "", errors.New(errors.ErrCodeUnsupported, "newick needs a single root, tree %d has %d", t.index, len(t.roots))
	}
	var b strings.Builder
	t.writeNewick(&b, root, precision)
	b.WriteByte(';')
	return b.String(), nil
}

func (t *Tree) writeNewick(b *strings.Builder, u, precision int) {
	kids := t.MinlexChildren(u)
	if len(kids) > 0 {
		b.WriteByte('(')
		for i, c := range kids {
			if i > 0 {
				b.WriteByte(',')
			}
			t.writeNewick(b, c, precision)
		}
		b.WriteByte(')')
	} else {
		b.WriteString(strconv.Itoa(u))
	}
	if t.parent[u] != Null {
		b.WriteByte(':')
		b.WriteString(strconv.FormatFloat(t.BranchLength(u), 'f', precision, 64))
	}
}

func fmtPos(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}
