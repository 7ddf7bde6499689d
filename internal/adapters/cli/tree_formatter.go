package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/andrescamacho/colony-go/internal/domain/compound"
)

// TreeFormatter renders reaction dependency trees
type TreeFormatter struct {
	resolver  *compound.Resolver
	useColors bool
}

// NewTreeFormatter creates a new tree formatter
func NewTreeFormatter(resolver *compound.Resolver, useColors bool) *TreeFormatter {
	return &TreeFormatter{
		resolver:  resolver,
		useColors: useColors,
	}
}

// FormatTree renders a dependency tree with the tier of every node
func (f *TreeFormatter) FormatTree(root *compound.Node) string {
	if root == nil {
		return "(empty tree)"
	}

	var builder strings.Builder
	f.formatNode(&builder, root, "", true, true)
	return builder.String()
}

func (f *TreeFormatter) formatNode(builder *strings.Builder, node *compound.Node, prefix string, isLast bool, isRoot bool) {
	var linePrefix string
	if isRoot {
		linePrefix = ""
	} else if isLast {
		linePrefix = prefix + "└── "
	} else {
		linePrefix = prefix + "├── "
	}

	builder.WriteString(fmt.Sprintf("%s%s [%s%s%s]\n",
		linePrefix,
		node.Compound,
		f.tierColor(node),
		f.tierText(node),
		f.colorReset(),
	))

	if node.IsLeaf() {
		return
	}
	var childPrefix string
	if isRoot {
		childPrefix = ""
	} else if isLast {
		childPrefix = prefix + "    "
	} else {
		childPrefix = prefix + "│   "
	}
	for i, child := range node.Children {
		f.formatNode(builder, child, childPrefix, i == len(node.Children)-1, false)
	}
}

func (f *TreeFormatter) tierText(node *compound.Node) string {
	if node.IsLeaf() {
		return "RAW"
	}
	tier, err := f.resolver.Tier(node.Compound)
	if err != nil {
		return "?"
	}
	return fmt.Sprintf("T%d", tier)
}

func (f *TreeFormatter) tierColor(node *compound.Node) string {
	if !f.useColors {
		return ""
	}
	if node.IsLeaf() {
		return "\033[32m" // Green
	}
	return "\033[33m" // Yellow
}

func (f *TreeFormatter) colorReset() string {
	if !f.useColors {
		return ""
	}
	return "\033[0m"
}

// FormatTreeSummary creates a compact summary of the tree
func (f *TreeFormatter) FormatTreeSummary(root *compound.Node) string {
	if root == nil {
		return "No dependency tree"
	}

	total, raw := 0, 0
	root.Walk(func(node *compound.Node, _ int) {
		total++
		if node.IsLeaf() {
			raw++
		}
	})
	return fmt.Sprintf("Tree: %d nodes (%d RAW, %d REACTION), depth=%d",
		total, raw, total-raw, root.Depth())
}

// FormatRequirements lists raw material needs, largest first
func (f *TreeFormatter) FormatRequirements(amount int, product compound.Compound, req map[compound.Compound]int) string {
	type line struct {
		c compound.Compound
		n int
	}
	lines := make([]line, 0, len(req))
	for c, n := range req {
		lines = append(lines, line{c, n})
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].n != lines[j].n {
			return lines[i].n > lines[j].n
		}
		return lines[i].c < lines[j].c
	})

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Raw materials for %d %s:\n", amount, product))
	for _, l := range lines {
		builder.WriteString(fmt.Sprintf("  %-8s %d\n", l.c, l.n))
	}
	return builder.String()
}
