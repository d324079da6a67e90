package cobertura

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	xmlHeader   = `<?xml version="1.0" ?>`
	indentUnit  = "\t"
	complexity  = "0"
	boolTrue    = "true"
	encoderSize = 64 * 1024
)

// attr is a name/value pair kept in insertion order.
type attr struct {
	name  string
	value string
}

// node is the generic element the typed tree lowers into before writing.
type node struct {
	name     string
	attrs    []attr
	children []node
	text     string
	comment  string
}

// Encode writes doc as indented XML to w.
func Encode(w io.Writer, doc *Document) error {
	bw := bufio.NewWriterSize(w, encoderSize)

	if _, err := bw.WriteString(xmlHeader + "\n"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := writeNode(bw, doc.node(), 0); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

// Marshal returns doc as indented XML.
func Marshal(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (d *Document) node() node {
	version := d.Version
	if version == "" {
		version = Version
	}

	root := node{
		name: "coverage",
		attrs: []attr{
			{"version", version},
			{"timestamp", strconv.FormatInt(d.Timestamp, 10)},
			{"lines-valid", strconv.Itoa(d.LinesValid)},
			{"lines-covered", strconv.Itoa(d.LinesCovered)},
			{"line-rate", d.LineRate},
			// Same order whether or not branches were measured; without
			// them the values are zero and branch-rate is "0".
			{"branches-valid", strconv.Itoa(d.BranchesValid)},
			{"branches-covered", strconv.Itoa(d.BranchesCovered)},
			{"branch-rate", d.BranchRate},
			{"complexity", complexity},
		},
	}

	root.children = append(root.children, node{comment: " Based on " + DTDURL + " "})

	sources := node{name: "sources"}
	for _, src := range d.Sources {
		sources.children = append(sources.children, node{name: "source", text: src.Path})
	}
	root.children = append(root.children, sources)

	packages := node{name: "packages"}
	for i := range d.Packages {
		packages.children = append(packages.children, d.Packages[i].node())
	}
	root.children = append(root.children, packages)

	return root
}

func (p *Package) node() node {
	classes := node{name: "classes"}
	for i := range p.Classes {
		classes.children = append(classes.children, p.Classes[i].node())
	}

	return node{
		name: "package",
		attrs: []attr{
			{"name", p.Name},
			{"line-rate", p.LineRate},
			{"branch-rate", p.BranchRate},
			{"complexity", complexity},
		},
		children: []node{classes},
	}
}

func (c *Class) node() node {
	lines := node{name: "lines"}
	for i := range c.Lines {
		lines.children = append(lines.children, c.Lines[i].node())
	}

	return node{
		name: "class",
		attrs: []attr{
			{"name", c.Name},
			{"filename", c.Filename},
			{"complexity", complexity},
			{"line-rate", c.LineRate},
			{"branch-rate", c.BranchRate},
		},
		children: []node{{name: "methods"}, lines},
	}
}

func (l *Line) node() node {
	attrs := []attr{
		{"number", strconv.Itoa(l.Number)},
		{"hits", strconv.Itoa(l.Hits)},
	}
	if l.Branch {
		attrs = append(attrs,
			attr{"branch", boolTrue},
			attr{"condition-coverage", l.ConditionCoverage},
		)
	}
	if l.MissingBranches != "" {
		attrs = append(attrs, attr{"missing-branches", l.MissingBranches})
	}
	return node{name: "line", attrs: attrs}
}

func writeNode(w *bufio.Writer, n node, depth int) error {
	indent := strings.Repeat(indentUnit, depth)

	if n.name == "" {
		if strings.Contains(n.comment, "--") {
			return fmt.Errorf("comment %q contains \"--\"", n.comment)
		}
		_, err := w.WriteString(indent + "<!--" + n.comment + "-->\n")
		return err
	}

	var open strings.Builder
	open.WriteString(indent + "<" + n.name)
	for _, a := range n.attrs {
		open.WriteString(" " + a.name + `="`)
		if err := xml.EscapeText(&open, []byte(a.value)); err != nil {
			return fmt.Errorf("escape %s: %w", a.name, err)
		}
		open.WriteString(`"`)
	}

	switch {
	case len(n.children) == 0 && n.text == "":
		open.WriteString("/>\n")
		_, err := w.WriteString(open.String())
		return err
	case len(n.children) == 0:
		open.WriteString(">")
		if err := xml.EscapeText(&open, []byte(n.text)); err != nil {
			return fmt.Errorf("escape %s text: %w", n.name, err)
		}
		open.WriteString("</" + n.name + ">\n")
		_, err := w.WriteString(open.String())
		return err
	}

	open.WriteString(">\n")
	if _, err := w.WriteString(open.String()); err != nil {
		return err
	}
	for _, child := range n.children {
		if err := writeNode(w, child, depth+1); err != nil {
			return err
		}
	}
	_, err := w.WriteString(indent + "</" + n.name + ">\n")
	return err
}
