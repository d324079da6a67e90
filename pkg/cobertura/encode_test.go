package cobertura_test

import (
	"bytes"
	"encoding/xml"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/covxml/pkg/cobertura"
)

func sampleDocument() *cobertura.Document {
	return &cobertura.Document{
		Timestamp:       1700000000000,
		LinesValid:      3,
		LinesCovered:    2,
		LineRate:        "0.6667",
		BranchesValid:   4,
		BranchesCovered: 3,
		BranchRate:      "0.75",
		Sources:         []cobertura.Source{{Path: "./src"}},
		Packages: []cobertura.Package{
			{
				Name:       "src",
				LineRate:   "0.6667",
				BranchRate: "0.75",
				Classes: []cobertura.Class{
					{
						Name:       "src.a.py",
						Filename:   "./src/a.py",
						LineRate:   "0.6667",
						BranchRate: "0.75",
						Lines: []cobertura.Line{
							{Number: 1, Hits: 1},
							{Number: 2, Hits: 1, Branch: true, ConditionCoverage: "75% (3/4)", MissingBranches: "5,exit"},
							{Number: 5, Hits: 0},
						},
					},
				},
			},
		},
	}
}

func TestEncodeLayout(t *testing.T) {
	t.Parallel()

	out, err := cobertura.Marshal(sampleDocument())
	require.NoError(t, err)

	expected := `<?xml version="1.0" ?>
<coverage version="1.0" timestamp="1700000000000" lines-valid="3" lines-covered="2" line-rate="0.6667" branches-valid="4" branches-covered="3" branch-rate="0.75" complexity="0">
	<!-- Based on https://raw.githubusercontent.com/cobertura/web/master/htdocs/xml/coverage-04.dtd -->
	<sources>
		<source>./src</source>
	</sources>
	<packages>
		<package name="src" line-rate="0.6667" branch-rate="0.75" complexity="0">
			<classes>
				<class name="src.a.py" filename="./src/a.py" complexity="0" line-rate="0.6667" branch-rate="0.75">
					<methods/>
					<lines>
						<line number="1" hits="1"/>
						<line number="2" hits="1" branch="true" condition-coverage="75% (3/4)" missing-branches="5,exit"/>
						<line number="5" hits="0"/>
					</lines>
				</class>
			</classes>
		</package>
	</packages>
</coverage>
`
	assert.Equal(t, expected, string(out))
}

func TestEncodeIsWellFormed(t *testing.T) {
	t.Parallel()

	doc := sampleDocument()
	doc.Packages[0].Classes[0].Filename = `./src/<weird> & "odd".py`

	out, err := cobertura.Marshal(doc)
	require.NoError(t, err)

	var parsed struct {
		XMLName  xml.Name `xml:"coverage"`
		Packages []struct {
			Name    string `xml:"name,attr"`
			Classes []struct {
				Filename string `xml:"filename,attr"`
				Lines    []struct {
					Number int `xml:"number,attr"`
				} `xml:"lines>line"`
			} `xml:"classes>class"`
		} `xml:"packages>package"`
	}
	require.NoError(t, xml.Unmarshal(out, &parsed))

	require.Len(t, parsed.Packages, 1)
	require.Len(t, parsed.Packages[0].Classes, 1)
	assert.Equal(t, `./src/<weird> & "odd".py`, parsed.Packages[0].Classes[0].Filename)
	assert.Len(t, parsed.Packages[0].Classes[0].Lines, 3)
}

func TestEncodeEmptyDocument(t *testing.T) {
	t.Parallel()

	doc := &cobertura.Document{LineRate: "1", BranchRate: "0"}
	out, err := cobertura.Marshal(doc)
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, `version="1.0"`)
	assert.Contains(t, text, "<sources/>")
	assert.Contains(t, text, "<packages/>")
	assert.True(t, strings.HasSuffix(text, "</coverage>\n"))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestEncodeWriteError(t *testing.T) {
	t.Parallel()

	err := cobertura.Encode(failingWriter{}, sampleDocument())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestEncodeDeterministic(t *testing.T) {
	t.Parallel()

	var first, second bytes.Buffer
	require.NoError(t, cobertura.Encode(&first, sampleDocument()))
	require.NoError(t, cobertura.Encode(&second, sampleDocument()))
	assert.Equal(t, first.String(), second.String())
}
