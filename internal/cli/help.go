package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/covxml/internal/ui/pretty"
)

// flagColumnGap separates the flag column from its description.
const flagColumnGap = 3

// HelpFormatter renders Cobra help and usage with the report styles.
type HelpFormatter struct {
	styles *pretty.Styles
	flag   lipgloss.Style
}

// NewHelpFormatter creates a help formatter for the given color mode.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	colorEnabled := pretty.IsColorEnabled(colorMode, writer)
	formatter := &HelpFormatter{styles: pretty.NewStyles(colorEnabled)}
	if colorEnabled {
		formatter.flag = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	}
	return formatter
}

const usageTemplate = `{{ heading "Usage:" }}
{{- if .Runnable}}
  {{ command .UseLine }}{{end}}
{{- if .HasAvailableSubCommands}}
  {{ command .CommandPath }} [command]{{end}}
{{- if gt (len .Aliases) 0}}

{{ heading "Aliases:" }}
  {{ dim (join .Aliases ", ") }}
{{- end}}
{{- if .HasExample}}

{{ heading "Examples:" }}
{{ dim .Example }}
{{- end}}
{{- if .HasAvailableSubCommands}}

{{ heading "Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ command (pad .Name .NamePadding) }} {{ .Short }}{{end}}{{end}}
{{- end}}
{{- if .HasAvailableLocalFlags}}

{{ heading "Flags:" }}
{{ flags .LocalFlags }}
{{- end}}
{{- if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags }}
{{- end}}
{{- if .HasAvailableSubCommands}}

Use "{{ command (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`

const helpTemplate = `{{with (or .Long .Short)}}{{ trim . }}

{{end}}` + usageTemplate

// funcs returns the template functions used by the help templates.
func (h *HelpFormatter) funcs() template.FuncMap {
	return template.FuncMap{
		"heading": h.styles.SummaryTitle.Render,
		"command": h.styles.Package.Render,
		"dim":     h.styles.Dim.Render,
		"flags":   h.renderFlags,
		"join":    strings.Join,
		"pad":     runewidth.FillRight,
		"trim":    trimTrailingSpace,
	}
}

// renderFlags lays out a flag set as two aligned columns.
func (h *HelpFormatter) renderFlags(flagSet *pflag.FlagSet) string {
	type row struct {
		name  string
		width int
		usage string
	}

	var rows []row
	widest := 0

	flagSet.VisitAll(func(flag *pflag.Flag) {
		if flag.Hidden {
			return
		}

		varName, usage := pflag.UnquoteUsage(flag)
		name := "    --" + flag.Name
		styled := "    " + h.flag.Render("--"+flag.Name)
		if flag.Shorthand != "" {
			name = "-" + flag.Shorthand + ", --" + flag.Name
			styled = h.flag.Render("-"+flag.Shorthand) + ", " + h.flag.Render("--"+flag.Name)
		}
		if varName != "" {
			name += " " + varName
			styled += " " + h.styles.Dim.Render(varName)
		}
		if flag.DefValue != "" && flag.DefValue != "false" && flag.DefValue != "0" && flag.DefValue != "[]" {
			usage += h.styles.Dim.Render(fmt.Sprintf(" (default %q)", flag.DefValue))
		}

		widest = max(widest, len(name))
		rows = append(rows, row{name: styled, width: len(name), usage: usage})
	})

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		gap := strings.Repeat(" ", widest-r.width+flagColumnGap)
		lines = append(lines, "  "+r.name+gap+r.usage)
	}
	return strings.Join(lines, "\n")
}

// render executes the help or usage template for command into w.
func (h *HelpFormatter) render(w io.Writer, command *cobra.Command, text string) error {
	tmpl, err := template.New("help").Funcs(h.funcs()).Parse(text)
	if err != nil {
		return fmt.Errorf("parse help template: %w", err)
	}
	if err := tmpl.Execute(w, command); err != nil {
		return fmt.Errorf("render help: %w", err)
	}
	return nil
}

// ApplyHelp installs styled help and usage functions on cmd. Subcommands
// inherit them. Colour follows the --color flag and the destination writer.
func ApplyHelp(cmd *cobra.Command) {
	cmd.SetUsageFunc(func(command *cobra.Command) error {
		out := command.OutOrStderr()
		return NewHelpFormatter(colorMode(command), out).render(out, command, usageTemplate)
	})

	cmd.SetHelpFunc(func(command *cobra.Command, _ []string) {
		out := command.OutOrStdout()
		if err := NewHelpFormatter(colorMode(command), out).render(out, command, helpTemplate); err != nil {
			command.PrintErrln(err)
		}
	})
}

// colorMode returns the --color value visible to command.
func colorMode(command *cobra.Command) string {
	if flag := command.Flag("color"); flag != nil {
		return flag.Value.String()
	}
	return "auto"
}

func trimTrailingSpace(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
