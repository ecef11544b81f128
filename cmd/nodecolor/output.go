package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"nodecolor/internal/codec"
	"nodecolor/internal/colorize"
	"nodecolor/internal/domain"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("170"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	idStyle      = lipgloss.NewStyle().Width(16)
	swatchLength = 4
)

// printer renders reports for a terminal
type printer struct {
	w     io.Writer
	plain bool
}

func newPrinter(w io.Writer, plain bool) *printer {
	return &printer{w: w, plain: plain}
}

func (p *printer) style(s lipgloss.Style, text string) string {
	if p.plain {
		return text
	}
	return s.Render(text)
}

func (p *printer) fail(err error) {
	fmt.Fprintln(p.w, p.style(errorStyle, "error: "+err.Error()))
}

// report prints the summary line, one row per colored node, then failures
func (p *printer) report(g *domain.Graph, r *colorize.Report) {
	fmt.Fprintln(p.w, p.style(titleStyle, g.Name))

	if r.Err != nil {
		p.fail(r.Err)
		return
	}

	summary := p.style(okStyle, r.Message)
	if !r.Success {
		summary = p.style(errorStyle, r.Message)
	}
	fmt.Fprintln(p.w, summary)

	for _, n := range g.Nodes {
		if n.Color == nil {
			continue
		}
		hex := n.Color.Hex()
		fmt.Fprintf(p.w, "  %s %s %s\n", p.swatch(hex), idStyle.Render(n.ID), p.style(mutedStyle, hex))
	}

	for _, f := range r.Failures {
		fmt.Fprintln(p.w, "  "+p.style(errorStyle, f.Error()))
	}
}

func (p *printer) swatch(hex string) string {
	block := fmt.Sprintf("%*s", swatchLength, "")
	if p.plain {
		return "[" + hex + "]"
	}
	return lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render(block)
}

// writeGraph exports to a temporary file next to path and renames it into place
func writeGraph(path, format string, g *domain.Graph) error {
	out, err := codec.New(format)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".nodecolor-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := out.Export(g, tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
