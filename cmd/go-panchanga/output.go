package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tartampluch/go-panchanga/internal/config"
	"github.com/tartampluch/go-panchanga/internal/engine"
	"github.com/tartampluch/go-panchanga/internal/i18n"
)

// render writes payload as indented JSON, or calls text with a localized table printer.
func (c *cli) render(cmd *cobra.Command, payload any, text func(p *printer)) error {
	format, _ := cmd.Flags().GetString(config.FlagFormat)
	switch format {
	case config.FormatJSON:
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	case config.FormatText:
		p := newPrinter(c.out, c.tr)
		text(p)
		return p.flush()
	}
	return fmt.Errorf("%s: --%s=%q", config.ErrSettingsInvalid, config.FlagFormat, format)
}

// printer aligns label/value rows and tables with a tabwriter.
type printer struct {
	w  io.Writer
	tw *tabwriter.Writer
	tr *i18n.Translator
}

func newPrinter(w io.Writer, tr *i18n.Translator) *printer {
	return &printer{w: w, tw: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0), tr: tr}
}

func (p *printer) msg(key string) string {
	if p.tr == nil {
		return key
	}
	return p.tr.Msg(key)
}

func (p *printer) row(key, value string) {
	_, _ = fmt.Fprintf(p.tw, "%s\t%s\n", p.msg(key), value)
}

// cols writes one tab separated table line.
func (p *printer) cols(values ...string) {
	_, _ = fmt.Fprintln(p.tw, strings.Join(values, "\t"))
}

// header writes a localized table header.
func (p *printer) header(keys ...string) {
	labels := make([]string, len(keys))
	for i, k := range keys {
		labels[i] = p.msg(k)
	}
	p.cols(labels...)
}

func (p *printer) blank() {
	p.flush()
	_, _ = fmt.Fprintln(p.w)
}

func (p *printer) slots(titleKey string, slots []engine.Slot) {
	p.flush()
	_, _ = fmt.Fprintf(p.w, "\n%s\n", p.msg(titleKey))
	for _, s := range slots {
		p.cols(s.String(), s.Name)
	}
}

func (p *printer) flush() error {
	return p.tw.Flush()
}
