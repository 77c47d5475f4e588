// Package report renders generated layouts for the layout command.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/numfind/internal/model"
)

// Output formats accepted by RenderLayout.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

type layoutDoc struct {
	Points int           `json:"points" yaml:"points"`
	Seed   int64         `json:"seed" yaml:"seed"`
	Tokens []model.Token `json:"tokens" yaml:"tokens"`
}

// RenderLayout writes tokens sorted by value in the requested format.
func RenderLayout(w io.Writer, tokens []model.Token, seed int64, format string) error {
	sorted := make([]model.Token, len(tokens))
	copy(sorted, tokens)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Value < sorted[j].Value
	})

	switch format {
	case FormatTable, "":
		return renderTable(w, sorted)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(layoutDoc{Points: len(sorted), Seed: seed, Tokens: sorted})
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(layoutDoc{Points: len(sorted), Seed: seed, Tokens: sorted}); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (expected table, json or yaml)", format)
	}
}

func renderTable(w io.Writer, tokens []model.Token) error {
	if len(tokens) == 0 {
		_, err := fmt.Fprintln(w, "No tokens.")
		return err
	}
	headers := []string{"Value", "Top", "Left"}
	rows := make([][]string, 0, len(tokens))
	for _, tok := range tokens {
		rows = append(rows, []string{
			strconv.Itoa(tok.Value),
			strconv.Itoa(tok.Top),
			strconv.Itoa(tok.Left),
		})
	}
	rightAlign := map[int]bool{0: true, 1: true, 2: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
