package cmd

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats <input>",
	Short: "Show per-line character, grapheme and width counts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := readDocument(args[0])
		if err != nil {
			return err
		}
		s, err := newSession(doc, "", nil)
		if err != nil {
			return err
		}

		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("LINE", "RUNES", "GRAPHEMES", "WIDTH", "ENDING")

		runes, graphemes := 0, 0
		for i := range s.LineCount() {
			text := s.LineText(i)
			n := len([]rune(text))
			g := uniseg.GraphemeClusterCount(text)
			runes += n
			graphemes += g
			t.Row(
				strconv.Itoa(i+1),
				strconv.Itoa(n),
				strconv.Itoa(g),
				strconv.Itoa(runewidth.StringWidth(text)),
				s.LineTerminator(i).String(),
			)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, t.Render())
		fmt.Fprintf(out, "%d lines, %d runes, %d graphemes\n", s.LineCount(), runes, graphemes)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
