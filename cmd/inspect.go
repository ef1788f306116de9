package cmd

import (
	"codeberg.org/miketth/kbisw/pkg/inputdev"
	"codeberg.org/miketth/kbisw/pkg/kbisw"
	"fmt"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"io"
	"sort"
)

var mappingsCmd = &cobra.Command{
	Use:   "mappings",
	Short: "Print the layout remembered for each keyboard",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		log, err := newLogger(cfg.Verbosity)
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}

		directory, err := newDirectory(cfg)
		if err != nil {
			return err
		}

		kv, closeStore, err := openStore(cfg.Store, log)
		if err != nil {
			return err
		}
		defer func() {
			err = multierr.Append(err, closeStore())
		}()

		layouts := kbisw.LoadLayoutStore(kv, directory, log)
		return printMappings(cmd.OutOrStdout(), layouts.Entries())
	},
}

var layoutsCmd = &cobra.Command{
	Use:   "layouts",
	Short: "Print the layouts that can be switched to",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		directory, err := newDirectory(cfg)
		if err != nil {
			return err
		}

		layouts, err := directory.Layouts()
		if err != nil {
			return fmt.Errorf("list layouts: %w", err)
		}
		current, err := directory.Current()
		if err != nil {
			return fmt.Errorf("get current layout: %w", err)
		}

		return printLayouts(cmd.OutOrStdout(), layouts, current, directory.ShortName)
	},
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "Print the keys of the keyboards attached right now",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		keyboards, err := inputdev.ListKeyboards(cfg.Input.Dir)
		if err != nil {
			return err
		}
		defer func() {
			for _, k := range keyboards {
				err = multierr.Append(err, k.Close())
			}
		}()

		rows := make([][]string, 0, len(keyboards))
		for _, k := range keyboards {
			rows = append(rows, []string{k.Path, k.Identity.Key(cfg.UseLocation)})
		}
		return printTable(cmd.OutOrStdout(), []string{"PATH", "KEY"}, rows)
	},
}

func printTable(out io.Writer, headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(headers...).
		Rows(rows...)

	_, err := fmt.Fprintln(out, t.String())
	return err
}

func printMappings(out io.Writer, mappings map[string]kbisw.Layout) error {
	devices := make([]string, 0, len(mappings))
	for d := range mappings {
		devices = append(devices, d)
	}
	sort.Strings(devices)

	rows := make([][]string, 0, len(devices))
	for _, d := range devices {
		l := mappings[d]
		rows = append(rows, []string{d, l.ID, l.Name})
	}
	return printTable(out, []string{"KEYBOARD", "LAYOUT", "NAME"}, rows)
}

func printLayouts(out io.Writer, layouts []kbisw.Layout, current kbisw.Layout, shortName func(kbisw.Layout) string) error {
	rows := make([][]string, 0, len(layouts))
	for _, l := range layouts {
		marker := ""
		if l.ID == current.ID {
			marker = "*"
		}
		rows = append(rows, []string{marker, l.ID, shortName(l), l.Name})
	}
	return printTable(out, []string{"", "LAYOUT", "SHORT", "NAME"}, rows)
}
