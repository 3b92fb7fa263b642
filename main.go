package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"gridline/app"
	"gridline/app/settings"
	"gridline/app/ui"
)

func main() {
	cmd := &cli.Command{
		Name:      "gridline",
		Usage:     "Filter, sort and inspect CSV, XLSX and JSON log data",
		ArgsUsage: "[file|directory|workspace.gridline]...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "pattern",
				Usage: "glob for selecting files when opening a directory, e.g. \"**/*.csv.gz\"",
			},
			&cli.StringFlag{
				Name:  "jpath",
				Usage: "path to the row array inside JSON documents, e.g. \"$.Records\"",
			},
			&cli.BoolFlag{
				Name:  "no-header-row",
				Usage: "treat the first CSV/XLSX row as data",
			},
			&cli.StringFlag{
				Name:  "workspace",
				Usage: "workspace file to open or create",
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, c *cli.Command) error {
	logger := openLogger()
	defer logger.Close()

	a := app.New(settings.NewService(), logger)

	opts := a.DefaultLoadOptions()
	if p := c.String("pattern"); p != "" {
		opts.Pattern = p
	}
	opts.JPath = c.String("jpath")
	if c.Bool("no-header-row") {
		opts.NoHeaderRow = true
	}

	// A bare .gridline argument opens as a workspace.
	wsPath := c.String("workspace")
	var paths []string
	for _, arg := range c.Args().Slice() {
		if wsPath == "" && strings.HasSuffix(arg, ".gridline") {
			wsPath = arg
			continue
		}
		paths = append(paths, arg)
	}

	if wsPath != "" {
		var err error
		if _, statErr := os.Stat(wsPath); statErr == nil {
			err = a.OpenWorkspace(wsPath)
		} else {
			err = a.CreateWorkspace(wsPath)
		}
		if err != nil {
			return fmt.Errorf("workspace %s: %w", wsPath, err)
		}
	}

	for _, path := range paths {
		if _, err := a.OpenPath(path, opts); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}

	p := tea.NewProgram(ui.New(a), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}

// openLogger is best effort; the app runs without a log file.
func openLogger() *app.Logger {
	path, err := app.DefaultLogPath()
	if err != nil {
		return nil
	}
	logger, err := app.NewLogger(path)
	if err != nil {
		return nil
	}
	return logger
}
