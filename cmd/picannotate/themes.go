package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/example/picannotate/internal/theme"
)

type themesCmd struct {
	*root
	fs     *flag.FlagSet
	show   string
	stdout io.Writer
}

func (t *themesCmd) FlagSet() *flag.FlagSet {
	return t.fs
}

func parseThemesCmd(args []string, r *root) (*themesCmd, error) {
	fs := flag.NewFlagSet("themes", flag.ExitOnError)
	t := &themesCmd{root: r, fs: fs, stdout: os.Stdout}
	if r != nil {
		t.root = r.subcommand("themes")
	}
	fs.StringVar(&t.show, "show", "", "print the fields of the named theme")
	fs.Usage = usageFunc(t)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *themesCmd) Run() error {
	if t.show != "" {
		th, err := theme.NewLoader().Resolve(t.config.Themes, t.show)
		if err != nil {
			return err
		}
		for _, kv := range theme.Fields(th) {
			fmt.Fprintf(t.stdout, "%s: %s\n", kv[0], kv[1])
		}
		return nil
	}
	active := ""
	if t.activeTheme != nil {
		active = t.activeTheme.Name
	}
	names := theme.Builtin()
	for name := range t.config.Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	seen := map[string]bool{}
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		marker := " "
		if name == active {
			marker = "*"
		}
		source := "builtin"
		if _, ok := t.config.Themes[name]; ok {
			source = "config"
		}
		fmt.Fprintf(t.stdout, "%s %s (%s)\n", marker, name, source)
	}
	return nil
}
