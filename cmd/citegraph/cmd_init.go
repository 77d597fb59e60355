package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/persistorai/citegraph/internal/config"
)

type initOptions struct {
	path     string
	apiKey   string
	seeds    string
	maxNodes int
	output   string
	force    bool
}

func newInitCmd() *cobra.Command {
	var o initOptions

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Set up citegraph configuration",
		Long:  "Interactive setup wizard that creates ~/.citegraph/config.yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			if o.path == "" {
				o.path, _ = configPath()
			}
			if o.path == "" {
				return errors.New("cannot determine config path; pass --path")
			}

			flags := cmd.Flags()
			nonInteractive := flags.Changed("api-key") || flags.Changed("seeds") ||
				flags.Changed("max-nodes") || flags.Changed("output")
			return runInit(cmd.InOrStdin(), cmd.OutOrStdout(), &o, !nonInteractive)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&o.path, "path", "", "Where to write the config file (default ~/.citegraph/config.yaml)")
	fl.StringVar(&o.apiKey, "api-key", "", "Semantic Scholar API key (non-interactive mode)")
	fl.StringVar(&o.seeds, "seeds", "", "Comma-separated seed paper IDs (non-interactive mode)")
	fl.IntVar(&o.maxNodes, "max-nodes", 0, "Maximum papers per crawl (non-interactive mode)")
	fl.StringVar(&o.output, "output", "", "Default output path (non-interactive mode)")
	fl.BoolVar(&o.force, "force", false, "Overwrite an existing config file")
	return cmd
}

func runInit(in io.Reader, out io.Writer, o *initOptions, interactive bool) error {
	if !o.force {
		if _, err := os.Stat(o.path); err == nil {
			return fmt.Errorf("config file %s already exists (use --force to overwrite)", o.path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("checking config file: %w", err)
		}
	}

	if interactive {
		if err := promptInit(in, out, o); err != nil {
			return err
		}
	}

	f := &config.File{
		APIKey:   o.apiKey,
		Seeds:    config.SplitList(o.seeds),
		MaxNodes: o.maxNodes,
		Output:   o.output,
	}

	// Validate the result the same way a crawl would see it.
	c := config.Default()
	if len(f.Seeds) > 0 {
		c.Seeds = f.Seeds
	}
	if f.MaxNodes != 0 {
		c.MaxNodes = f.MaxNodes
	}
	if f.Output != "" {
		c.OutputPath = f.Output
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	if err := config.WriteFile(o.path, f); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	if interactive {
		fmt.Fprintf(out, "\n  ✓ Config saved to %s\n", o.path)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  Next steps:")
		fmt.Fprintln(out, "    citegraph doctor     # Check configuration and API access")
		fmt.Fprintln(out, "    citegraph crawl      # Crawl from the configured seeds")
		fmt.Fprintln(out, "    citegraph --help     # See all commands")
		fmt.Fprintln(out)
	} else {
		fmt.Fprintf(out, "Config saved to %s\n", o.path)
	}

	return nil
}

func promptInit(in io.Reader, out io.Writer, o *initOptions) error {
	fmt.Fprintln(out, "\n  citegraph Setup")
	fmt.Fprintln(out, "  ───────────────")
	fmt.Fprintln(out)

	reader := bufio.NewReader(in)
	ask := func(prompt string) string {
		fmt.Fprint(out, prompt)
		line, _ := reader.ReadString('\n')
		return strings.TrimSpace(line)
	}

	o.apiKey = ask("  API key (optional, raises rate limits): ")
	o.seeds = ask(fmt.Sprintf("  Seed paper IDs [%s]: ", strings.Join(config.DefaultSeeds, ",")))

	if v := ask("  Max papers per crawl [150]: "); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("max papers: %q is not a number", v)
		}
		o.maxNodes = n
	}

	o.output = ask("  Output file [papers.csv]: ")
	return nil
}
