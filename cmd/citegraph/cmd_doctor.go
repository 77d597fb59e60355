package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/spf13/cobra"

	"github.com/persistorai/citegraph/internal/config"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose configuration and connectivity",
		Long:  "Run diagnostic checks against the config file, settings and the Graph API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd.Context(), cmd, cmd.OutOrStdout())
		},
	}
}

type checkResult struct {
	Name   string
	Passed bool
	Detail string
	Hint   string
}

func runDoctor(ctx context.Context, cmd *cobra.Command, out io.Writer) error {
	fmt.Fprintln(out, "\ncitegraph Doctor")
	fmt.Fprintln(out, "================")

	var results []checkResult

	// 1. Config file.
	path, required := configPath()
	switch _, err := config.ReadFile(path); {
	case path == "":
		results = append(results, checkResult{Name: "Config file", Passed: true, Detail: "none (using defaults)"})
	case err == nil:
		results = append(results, checkResult{Name: "Config file", Passed: true, Detail: fmt.Sprintf("found (%s)", path)})
	case !required && errors.Is(err, fs.ErrNotExist):
		results = append(results, checkResult{
			Name: "Config file", Passed: true,
			Detail: "none (using defaults)",
			Hint:   "Run: citegraph init",
		})
	default:
		results = append(results, checkResult{Name: "Config file", Passed: false, Detail: path, Hint: err.Error()})
	}

	// 2. Settings.
	c, err := config.Load(path, required)
	if err == nil {
		applyGlobalFlags(cmd, c)
		err = c.Validate()
	}
	if err != nil {
		results = append(results, checkResult{Name: "Settings", Passed: false, Hint: err.Error()})
		return printResults(out, results)
	}
	results = append(results, checkResult{
		Name: "Settings", Passed: true,
		Detail: fmt.Sprintf("%d seeds, max %d papers, delay %s", len(c.Seeds), c.MaxNodes, c.Delay),
	})

	// 3. API key. Optional; unauthenticated access is rate limited harder.
	if c.APIKey.Value() == "" {
		results = append(results, checkResult{
			Name: "API key", Passed: true, Detail: "not set",
			Hint: "Set CITEGRAPH_API_KEY for higher rate limits",
		})
	} else {
		results = append(results, checkResult{Name: "API key", Passed: true, Detail: "configured"})
	}

	// 4. API reachable: fetch the first seed's title.
	if err := doctorCheckAPI(ctx, c); err != nil {
		results = append(results, checkResult{
			Name: "API reachable", Passed: false, Detail: c.APIURL,
			Hint: fmt.Sprintf("Check --api-url and network access.\n   Error: %v", err),
		})
	} else {
		results = append(results, checkResult{Name: "API reachable", Passed: true, Detail: c.APIURL})
	}

	return printResults(out, results)
}

func doctorCheckAPI(ctx context.Context, c *config.Config) error {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout+5*time.Second)
	defer cancel()

	id := config.DefaultSeeds[0]
	if len(c.Seeds) > 0 {
		id = c.Seeds[0]
	}

	cl := newAPIClient(c)
	_, err := cl.Papers.Get(ctx, id, []string{"title"})
	return err
}

func printResults(out io.Writer, results []checkResult) error {
	fmt.Fprintln(out)
	allPassed := true
	for _, r := range results {
		mark := "✅"
		if !r.Passed {
			mark = "❌"
			allPassed = false
		}
		if r.Detail != "" {
			fmt.Fprintf(out, "%s %s: %s\n", mark, r.Name, r.Detail)
		} else {
			fmt.Fprintf(out, "%s %s\n", mark, r.Name)
		}
		if r.Hint != "" {
			fmt.Fprintf(out, "   Hint: %s\n", r.Hint)
		}
	}

	fmt.Fprintln(out)
	if !allPassed {
		fmt.Fprintln(out, "❌ Some checks failed.")
		return errors.New("doctor found issues")
	}
	fmt.Fprintln(out, "✅ All checks passed!")
	return nil
}
