package main

import (
	"fmt"

	"github.com/fwojciec/deepcrawl"
	"github.com/fwojciec/deepcrawl/crawl"
)

// seedColumnWidth bounds the seed URL in the runs listing.
const seedColumnWidth = 60

// Run executes the runs command.
func (c *RunsCmd) Run(deps *Dependencies) error {
	filter := deepcrawl.RunFilter{Limit: c.Limit}
	if c.Seed != "" {
		filter.SeedURL = &c.Seed
	}
	if c.Status != "" {
		filter.Status = &c.Status
	}

	runs, err := deps.Runs.FindRuns(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", deepcrawl.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs found. Use 'deepcrawl crawl' to start one.")
		return nil
	}

	for _, r := range runs {
		fmt.Fprintf(deps.Stdout, "%s  %s  %-9s  %d pages  %s\n",
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04"), r.Status, r.PagesCrawled, crawl.TruncateURL(r.SeedURL, seedColumnWidth))
	}
	return nil
}

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	run, err := deps.Runs.FindRunByID(deps.Ctx, c.ID)
	if err != nil {
		if deepcrawl.ErrorCode(err) == deepcrawl.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: run %q not found. Use 'deepcrawl runs' to see recorded runs.\n", c.ID)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", deepcrawl.ErrorMessage(err))
		}
		return err
	}

	results, err := deps.Runs.FindResults(deps.Ctx, deepcrawl.ResultFilter{RunID: &run.ID, SuccessOnly: c.OK})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", deepcrawl.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Run %s (%s)\n", run.ID, run.Status)
	fmt.Fprintf(deps.Stdout, "Seed: %s\n", run.SeedURL)
	fmt.Fprintf(deps.Stdout, "Pages crawled: %d, URLs skipped: %d\n", run.PagesCrawled, run.URLsSkipped)
	if !run.EndedAt.IsZero() {
		fmt.Fprintf(deps.Stdout, "Duration: %s\n", crawl.FormatDuration(run.EndedAt.Sub(run.StartedAt)))
	}
	if run.Error != "" {
		fmt.Fprintf(deps.Stdout, "Error: %s\n", run.Error)
	}
	fmt.Fprintln(deps.Stdout)

	for i, r := range results {
		status := "ok"
		if !r.Success {
			status = "failed"
		}
		fmt.Fprintf(deps.Stdout, "%3d. [d%d %s] %s  %s\n", i+1, r.Depth, crawl.FormatScore(r.Score), r.URL, status)
		if r.Title != "" {
			fmt.Fprintf(deps.Stdout, "     %s\n", r.Title)
		}
		if r.Error != "" {
			fmt.Fprintf(deps.Stdout, "     %s\n", r.Error)
		}
		if c.Full && r.Content != "" {
			fmt.Fprintf(deps.Stdout, "\n%s\n\n", r.Content)
		}
	}
	return nil
}

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return deepcrawl.Errorf(deepcrawl.EINVALID, "use --force to confirm deletion")
	}

	if err := deps.Runs.DeleteRun(deps.Ctx, c.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", deepcrawl.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted run %s\n", c.ID)
	return nil
}
