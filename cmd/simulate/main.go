// Package main runs a page navigation sequence against synthetic trade history and prints what the
// pager decided at each step.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/leonid6372/trades-pager/internal/common/repositories/memory"
	"github.com/leonid6372/trades-pager/internal/pagination"
	"github.com/leonid6372/trades-pager/internal/session"
	"github.com/leonid6372/trades-pager/internal/store"
	"github.com/leonid6372/trades-pager/pkg/log"
)

const simulatedAccount = "simulation"

var errSimulatedFailure = errors.New("simulated load failure")

var CLI struct {
	LogLevel string `name:"log-level" default:"warn" enum:"debug,info,warn,error" help:"Log level of the pager internals"`

	Run RunCmd `cmd:"" default:"withargs" help:"Navigate through synthetic trade history"`
}

type RunCmd struct {
	Items   int   `name:"items" default:"95" help:"Number of trades in the history"`
	PerPage int   `name:"per-page" default:"10" help:"Trades per page"`
	Batch   int   `name:"batch" default:"30" help:"Trades per fetch, 0 fetches one page at a time"`
	FailAt  int   `name:"fail-at" help:"Make the n-th trade fetch fail, counting the initial one"`
	Pages   []int `arg:"" optional:"" default:"3,4,1,999" help:"Pages to request in order"`
}

func (r *RunCmd) Run() error {
	return r.simulate(context.Background(), os.Stdout)
}

func (r *RunCmd) simulate(ctx context.Context, out io.Writer) error {
	if r.PerPage <= 0 || r.Batch < 0 || r.Items < 0 {
		return fmt.Errorf("per-page must be positive, batch and items must not be negative")
	}

	repo := memory.NewTradesRepository()
	repo.SetTrades(simulatedAccount, memory.GenerateTrades(simulatedAccount, r.Items, time.Now()))

	s := session.New("simulation", simulatedAccount, repo, store.NewWindow(repo, simulatedAccount), session.Options{
		ItemsPerPage: r.PerPage,
		BatchSize:    r.Batch,
	})

	r.armFailure(repo)
	if err := s.Open(ctx); err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}

	page, err := s.Page(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "opened: %d trades, %d pages, %d per page, batch %d\n",
		page.Pagination.TotalItems, page.Pagination.TotalPages, page.Pagination.Limit, page.Pagination.BatchSize)
	printPage(out, page)

	for _, target := range r.Pages {
		r.armFailure(repo)

		res, err := s.Navigate(ctx, target)

		page, pageErr := s.Page(ctx)
		if pageErr != nil {
			return pageErr
		}

		status := res.Status.String()
		if err != nil {
			status = "failed"
		}

		fmt.Fprintf(out, "request %d: %s", target, status)
		if err == nil && res.Status == pagination.StatusNoOp {
			fmt.Fprintf(out, " (%s)", res.NoOpReason)
		}
		if res.Decision.NeedsFetch() {
			fmt.Fprintf(out, ", fetch [%d, %d)", res.Decision.Offset, res.Decision.Offset+res.Decision.Length)
		}
		if err != nil {
			fmt.Fprintf(out, ", error: %v", err)
		}
		fmt.Fprintln(out)

		printPage(out, page)
	}

	return nil
}

// armFailure makes the next fetch fail when it is the one requested with --fail-at.
func (r *RunCmd) armFailure(repo *memory.TradesRepository) {
	if r.FailAt > 0 && repo.RangeCalls()+1 == r.FailAt {
		repo.FailNext(errSimulatedFailure)
	}
}

func printPage(out io.Writer, page *session.Page) {
	meta := page.Pagination

	fmt.Fprintf(out, "  page %d/%d, loaded %d/%d", meta.CurrentPage, meta.TotalPages, meta.TotalLoaded, meta.TotalItems)
	if len(page.Trades) > 0 {
		fmt.Fprintf(out, ", trades #%d..#%d", page.Trades[0].ID, page.Trades[len(page.Trades)-1].ID)
	}
	fmt.Fprintln(out)
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("simulate"),
		kong.Description("Replay page requests against an in-memory trade history."),
		kong.UsageOnError(),
	)

	if err := log.Init(CLI.LogLevel, log.EncodingConsole); err != nil {
		ctx.FatalIfErrorf(err)
	}

	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
