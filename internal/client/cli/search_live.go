package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ddanilov/daybook/internal/client/api"
	"github.com/ddanilov/daybook/internal/client/pager"
	"github.com/ddanilov/daybook/internal/tagx"
)

// runLiveSearch reads search terms line by line and re-runs the listing
// after a quiet period, so rapid edits collapse into one request. The
// debounced callback prints its own results when it fires; the read loop
// never waits for it, which is what lets a newer term supersede a pending
// one. A stale response from a superseded term is discarded by the pager.
func (a *App) runLiveSearch(ctx context.Context, in io.Reader, opts listOptions) error {
	p := pager.New(a.entries.List, a.config.PageSize)
	d := pager.NewDebouncer(a.config.Debounce)
	defer d.Stop()

	fmt.Println("Type to search, 'more' for the next page, empty line to quit.")
	scanner := bufio.NewScanner(in)

	for {
		fmt.Print("search> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			break
		}

		if line == "more" {
			d.Stop()
			if _, err := p.LoadMore(ctx); err != nil {
				fmt.Println(friendly(err).Error())
				continue
			}
			a.printListing(ctx, p, "type 'more' for the next page")
			continue
		}

		d.Trigger(func() {
			err := p.Reset(ctx, api.ListOptions{
				Query:      line,
				ImagesOnly: opts.imagesOnly,
				Tags:       tagx.Normalize(opts.tags),
			})
			if err != nil {
				fmt.Println(friendly(err).Error())
				return
			}
			a.printListing(ctx, p, "type 'more' for the next page")
		})
	}
	return scanner.Err()
}

func (a *App) printListing(ctx context.Context, p *pager.Pager, moreHint string) {
	entries := p.Entries()
	if len(entries) == 0 {
		fmt.Println("No entries.")
		return
	}

	urls := a.entries.Hydrate(ctx, entries)
	for _, e := range entries {
		fmt.Println(e.String())
		if url, ok := urls[e.ID]; ok {
			fmt.Printf("    image: %s\n", url)
		}
	}
	if p.HasMore() && moreHint != "" {
		fmt.Println(moreHint)
	}
}
