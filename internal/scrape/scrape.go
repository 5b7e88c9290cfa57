// Package scrape extracts the Wilderness Flash Events rotation table from
// the game wiki. The table is populated by page scripts, so extraction
// drives headless Chromium via chromedp and reads the rendered DOM; the raw
// cell text then goes through a pure normalization pass that is unit-tested
// without a browser.
package scrape

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	appLog "wildtrack/internal/log"
	"wildtrack/internal/model"
)

const (
	// DefaultURL is the wiki page carrying the rotation table.
	DefaultURL = "https://runescape.wiki/w/Wilderness_Flash_Events"

	// tableSelector matches the script-populated rotation table.
	tableSelector = "#reload"

	defaultTimeout = 45 * time.Second
)

// extractRowsJS pulls [event, time] cell text pairs out of the rendered
// rotation table.
const extractRowsJS = `
	Array.from(document.querySelectorAll('#reload tbody tr'))
		.map(tr => Array.from(tr.querySelectorAll('td')).map(td => td.textContent))
		.filter(cells => cells.length === 2)
		.map(cells => ({event: cells[0], date: cells[1]}))
`

// Options configures a scrape run.
type Options struct {
	// URL of the wiki page. Empty means DefaultURL.
	URL string

	// Timeout bounds the whole navigate-wait-extract sequence.
	Timeout time.Duration
}

// Rotation launches headless Chromium, waits for the rotation table to be
// rendered and returns the normalized event rows.
func Rotation(parentCtx context.Context, opts Options) ([]model.RawEvent, error) {
	if opts.URL == "" {
		opts.URL = DefaultURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}

	ctx, cancel := chromedp.NewContext(parentCtx)
	defer cancel()

	ctx, cancelTimeout := context.WithTimeout(ctx, opts.Timeout)
	defer cancelTimeout()

	appLog.Info("scrape: loading rotation page", "url", opts.URL)

	var rows []model.RawEvent
	err := chromedp.Run(ctx,
		chromedp.Navigate(opts.URL),
		chromedp.WaitVisible(tableSelector, chromedp.ByID),
		chromedp.Evaluate(extractRowsJS, &rows),
	)
	if err != nil {
		return nil, fmt.Errorf("scrape: extracting rotation table: %w", err)
	}

	events := Normalize(rows)
	if len(events) == 0 {
		return nil, fmt.Errorf("scrape: rotation table at %s yielded no usable rows", opts.URL)
	}

	appLog.Info("scrape: rotation extracted", "rows", len(rows), "events", len(events))
	return events, nil
}

var spaceRe = regexp.MustCompile(`\s+`)

// Normalize cleans raw table rows into feed-contract events: whitespace is
// collapsed, header/filler rows (a "next event" banner row appears above
// the rotation) and rows whose time cell is not "HH:mm" are dropped.
func Normalize(rows []model.RawEvent) []model.RawEvent {
	out := make([]model.RawEvent, 0, len(rows))
	for _, row := range rows {
		name := spaceRe.ReplaceAllString(strings.TrimSpace(row.Name), " ")
		tod := strings.TrimSpace(row.TimeOfDay)

		if name == "" || strings.Contains(strings.ToLower(name), "next") {
			continue
		}
		if !hhmmRe.MatchString(tod) {
			continue
		}
		out = append(out, model.RawEvent{Name: name, TimeOfDay: tod})
	}
	return out
}

var hhmmRe = regexp.MustCompile(`^\d{2}:\d{2}$`)
