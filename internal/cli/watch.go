package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/smokyabdulrahman/ramadan-times/internal/countdown"
	"github.com/smokyabdulrahman/ramadan-times/internal/dashboard"
	"github.com/smokyabdulrahman/ramadan-times/internal/display"
	"github.com/smokyabdulrahman/ramadan-times/internal/metrics"
)

// clearLine returns the cursor to column 0 and erases the line.
const clearLine = "\r\033[K"

// statusLine rewrites a single terminal line from several goroutines.
type statusLine struct {
	mu        sync.Mutex
	w         io.Writer
	countdown string
	err       string
	dirty     bool
}

func (l *statusLine) setCountdown(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.countdown = s
	l.flush()
}

func (l *statusLine) setError(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err == nil {
		l.err = ""
	} else {
		l.err = fmt.Sprintf("error: %v (press Enter to retry)", err)
	}
	l.flush()
}

// flush must be called with mu held.
func (l *statusLine) flush() {
	line := l.countdown
	if l.err != "" {
		if line != "" {
			line += "  "
		}
		line += display.Red(l.err)
	}
	fmt.Fprint(l.w, clearLine+line)
	l.dirty = true
}

// finish moves past the status line so the shell prompt starts clean.
func (l *statusLine) finish() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.dirty {
		fmt.Fprintln(l.w)
	}
}

// runWatch runs the live countdown until interrupted. A fetch cycle runs at
// startup, on every Enter press and when the calendar day changes.
func (a *app) runWatch(cmd *cobra.Command, format, metricsAddr string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if metricsAddr != "" {
		metrics.StartServer(ctx, a.log, metricsAddr)
	}

	var (
		view           dashboard.View
		loader         = a.newLoader()
		runner         = countdown.NewRunner(countdown.WithClock(countdown.ClockFunc(a.today)))
		status         = &statusLine{w: cmd.OutOrStdout()}
		layout         = a.cfg.TimeLayout()
		refresh        = make(chan struct{}, 1)
		requestRefresh = func() {
			select {
			case refresh <- struct{}{}:
			default:
			}
		}
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer runner.Stop()
		for {
			snap := loader.Load(gctx, dashboard.Options{})
			if gctx.Err() != nil {
				return nil
			}
			if view.Accept(snap) {
				if snap.Err == nil {
					runner.SetTimings(snap.Timings)
				}
				status.setError(snap.Err)
			}

			select {
			case <-gctx.Done():
				return nil
			case <-refresh:
				a.log.Debug().Msg("refresh requested")
			}
		}
	})

	g.Go(func() error {
		err := runner.Run(gctx, func(s countdown.State) {
			status.setCountdown(countdown.Format(s, format, layout))
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	// The runner stops ticking when no event is left, so the day check has
	// its own ticker.
	g.Go(func() error {
		ticker := time.NewTicker(countdown.DefaultInterval)
		defer ticker.Stop()
		watchRollover(gctx, ticker.C, &view, a.today, requestRefresh)
		return nil
	})

	// Reading stdin blocks until EOF, so it is not part of the group.
	go func() {
		scanner := bufio.NewScanner(a.stdin)
		for scanner.Scan() {
			requestRefresh()
		}
	}()

	err := g.Wait()
	status.finish()
	return err
}

// watchRollover calls refresh on each tick while the shown snapshot was
// fetched on an earlier day than now. It returns when ctx is done.
func watchRollover(ctx context.Context, tick <-chan time.Time, view *dashboard.View, now func() time.Time, refresh func()) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick:
			if cur, ok := view.Current(); ok && !sameDay(cur.FetchedAt, now()) {
				refresh()
			}
		}
	}
}
