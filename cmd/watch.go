package cmd

import (
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/warrantydesk/tracking-service/internal/model"
	"github.com/warrantydesk/tracking-service/internal/timeline"
	"github.com/warrantydesk/tracking-service/internal/tracker"
)

var (
	watchServer   string
	watchInterval time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch <tracking-code>",
	Short: "Poll a running tracking service and print status changes",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchServer, "server", "http://localhost:8080", "base URL of the tracking service")
	watchCmd.Flags().DurationVar(&watchInterval, "interval", tracker.DefaultPollInterval, "poll interval")
}

// logSink prints status-change notifications to the terminal; the CLI
// equivalent of a granted browser-notification permission.
type logSink struct{}

func (logSink) Notify(n tracker.Notification) {
	log.Printf("notification: %s", n.Message)
}

func runWatch(cmd *cobra.Command, args []string) error {
	code := args[0]
	fetcher := tracker.NewFetcher(watchServer)

	poller := tracker.NewPoller(fetcher, code,
		tracker.WithInterval(watchInterval),
		tracker.WithSink(logSink{}),
		tracker.WithOnUpdate(printTicket),
	)
	defer poller.Close()

	poller.Refresh()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Surface fetch errors and offer the backoff retry until interrupted.
	tick := time.NewTicker(time.Second)
	defer tick.Stop()
	var lastShown *tracker.Error
	for {
		select {
		case <-ctx.Done():
			unread := poller.Notifier().Unread()
			if unread > 0 {
				log.Printf("watch: %d unread status change(s) this session", unread)
			}
			return nil
		case <-tick.C:
			state := poller.State()
			if state.Err != nil && state.Err != lastShown {
				lastShown = state.Err
				log.Printf("watch: %s", state.Err.Message())
				delay := poller.Retry()
				log.Printf("watch: retrying in %s", delay)
			}
			if state.Err == nil {
				lastShown = nil
			}
		}
	}
}

func printTicket(t *model.Ticket) {
	fmt.Printf("\n%s — %s\n", t.TrackingCode, t.Status.Label())
	for _, stage := range timeline.ProjectTicket(t) {
		marker := " "
		switch stage.State {
		case timeline.StateCompleted:
			marker = "x"
		case timeline.StateCurrent:
			marker = ">"
		case timeline.StateRejected:
			marker = "!"
		}
		ts := ""
		if stage.Timestamp != nil {
			ts = stage.Timestamp.Local().Format("2006-01-02 15:04")
		}
		fmt.Printf("  [%s] %-18s %s\n", marker, stage.Label, ts)
	}
	if t.Appointment != nil {
		fmt.Printf("  appointment: %s at %s\n",
			t.Appointment.AppointmentDate.Local().Format("2006-01-02 15:04"),
			t.Appointment.ServiceCenter)
	}
}
