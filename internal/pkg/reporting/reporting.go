package reporting

import (
	"context"
	"os"

	"github.com/rollbar/rollbar-go"
)

// Reporter forwards unexpected errors to an external tracker
type Reporter interface {
	Report(ctx context.Context, err error, extras map[string]interface{})
	Close() error
}

// Config configures the Rollbar reporter
type Config struct {
	Token       string
	Environment string
	CodeVersion string
}

// New returns a Rollbar backed Reporter, or a no-op one when no token is set
func New(config Config) Reporter {
	if config.Token == "" {
		return Nop{}
	}

	host, _ := os.Hostname()
	client := rollbar.New(config.Token, config.Environment, config.CodeVersion, host, "")
	return &rollbarReporter{client: client}
}

type rollbarReporter struct {
	client *rollbar.Client
}

func (r *rollbarReporter) Report(ctx context.Context, err error, extras map[string]interface{}) {
	if err == nil {
		return
	}
	r.client.ErrorWithExtrasAndContext(ctx, rollbar.ERR, err, extras)
}

func (r *rollbarReporter) Close() error {
	r.client.Wait()
	return r.client.Close()
}

// Nop discards every report
type Nop struct{}

func (Nop) Report(context.Context, error, map[string]interface{}) {}

func (Nop) Close() error { return nil }
