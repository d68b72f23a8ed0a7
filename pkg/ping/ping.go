// Package ping simulates a network ping. It is used to check that the skill
// plumbing of a pipeline works end to end and never touches the network.
package ping

import (
	"fmt"
	"os"

	"github.com/jingkaihe/stepkit/pkg/argvalue"
	"github.com/jingkaihe/stepkit/pkg/config"
)

const (
	defaultHost  = "unknown"
	defaultCount = 1
)

// Result is the simulated ping report
type Result struct {
	OK      bool           `json:"ok"`
	Host    argvalue.Value `json:"host"`
	Count   argvalue.Value `json:"count"`
	Message string         `json:"message"`
}

// GetIssues always returns an empty list: a simulated ping cannot fail
func (r Result) GetIssues() []string {
	return []string{}
}

// Pinger resolves the ping target from the payload or the orchestrator
// environment
type Pinger struct {
	envPrefix string
	lookupEnv func(string) (string, bool)
}

// Option configures a Pinger
type Option func(*Pinger)

// WithEnvPrefix sets the prefix of the orchestrator-exported argument
// variables
func WithEnvPrefix(prefix string) Option {
	return func(p *Pinger) {
		p.envPrefix = prefix
	}
}

// WithLookupEnv replaces os.LookupEnv
func WithLookupEnv(fn func(string) (string, bool)) Option {
	return func(p *Pinger) {
		p.lookupEnv = fn
	}
}

// NewPinger creates a pinger reading BOPS_ARG_* variables by default
func NewPinger(opts ...Option) *Pinger {
	p := &Pinger{
		envPrefix: config.DefaultArgEnvPrefix,
		lookupEnv: os.LookupEnv,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Ping builds the report. The payload host wins when truthy, then the
// <prefix>HOST variable, then "unknown". A missing count defaults to 1; a
// present count is echoed as given, null included.
func (p *Pinger) Ping(args *argvalue.Mapping) Result {
	host, ok := args.Get("host")
	if !ok || !host.Truthy() {
		host = argvalue.String(defaultHost)
		if env, found := p.lookupEnv(p.envPrefix + "HOST"); found && env != "" {
			host = argvalue.String(env)
		}
	}

	count, ok := args.Get("count")
	if !ok {
		count = argvalue.Int(defaultCount)
	}

	return Result{
		OK:      true,
		Host:    host,
		Count:   count,
		Message: fmt.Sprintf("Simulated ping to %s with count=%s.", host.DisplayText(), count.DisplayText()),
	}
}
