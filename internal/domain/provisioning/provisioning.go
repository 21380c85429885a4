// Package provisioning is the boundary to the remote provisioning API.
// Every domain operation of consequence is one named call through a
// Performer; backends are selected by name at startup.
package provisioning

//go:generate mockgen -source=provisioning.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	dErrors "domainpanel/pkg/domain-errors"
)

// Call is one remote operation. Batch calls address the plural entity and
// carry one payload per object.
type Call struct {
	Entity    string
	Operation string
	Payload   map[string]any
	Batch     bool
}

// Command renders the remote command name: "domain" + "CheckTransfer" gives
// "domainCheckTransfer", or "domainsCheckTransfer" for a batch.
func (c Call) Command() string {
	entity := c.Entity
	if c.Batch {
		entity += "s"
	}
	return entity + c.Operation
}

// Result is the decoded success payload of a call.
type Result map[string]any

// Decode copies the result into v through its JSON form.
func (r Result) Decode(v any) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding result: %w", err)
	}
	return nil
}

// Performer executes remote calls.
type Performer interface {
	Perform(ctx context.Context, call Call) (Result, error)
}

// RemoteError is a refusal reported by the API itself. Message is meant for
// the user.
type RemoteError struct {
	Command string
	Message string
}

func (e *RemoteError) Error() string {
	return e.Command + ": " + e.Message
}

// RemoteMessage returns the message shown to the user.
func (e *RemoteError) RemoteMessage() string {
	return e.Message
}

func (e *RemoteError) Unwrap() error {
	return dErrors.New(dErrors.CodeUpstream, e.Message)
}

// MessageUnsupported is reported for operations a backend cannot perform.
const MessageUnsupported = "operation not supported"

// Unsupported returns the RemoteError for a call the backend cannot serve.
func Unsupported(call Call) error {
	return &RemoteError{Command: call.Command(), Message: MessageUnsupported}
}

// IsRemote reports whether err is a refusal from the API rather than a
// transport failure.
func IsRemote(err error) bool {
	var re *RemoteError
	return errors.As(err, &re)
}

// Options are handed to backend builders.
type Options struct {
	BaseURL string
	Token   string
	Timeout time.Duration

	CloudflareToken   string
	CloudflareAccount string

	Logger *slog.Logger
}

// Builder creates a backend from options.
type Builder func(opts Options) (Performer, error)

var (
	buildersMu sync.RWMutex
	builders   = map[string]Builder{}
)

// Register makes a backend available under name. Backends register
// themselves from init.
func Register(name string, b Builder) {
	buildersMu.Lock()
	defer buildersMu.Unlock()
	if _, dup := builders[name]; dup {
		panic("provisioning: backend registered twice: " + name)
	}
	builders[name] = b
}

// Build creates the backend registered under name.
func Build(name string, opts Options) (Performer, error) {
	buildersMu.RLock()
	b, ok := builders[name]
	buildersMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("provisioning: unknown backend %q (have %v)", name, Backends())
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return b(opts)
}

// Backends lists the registered backend names, sorted.
func Backends() []string {
	buildersMu.RLock()
	defer buildersMu.RUnlock()
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
