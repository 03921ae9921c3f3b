// Package installstate decides whether the datastore belongs to a fresh
// install or to an existing deployment, and runs the one-time base table
// initialization for fresh installs.
//
// The answer is memoized in the option store under FreshInstallKey and is
// never recomputed once written.
package installstate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/maloquacious/freshstart/internal/logger"
	"github.com/maloquacious/freshstart/internal/metrics"
	"github.com/maloquacious/freshstart/internal/store"
)

// Persisted option keys. These names are shared with other deployments of
// the same data and must not change.
const (
	FreshInstallKey  = "goob_fresh_install"
	InitializedKey   = "goob_fresh_install_initialized"
	InitializedAtKey = "goob_fresh_install_initialized_at"
)

// TimestampLayout is the layout of the value stored under InitializedAtKey.
const TimestampLayout = "2006-01-02 15:04:05"

// CandidateOptions are configuration keys whose presence, together with
// data in the base tables, marks an existing deployment.
var CandidateOptions = []string{
	"goob_settings",
	"goob_company_info",
	"goob_db_version",
}

// State is the persisted classification of the install.
type State int

const (
	StateUnknown State = iota
	StateFresh
	StateExisting
)

func (s State) String() string {
	switch s {
	case StateFresh:
		return "fresh"
	case StateExisting:
		return "existing"
	}
	return "unknown"
}

// flag is the stored representation of s.
func (s State) flag() string {
	if s == StateFresh {
		return "yes"
	}
	return "no"
}

func parseState(v string) State {
	switch v {
	case "yes":
		return StateFresh
	case "no":
		return StateExisting
	}
	return StateUnknown
}

// Options configures a Classifier.
type Options struct {
	Options store.OptionStore     // required
	Schema  store.SchemaInspector // required
	// Creator is optional. When nil, InitializeFreshInstall reports false
	// and leaves the stored flags alone so a later call can retry.
	Creator     store.BaseTableCreator
	TablePrefix string
	Logger      logger.Logger
	Recorder    metrics.Recorder
	Now         func() time.Time
}

// Classifier answers "is this a fresh install?" and performs the one-time
// initialization for fresh installs. Methods are safe for concurrent use;
// calls on one Classifier are serialized.
type Classifier struct {
	mu       sync.Mutex
	options  store.OptionStore
	schema   store.SchemaInspector
	creator  store.BaseTableCreator
	prefix   string
	log      logger.Logger
	recorder metrics.Recorder
	now      func() time.Time
}

// New returns a Classifier. The option store and schema inspector are required.
func New(opts Options) (*Classifier, error) {
	if opts.Options == nil {
		return nil, errors.New("installstate: option store is required")
	}
	if opts.Schema == nil {
		return nil, errors.New("installstate: schema inspector is required")
	}
	c := &Classifier{
		options:  opts.Options,
		schema:   opts.Schema,
		creator:  opts.Creator,
		prefix:   opts.TablePrefix,
		log:      opts.Logger,
		recorder: opts.Recorder,
		now:      opts.Now,
	}
	if c.log == nil {
		c.log = logger.Default
	}
	if c.recorder == nil {
		c.recorder = metrics.NoopRecorder{}
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c, nil
}

// IsFreshInstall reports whether this is a fresh install. The first call
// runs detection and stores the result; later calls return the stored value.
func (c *Classifier) IsFreshInstall(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isFresh(ctx)
}

// ShouldSkipMigrations reports whether migrations should be skipped.
// Currently the same answer as IsFreshInstall.
func (c *Classifier) ShouldSkipMigrations(ctx context.Context) bool {
	return c.IsFreshInstall(ctx)
}

// InitializeFreshInstall creates the base tables once on a fresh install.
// It returns false on an existing install, when no creator is available, or
// when creation fails; the last two leave the stored flags untouched.
// It returns true when initialization ran now or had already completed.
func (c *Classifier) InitializeFreshInstall(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isFresh(ctx) {
		c.recorder.IncInitialization(metrics.InitNotFresh)
		return false
	}

	done, err := c.initialized(ctx)
	if err != nil {
		c.log.Warn("fresh install: reading %s: %v", InitializedKey, err)
	}
	if done {
		c.recorder.IncInitialization(metrics.InitAlreadyDone)
		return true
	}

	c.log.Debug("fresh install: initialization starting (prefix %q)", c.prefix)

	if c.creator == nil {
		c.log.Debug("fresh install: no base table creator available, initialization deferred")
		c.recorder.IncInitialization(metrics.InitNoCreator)
		return false
	}

	if err := c.creator.CreateOrUpdateBaseTables(ctx, c.prefix); err != nil {
		c.log.Error("fresh install: creating base tables: %v", err)
		c.recorder.IncInitialization(metrics.InitFailed)
		return false
	}

	if err := c.options.SetOption(ctx, InitializedKey, "1"); err != nil {
		// base tables exist but the guard is not recorded; a retry re-runs
		// the idempotent creator
		c.log.Error("fresh install: recording %s: %v", InitializedKey, err)
		c.recorder.IncInitialization(metrics.InitFailed)
		return false
	}
	stamp := c.now().UTC().Format(TimestampLayout)
	if err := c.options.SetOption(ctx, InitializedAtKey, stamp); err != nil {
		c.log.Warn("fresh install: recording %s: %v", InitializedAtKey, err)
	}

	c.log.Debug("fresh install: initialization completed at %s", stamp)
	c.recorder.IncInitialization(metrics.InitCompleted)
	return true
}

// State returns the stored classification without running detection.
func (c *Classifier) State(ctx context.Context) (State, error) {
	v, ok, err := c.options.GetOption(ctx, FreshInstallKey)
	if err != nil {
		return StateUnknown, fmt.Errorf("reading %s: %w", FreshInstallKey, err)
	}
	if !ok {
		return StateUnknown, nil
	}
	return parseState(v), nil
}

// Initialized returns the stored init-completed flag and timestamp.
func (c *Classifier) Initialized(ctx context.Context) (bool, string, error) {
	done, err := c.initialized(ctx)
	if err != nil {
		return false, "", err
	}
	if !done {
		return false, "", nil
	}
	stamp, _, err := c.options.GetOption(ctx, InitializedAtKey)
	if err != nil {
		return true, "", fmt.Errorf("reading %s: %w", InitializedAtKey, err)
	}
	return true, stamp, nil
}

func (c *Classifier) initialized(ctx context.Context) (bool, error) {
	v, ok, err := c.options.GetOption(ctx, InitializedKey)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", InitializedKey, err)
	}
	return ok && (v == "1" || v == "true"), nil
}

// isFresh must be called with c.mu held.
func (c *Classifier) isFresh(ctx context.Context) bool {
	state, err := c.State(ctx)
	if err != nil {
		c.log.Warn("fresh install: %v", err)
	}
	if state != StateUnknown {
		c.recorder.IncClassification(state.String(), metrics.SourceCached)
		return state == StateFresh
	}

	state, reason := c.detect(ctx)
	state = c.persist(ctx, state)

	c.log.Debug("fresh install: classified as %s (%s)", state, reason)
	c.recorder.IncClassification(state.String(), metrics.SourceDetected)
	return state == StateFresh
}

// persist stores state unless another writer got there first, in which case
// the stored value wins.
func (c *Classifier) persist(ctx context.Context, state State) State {
	added, err := c.options.AddOption(ctx, FreshInstallKey, state.flag())
	if err != nil {
		c.log.Warn("fresh install: storing %s: %v", FreshInstallKey, err)
		return state
	}
	if added {
		return state
	}

	stored, err := c.State(ctx)
	if err != nil {
		c.log.Warn("fresh install: %v", err)
		return state
	}
	if stored == StateUnknown {
		// unrecognized value in the store; replace it
		if err := c.options.SetOption(ctx, FreshInstallKey, state.flag()); err != nil {
			c.log.Warn("fresh install: storing %s: %v", FreshInstallKey, err)
		}
		return state
	}
	if stored != state {
		c.log.Debug("fresh install: keeping concurrently stored state %s over %s", stored, state)
	}
	return stored
}

// detect classifies the install from the base tables and candidate options.
// Probe failures count as missing tables, empty tables and absent options,
// which all lean toward fresh.
func (c *Classifier) detect(ctx context.Context) (State, string) {
	var present []string
	for _, name := range store.BaseTables(c.prefix) {
		c.recorder.IncProbe(metrics.ProbeTableExists)
		ok, err := c.schema.TableExists(ctx, name)
		if err != nil {
			c.log.Warn("fresh install: probing table %s: %v", name, err)
			continue
		}
		if ok {
			present = append(present, name)
		}
	}
	if len(present) == 0 {
		return StateFresh, "no base tables"
	}

	hasData := false
	for _, name := range present {
		c.recorder.IncProbe(metrics.ProbeRowCount)
		n, err := c.schema.RowCount(ctx, name)
		if err != nil {
			c.log.Warn("fresh install: counting rows in %s: %v", name, err)
			continue
		}
		if n > 0 {
			hasData = true
			break
		}
	}
	if !hasData {
		return StateFresh, "base tables are empty"
	}

	for _, key := range CandidateOptions {
		c.recorder.IncProbe(metrics.ProbeOption)
		_, ok, err := c.options.GetOption(ctx, key)
		if err != nil {
			c.log.Warn("fresh install: probing option %s: %v", key, err)
			continue
		}
		if ok {
			return StateExisting, "base tables hold data and option " + key + " is set"
		}
	}

	// TODO: revisit once we know who seeds data without configuration; for
	// now an unconfigured install with data is still treated as fresh.
	return StateFresh, "base tables hold data but no configuration option is set"
}
