// Package controller runs named actions over a queue of data records.
//
// A Controller is bound to a page.ViewType and a handler object. Run takes
// the queued records in order and, for every record, runs each requested
// action between the handler's BeforeEach and AfterEach hooks. BeforeAll and
// AfterAll wrap the whole run. The queue is empty when Run returns.
//
// Actions are resolved by name: first the table built with WithAction, then
// an exported handler method named after the action ("create_user" resolves
// to CreateUser) with the Action signature, then the built-in "populate" and
// "verify" passes.
package controller

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/entrhq/pagekit/pkg/element"
	"github.com/entrhq/pagekit/pkg/logging"
	"github.com/entrhq/pagekit/pkg/model"
	"github.com/entrhq/pagekit/pkg/page"
)

var debugLog *logging.Logger

func init() {
	var err error
	debugLog, err = logging.NewLogger("controller")
	if err != nil {
		debugLog.Warnf("Failed to initialize controller logger, using stderr fallback: %v", err)
	}
}

// Action runs one named action for one record.
type Action func(ctx context.Context, s *Step) error

// BeforeAller is implemented by handlers that set up a run.
type BeforeAller interface {
	BeforeAll(ctx context.Context) error
}

// AfterAller is implemented by handlers that tear down a run.
type AfterAller interface {
	AfterAll(ctx context.Context) error
}

// BeforeEacher is implemented by handlers that prepare every action.
type BeforeEacher interface {
	BeforeEach(ctx context.Context, s *Step) error
}

// AfterEacher is implemented by handlers that clean up after every action.
type AfterEacher interface {
	AfterEach(ctx context.Context, s *Step) error
}

// ActionNotFoundError is returned by Run when an action name resolves to nothing.
type ActionNotFoundError struct {
	Action  string
	Handler string
}

func (e *ActionNotFoundError) Error() string {
	return fmt.Sprintf("action %q not found on %s", e.Action, e.Handler)
}

// Controller drives records through actions on one view type.
type Controller struct {
	view    *page.ViewType
	handler any
	records *model.Queue
	initial []model.Record
	actions map[string]Action
	driver  element.Driver
	log     *logging.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithRecord queues r as an initial record. Initial records are pushed after
// every option is applied, so they land on the queue given to WithQueue
// regardless of option order.
func WithRecord(r model.Record) Option {
	return func(c *Controller) {
		c.initial = append(c.initial, r)
	}
}

// WithMap queues a plain map as the initial record.
func WithMap(m map[string]any) Option {
	return WithRecord(model.Map(m))
}

// WithQueue makes the controller use q as its record queue. A nil q is ignored.
func WithQueue(q *model.Queue) Option {
	return func(c *Controller) {
		if q != nil {
			c.records = q
		}
	}
}

// WithAction registers fn under name. Registered actions take precedence
// over handler methods.
func WithAction(name string, fn Action) Option {
	return func(c *Controller) {
		c.actions[name] = fn
	}
}

// WithDriver binds the views created for each record to driver.
func WithDriver(driver element.Driver) Option {
	return func(c *Controller) {
		c.driver = driver
	}
}

// WithLogger replaces the package logger. A nil log is ignored.
func WithLogger(log *logging.Logger) Option {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates a controller for view. handler may be nil or any value whose
// methods implement actions and hooks.
func New(view *page.ViewType, handler any, opts ...Option) *Controller {
	c := &Controller{
		view:    view,
		handler: handler,
		records: model.NewQueue(),
		actions: make(map[string]Action),
		log:     debugLog,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.records.Push(c.initial...)
	c.initial = nil
	return c
}

// View returns the view type the controller is bound to.
func (c *Controller) View() *page.ViewType {
	return c.view
}

// Records returns the mutable record queue.
func (c *Controller) Records() *model.Queue {
	return c.records
}

// Run executes actions for every queued record, or once with an empty record
// when nothing is queued. The first failure stops the run: remaining records
// are skipped, but AfterEach for the failed step and AfterAll still run. The
// queue is cleared in every case.
func (c *Controller) Run(ctx context.Context, actions ...string) (err error) {
	defer c.records.Clear()

	if len(actions) == 0 {
		return errors.New("no actions given")
	}
	resolved := make([]Action, len(actions))
	for i, name := range actions {
		fn, err := c.resolve(name)
		if err != nil {
			return err
		}
		resolved[i] = fn
	}

	records := c.records.All()
	if len(records) == 0 {
		records = []model.Record{model.Map{}}
	}
	c.log.Infof("running %s over %d record(s) on %s", strings.Join(actions, ", "), len(records), c.view.Name())

	if err := c.beforeAll(ctx); err != nil {
		return errors.Join(err, c.afterAll(ctx))
	}
	defer func() {
		if afterErr := c.afterAll(ctx); afterErr != nil {
			err = errors.Join(err, afterErr)
		}
	}()

	for i, record := range records {
		view := c.view.New(c.driver)
		for j, name := range actions {
			step := &Step{View: view, Record: record, Action: name, Index: i}
			if err := c.runStep(ctx, step, resolved[j]); err != nil {
				c.log.Errorf("%v; skipping %d remaining record(s)", err, len(records)-i-1)
				return err
			}
		}
	}
	c.log.Infof("finished %s over %d record(s)", strings.Join(actions, ", "), len(records))
	return nil
}

func (c *Controller) runStep(ctx context.Context, step *Step, fn Action) (err error) {
	defer func() {
		if afterErr := c.afterEach(ctx, step); afterErr != nil {
			err = errors.Join(err, afterErr)
		}
	}()

	if h, ok := c.handler.(BeforeEacher); ok {
		if err := h.BeforeEach(ctx, step); err != nil {
			return fmt.Errorf("before_each for %s on record %d: %w", step.Action, step.Index, err)
		}
	}
	c.log.Debugf("running %s on record %d", step.Action, step.Index)
	if err := fn(ctx, step); err != nil {
		return fmt.Errorf("action %s on record %d: %w", step.Action, step.Index, err)
	}
	return nil
}

func (c *Controller) beforeAll(ctx context.Context) error {
	if h, ok := c.handler.(BeforeAller); ok {
		if err := h.BeforeAll(ctx); err != nil {
			return fmt.Errorf("before_all: %w", err)
		}
	}
	return nil
}

func (c *Controller) afterAll(ctx context.Context) error {
	if h, ok := c.handler.(AfterAller); ok {
		if err := h.AfterAll(ctx); err != nil {
			return fmt.Errorf("after_all: %w", err)
		}
	}
	return nil
}

func (c *Controller) afterEach(ctx context.Context, step *Step) error {
	if h, ok := c.handler.(AfterEacher); ok {
		if err := h.AfterEach(ctx, step); err != nil {
			return fmt.Errorf("after_each for %s on record %d: %w", step.Action, step.Index, err)
		}
	}
	return nil
}

var actionType = reflect.TypeOf((*Action)(nil)).Elem()

func (c *Controller) resolve(name string) (Action, error) {
	if fn, ok := c.actions[name]; ok {
		return fn, nil
	}

	if c.handler != nil {
		method := reflect.ValueOf(c.handler).MethodByName(methodName(name))
		if method.IsValid() {
			if !method.Type().ConvertibleTo(actionType) {
				return nil, fmt.Errorf("action %q: method %s is %s, want func(context.Context, *controller.Step) error",
					name, methodName(name), method.Type())
			}
			return method.Convert(actionType).Interface().(Action), nil
		}
	}

	switch name {
	case "populate":
		return populateAction, nil
	case "verify":
		return verifyAction, nil
	}
	return nil, &ActionNotFoundError{Action: name, Handler: fmt.Sprintf("%T", c.handler)}
}

// methodName converts an action name such as "create_user" or "create-user"
// into the exported method name CreateUser.
func methodName(action string) string {
	var b strings.Builder
	upper := true
	for _, r := range action {
		if r == '_' || r == '-' || r == ' ' {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
