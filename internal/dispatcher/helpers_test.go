package dispatcher_test

import (
	"sync"

	"github.com/dshills/cmdroute/internal/actor"
	"github.com/dshills/cmdroute/internal/command"
	"github.com/dshills/cmdroute/internal/permission"
)

type testActor struct {
	name   string
	kind   actor.Kind
	grants *permission.Grants

	mu       sync.Mutex
	messages []string
	required [][]string
	usages   []string
}

func newActor(name string, kind actor.Kind, nodes ...string) *testActor {
	return &testActor{name: name, kind: kind, grants: permission.NewGrants(nodes...)}
}

func (a *testActor) ID() string                  { return "id-" + a.name }
func (a *testActor) Name() string                { return a.name }
func (a *testActor) Kind() actor.Kind            { return a.kind }
func (a *testActor) HasPermission(n string) bool { return a.grants.Has(n) }

func (a *testActor) Message(text string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.messages = append(a.messages, text)
}

func (a *testActor) SendRequiredArguments(_ *command.Command, required []command.Arg, usage string) {
	names := make([]string, len(required))
	for i, r := range required {
		names[i] = r.Name
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.required = append(a.required, names)
	a.usages = append(a.usages, usage)
}

func (a *testActor) Messages() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.messages...)
}

// recorder is a handler that records its invocations.
type recorder struct {
	mu     sync.Mutex
	calls  []*command.Invocation
	result bool
	err    error
}

func newRecorder() *recorder {
	return &recorder{result: true}
}

func (r *recorder) OnCommand(inv *command.Invocation) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, inv)
	return r.result, r.err
}

func (r *recorder) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func (r *recorder) Last() *command.Invocation {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return nil
	}
	return r.calls[len(r.calls)-1]
}
