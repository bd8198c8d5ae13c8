package push

import "context"

// Fake is an in-process Channel for tests and for running without a
// configured push endpoint.
type Fake struct {
	*fanout
}

func NewFake() *Fake {
	return &Fake{fanout: newFanout()}
}

func (f *Fake) Subscribe(fn Handler) func() {
	return f.subscribe(fn)
}

// Emit delivers an event to all subscribers synchronously.
func (f *Fake) Emit(ev Event) {
	f.dispatch(ev)
}

func (f *Fake) Run(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}
