package subscribe

import (
	"encoding/json"

	"github.com/kai-kondo/OceanTribe/app"
	"github.com/kai-kondo/OceanTribe/dispatch"
)

// Route wraps store so every subscription snapshot is posted onto run before
// it reaches its consumer. Store implementations deliver from their own
// goroutines; routing is what puts the whole layer back on one thread of
// execution. With dispatch.Inline the wrapper is a passthrough.
func Route(store app.Store, run dispatch.Runner) app.Store {
	return routedStore{Store: store, run: run}
}

type routedStore struct {
	app.Store
	run dispatch.Runner
}

func (s routedStore) Subscribe(path string, fn func(json.RawMessage)) func() {
	return s.Store.Subscribe(path, func(raw json.RawMessage) {
		s.run.Post(func() { fn(raw) })
	})
}
