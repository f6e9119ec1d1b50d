package events

import "github.com/atomicstack/xdialog/internal/logging"

type AppTracer struct{}

var App = AppTracer{}

func (AppTracer) Start(payload map[string]interface{}) {
	logging.Trace("app.start", payload)
}

func (AppTracer) Backend(backend, theme string) {
	logging.Trace("app.backend", map[string]interface{}{"backend": backend, "theme": theme})
}

func (AppTracer) MainExited(code int) {
	logging.Trace("app.main.exit", map[string]interface{}{"code": code})
}

func (AppTracer) LoopExited(err error) {
	payload := map[string]interface{}{}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("app.loop.exit", payload)
}
