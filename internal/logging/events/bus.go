package events

import "github.com/atomicstack/xdialog/internal/logging"

type BusTracer struct{}

type DispatchTracer struct{}

var (
	Bus      = BusTracer{}
	Dispatch = DispatchTracer{}
)

func (BusTracer) Send(id uint64, command string) {
	logging.Trace("bus.send", map[string]interface{}{"id": id, "command": command})
}

func (BusTracer) SendFailed(id uint64, command string, err error) {
	logging.Trace("bus.send.failed", map[string]interface{}{"id": id, "command": command, "error": err.Error()})
}

func (BusTracer) Silent(id uint64, kind string) {
	logging.Trace("bus.silent", map[string]interface{}{"id": id, "kind": kind})
}

func (BusTracer) Result(id uint64, result string, stored bool) {
	logging.Trace("bus.result", map[string]interface{}{"id": id, "result": result, "stored": stored})
}

func (BusTracer) Timeout(id uint64, waitedMs int64) {
	logging.Trace("bus.timeout", map[string]interface{}{"id": id, "waited_ms": waitedMs})
}

func (DispatchTracer) Command(id uint64, command string) {
	logging.Trace("dispatch.command", map[string]interface{}{"id": id, "command": command})
}

func (DispatchTracer) BackendError(id uint64, command string, err error) {
	logging.Trace("dispatch.backend.error", map[string]interface{}{"id": id, "command": command, "error": err.Error()})
}

func (DispatchTracer) Panic(id uint64, command string, recovered interface{}) {
	logging.Trace("dispatch.panic", map[string]interface{}{"id": id, "command": command, "panic": recovered})
}

func (DispatchTracer) Drained(count int) {
	logging.Trace("dispatch.drained", map[string]interface{}{"count": count})
}

func (DispatchTracer) Terminate(abandoned int) {
	logging.Trace("dispatch.terminate", map[string]interface{}{"abandoned": abandoned})
}
