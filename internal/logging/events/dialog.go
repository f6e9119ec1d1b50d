package events

import "github.com/atomicstack/xdialog/internal/logging"

type DialogTracer struct{}

type WebviewTracer struct{}

var (
	Dialog  = DialogTracer{}
	Webview = WebviewTracer{}
)

func (DialogTracer) Show(id uint64, title string, buttons int, progress bool) {
	logging.Trace("dialog.show", map[string]interface{}{"id": id, "title": title, "buttons": buttons, "progress": progress})
}

func (DialogTracer) Close(id uint64) {
	logging.Trace("dialog.close", map[string]interface{}{"id": id})
}

func (DialogTracer) Button(id uint64, index int, label string) {
	logging.Trace("dialog.button", map[string]interface{}{"id": id, "index": index, "label": label})
}

func (DialogTracer) Progress(id uint64, value float32, indeterminate bool) {
	logging.Trace("dialog.progress", map[string]interface{}{"id": id, "value": value, "indeterminate": indeterminate})
}

func (WebviewTracer) Show(id uint64, title, url string) {
	logging.Trace("webview.show", map[string]interface{}{"id": id, "title": title, "url": url})
}

func (WebviewTracer) Push(id uint64, op string, clients int) {
	logging.Trace("webview.push", map[string]interface{}{"id": id, "op": op, "clients": clients})
}

func (WebviewTracer) Connect(id uint64) {
	logging.Trace("webview.connect", map[string]interface{}{"id": id})
}

func (WebviewTracer) Invoke(id uint64, size int) {
	logging.Trace("webview.invoke", map[string]interface{}{"id": id, "bytes": size})
}

func (WebviewTracer) Close(id uint64) {
	logging.Trace("webview.close", map[string]interface{}{"id": id})
}
