package browser

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/atomicstack/xdialog/internal/logging"
	"github.com/atomicstack/xdialog/internal/logging/events"
	"github.com/atomicstack/xdialog/internal/theme"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || origin == "http://"+r.Host {
			return true
		}
		for _, prefix := range []string{"http://localhost", "http://127.0.0.1", "http://[::1]"} {
			if strings.HasPrefix(origin, prefix) {
				return true
			}
		}
		return false
	},
}

// Handler serves window pages under /w/{token} and their sockets under
// /w/{token}/ws. Unknown tokens are 404.
func (e *Engine) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /w/{token}", e.handlePage)
	mux.HandleFunc("GET /w/{token}/ws", e.handleSocket)
	return mux
}

func (e *Engine) lookup(token string) (*window, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	w, ok := e.byToken[token]
	return w, ok
}

func (e *Engine) handlePage(rw http.ResponseWriter, r *http.Request) {
	w, ok := e.lookup(r.PathValue("token"))
	if !ok {
		http.NotFound(rw, r)
		return
	}
	e.mu.Lock()
	data := pageData{Title: w.state.Title, Palette: paletteCSS(w.palette)}
	e.mu.Unlock()
	rw.Header().Set("Content-Type", "text/html; charset=utf-8")
	rw.Header().Set("Cache-Control", "no-store")
	if err := pageTemplate.Execute(rw, data); err != nil {
		logging.Error(fmt.Errorf("browser: render page: %w", err))
	}
}

func (e *Engine) handleSocket(rw http.ResponseWriter, r *http.Request) {
	if _, ok := e.lookup(r.PathValue("token")); !ok {
		http.NotFound(rw, r)
		return
	}
	conn, err := upgrader.Upgrade(rw, r, nil)
	if err != nil {
		logging.Error(fmt.Errorf("browser: websocket upgrade: %w", err))
		return
	}
	c := newClient(conn)

	// The window may have closed between lookup and upgrade.
	e.mu.Lock()
	w, ok := e.byToken[r.PathValue("token")]
	if ok {
		w.clients[c] = struct{}{}
		c.enqueue(encode(w.state))
		for _, script := range w.pending {
			c.enqueue(encode(frame{Op: opEval, Script: script}))
		}
		w.pending = nil
	}
	e.mu.Unlock()
	if !ok {
		c.closeSend()
		go c.writePump()
		return
	}

	events.Webview.Connect(uint64(w.id))
	go c.writePump()
	go c.readPump(func(msg pageMessage) {
		if msg.Type == "invoke" {
			e.invoke(w, msg.Arg)
		}
	}, func() {
		e.mu.Lock()
		delete(w.clients, c)
		e.mu.Unlock()
	})
}

// invoke hands arg to the window's callback on a fresh goroutine.
func (e *Engine) invoke(w *window, arg string) {
	if w.onInvoke == nil {
		return
	}
	events.Webview.Invoke(uint64(w.id), len(arg))
	go w.onInvoke(w.id, arg)
}

type pageData struct {
	Title   string
	Palette template.CSS
}

func paletteCSS(p theme.Palette) template.CSS {
	vars := []string{
		"--bg:" + p.Background,
		"--panel:" + p.Panel,
		"--fg:" + p.Foreground,
		"--muted:" + p.Muted,
		"--accent:" + p.Accent,
		"--button:" + p.ButtonFill,
		"--button-border:" + p.ButtonBorder,
	}
	return template.CSS(":root{" + strings.Join(vars, ";") + "}")
}

var pageTemplate = template.Must(template.New("page").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
{{.Palette}}
html,body{margin:0;height:100%;background:var(--bg);color:var(--fg);font-family:system-ui,sans-serif}
#content{box-sizing:border-box;min-height:100%;padding:12px}
body.borderless #content{padding:0}
button{background:var(--button);border:1px solid var(--button-border);color:var(--fg)}
a{color:var(--accent)}
</style>
</head>
<body>
<div id="content"></div>
<script>
(function(){
  var content = document.getElementById("content");
  var sock = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + location.pathname + "/ws");
  window.external = window.external || {};
  window.external.invoke = function(arg){
    sock.send(JSON.stringify({type: "invoke", arg: String(arg)}));
  };
  function setHTML(html){
    content.innerHTML = html;
    content.querySelectorAll("script").forEach(function(old){
      var s = document.createElement("script");
      s.text = old.text;
      old.replaceWith(s);
    });
  }
  function setState(state){
    content.style.display = state === "hidden" ? "none" : "";
    if (state === "fullscreen" && document.documentElement.requestFullscreen) {
      document.documentElement.requestFullscreen().catch(function(){});
    }
  }
  var ops = {
    sync: function(f){
      document.title = f.title || "";
      setHTML(f.html || "");
      document.body.style.zoom = f.zoom || 1;
      document.body.classList.toggle("borderless", !!f.borderless);
      if (f.min_width) content.style.minWidth = f.min_width + "px";
      if (f.min_height) content.style.minHeight = f.min_height + "px";
      setState(f.state);
    },
    title: function(f){ document.title = f.title || ""; },
    set_html: function(f){ setHTML(f.html || ""); },
    position: function(f){ try { window.moveTo(f.x || 0, f.y || 0); } catch (e) {} },
    size: function(f){ try { window.resizeTo(f.width, f.height); } catch (e) {} },
    zoom: function(f){ document.body.style.zoom = f.zoom; },
    state: function(f){ setState(f.state); },
    eval: function(f){ (0, eval)(f.script); },
    close: function(){ sock.close(); try { window.close(); } catch (e) {} }
  };
  sock.onmessage = function(ev){
    ev.data.split("\n").forEach(function(line){
      if (!line) return;
      var f = JSON.parse(line);
      if (ops[f.op]) ops[f.op](f);
    });
  };
})();
</script>
</body>
</html>
`))
