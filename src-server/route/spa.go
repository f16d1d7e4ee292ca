package route

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"calboard/src-server/utils"
)

// SPA serves the static web client (calendar page, scripts, service
// worker), falling back to index.html for unknown paths.
func SPA(muxer *http.ServeMux, as *utils.AppState) {
	files := http.FS(os.DirFS(as.Config.GetStaticWebClientDir()))
	indexFile, err := files.Open("index.html")
	if err != nil {
		slog.Error("Can't open index.html", "err", err)
		return
	}
	indexFileStat, err := indexFile.Stat()
	if err != nil {
		slog.Error("Can't get index.html stat", "err", err)
		return
	}
	indexFile.Close()

	// each fallback response opens its own handle; ServeContent seeks,
	// so a shared one would race under concurrent requests
	serveIndex := func(w http.ResponseWriter, r *http.Request) {
		file, err := files.Open("index.html")
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't open index.html"))
			return
		}
		defer file.Close()
		http.ServeContent(w, r, indexFileStat.Name(), indexFileStat.ModTime(), file)
	}

	muxer.HandleFunc("GET /{filepath...}", func(w http.ResponseWriter, r *http.Request) {
		filepath := filepath.Clean(r.PathValue("filepath"))
		if filepath == "." {
			filepath = "index.html"
		}

		file, err := files.Open(filepath)
		if err != nil {
			serveIndex(w, r)
			return
		}
		defer file.Close()

		stat, err := file.Stat()
		if err != nil {
			serveIndex(w, r)
			return
		}

		http.ServeContent(w, r, stat.Name(), stat.ModTime(), file)
	})
}
