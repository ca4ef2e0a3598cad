package logging

import (
	"io"
	"os"
	"strings"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/apex/log/handlers/json"
	"github.com/apex/log/handlers/text"
)

// Setup configures the global apex logger. Unknown formats fall back to text
// and unknown levels fall back to info.
func Setup(level, format string) {
	setup(os.Stderr, level, format)
}

func setup(w io.Writer, level, format string) {
	log.SetHandler(handlerFor(w, format))

	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = log.InfoLevel
		log.Warnf("Unknown log level %q, using info", level)
	}
	log.SetLevel(lvl)
}

func handlerFor(w io.Writer, format string) log.Handler {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return json.New(w)
	case "cli":
		return cli.New(w)
	default:
		return text.New(w)
	}
}
