// Package logging configures the zerolog console writer this module uses
// for structured, leveled logging, following the "layer"-prefixed
// formatting convention of the reference stack this repository is built
// from: each logger carries a "component" field instead of writing the
// level abbreviation, and the component is rendered as a colored prefix.
package logging

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var componentColor = map[string]string{
	"clock":   "\x1b[35m", // magenta
	"process": "\x1b[32m", // green
	"chain":   "\x1b[36m", // cyan
	"config":  "\x1b[33m", // yellow
}

const defaultColor = "\x1b[37m" // white

// Setup sets zerolog's global level and returns a root logger at that
// level that writes through a component-prefixed console writer.
func Setup(level zerolog.Level) zerolog.Logger {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	output.FormatLevel = func(i interface{}) string {
		return ""
	}
	output.FormatPrepare = func(evt map[string]interface{}) error {
		component, _ := evt["component"].(string)
		color, ok := componentColor[component]
		if !ok {
			color = defaultColor
		}
		prefix := fmt.Sprintf("%s[%-8s]\x1b[0m", color, component)
		if msg, ok := evt["message"].(string); ok {
			evt["message"] = fmt.Sprintf("%s %s", prefix, msg)
		} else {
			evt["message"] = prefix
		}
		delete(evt, "component")
		return nil
	}
	zerolog.SetGlobalLevel(level)
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

// For returns a child logger tagged with the given component name, for
// packages that receive a logger rather than reaching for a global one.
func For(root zerolog.Logger, component string) zerolog.Logger {
	return root.With().Str("component", component).Logger()
}
