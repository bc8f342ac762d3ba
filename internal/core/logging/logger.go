package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component returns a child of the global logger tagged cmp=name. Call it
// after the root command has configured log.Logger.
func Component(name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger()
}
