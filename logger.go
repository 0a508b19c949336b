package spamguard

import (
	"fmt"
	"log"
	"strings"

	"github.com/rs/zerolog"
)

type Logger func(v ...interface{})

func StdLogger(logger *log.Logger) Logger {
	if logger == nil {
		logger = log.Default()
	}
	return func(v ...interface{}) {
		logger.Println(v...)
	}
}

// ZerologLogger writes each message as a warn-level zerolog event.
func ZerologLogger(logger zerolog.Logger) Logger {
	return func(v ...interface{}) {
		logger.Warn().Msg(strings.TrimSuffix(fmt.Sprintln(v...), "\n"))
	}
}

func NopLogger(...interface{}) {}
