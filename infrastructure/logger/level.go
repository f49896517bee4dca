package logger

import "strings"

// Level gates log output. A logger configured at some level drops every
// message written below it.
type Level uint32

// The levels, from noisiest to silent.
const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelCritical
	LevelOff
)

var levelTags = [...]string{"TRC", "DBG", "INF", "WRN", "ERR", "CRT", "OFF"}

var levelsByName = map[string]Level{
	"trace":    LevelTrace,
	"trc":      LevelTrace,
	"debug":    LevelDebug,
	"dbg":      LevelDebug,
	"info":     LevelInfo,
	"inf":      LevelInfo,
	"warn":     LevelWarn,
	"wrn":      LevelWarn,
	"error":    LevelError,
	"err":      LevelError,
	"critical": LevelCritical,
	"crt":      LevelCritical,
	"off":      LevelOff,
}

// LevelFromString parses a level by its long or short name, case
// insensitively. Unrecognized input yields LevelInfo and false.
func LevelFromString(s string) (l Level, ok bool) {
	level, ok := levelsByName[strings.ToLower(s)]
	if !ok {
		return LevelInfo, false
	}
	return level, true
}

// String returns the three-letter tag written into log lines
func (l Level) String() string {
	if l >= LevelOff {
		return "OFF"
	}
	return levelTags[l]
}
