package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/jrick/logrotate/rotator"
	"github.com/pkg/errors"
)

const normalLogSize = 512

// Flags that tweak what a Backend writes with each message.
const (
	// LogFlagLongFile appends the full path and line of the call site,
	// e.g. /a/b/c/main.go:123.
	LogFlagLongFile uint32 = 1 << iota

	// LogFlagShortFile appends only the file name and line, e.g.
	// main.go:123. Wins over LogFlagLongFile when both are set.
	LogFlagShortFile
)

// defaultFlags is parsed from the LOGFLAGS environment variable. It is a
// package variable rather than an init function because other package
// variables depend on it, and variable initialization runs before init.
var defaultFlags = parseFlagsEnv()

// LOGFLAGS takes a comma separated list of flag names.
func parseFlagsEnv() (flags uint32) {
	for _, f := range strings.Split(os.Getenv("LOGFLAGS"), ",") {
		switch f {
		case "longfile":
			flags |= LogFlagLongFile
		case "shortfile":
			flags |= LogFlagShortFile
		}
	}
	return flags
}

const (
	logsBuffer         = 0
	defaultThresholdKB = 100 * 1000 // rotate files at 100 MB
	defaultMaxRolls    = 8          // keep the last 8 rotated files
)

// Backend fans log entries out to a set of writers. Every subsystem Logger
// created from it funnels entries into a single channel, so writes to each
// writer are serialized.
type Backend struct {
	flag      uint32
	isRunning uint32
	writers   []logWriter
	writeChan chan logEntry

	// syncClose is held by the write loop for its whole lifetime, which
	// lets Close wait for the last entry to be flushed.
	syncClose sync.Mutex
}

// NewBackend creates a backend with flags taken from the LOGFLAGS
// environment variable
func NewBackend() *Backend {
	return NewBackendWithFlags(defaultFlags)
}

// NewBackendWithFlags creates a backend with an explicit flag set,
// ignoring LOGFLAGS
func NewBackendWithFlags(flags uint32) *Backend {
	return &Backend{flag: flags, writeChan: make(chan logEntry, logsBuffer)}
}

type logWriter interface {
	io.WriteCloser
	LogLevel() Level
}

type logWriterWrap struct {
	io.WriteCloser
	logLevel Level
}

func (lw logWriterWrap) LogLevel() Level {
	return lw.logLevel
}

// AddLogWriter registers an io.WriteCloser that receives every entry at or
// above logLevel. Writers may only be added before Run is called.
func (b *Backend) AddLogWriter(logWriter io.WriteCloser, logLevel Level) error {
	if b.IsRunning() {
		return errors.New("The logger is already running")
	}
	b.writers = append(b.writers, logWriterWrap{
		WriteCloser: logWriter,
		logLevel:    logLevel,
	})
	return nil
}

// AddLogFile registers a rotated log file with the default rotation
// settings, creating the file if needed
func (b *Backend) AddLogFile(logFile string, logLevel Level) error {
	return b.AddLogFileWithCustomRotator(logFile, logLevel, defaultThresholdKB, defaultMaxRolls)
}

// AddLogFileWithCustomRotator registers a rotated log file with explicit
// rotation settings, creating the file and its directory if needed
func (b *Backend) AddLogFileWithCustomRotator(logFile string, logLevel Level, thresholdKB int64, maxRolls int) error {
	if b.IsRunning() {
		return errors.New("The logger is already running")
	}
	logDir, _ := filepath.Split(logFile)
	// An empty logDir means the file lives in the cwd.
	if logDir != "" {
		err := os.MkdirAll(logDir, 0700)
		if err != nil {
			return errors.Errorf("failed to create log directory: %+v", err)
		}
	}
	r, err := rotator.New(logFile, thresholdKB, false, maxRolls)
	if err != nil {
		return errors.Errorf("failed to create file rotator: %s", err)
	}
	b.writers = append(b.writers, logWriterWrap{
		WriteCloser: r,
		logLevel:    logLevel,
	})
	return nil
}

// Run starts the backend's write loop in its own goroutine. It may only be
// called once.
func (b *Backend) Run() error {
	if !atomic.CompareAndSwapUint32(&b.isRunning, 0, 1) {
		return errors.New("The logger is already running")
	}
	go func() {
		defer func() {
			if err := recover(); err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "Fatal error in logger.Backend goroutine: %+v\n", err)
				_, _ = fmt.Fprintf(os.Stderr, "Goroutine stacktrace: %s\n", debug.Stack())
			}
		}()
		b.runBlocking()
	}()
	return nil
}

func (b *Backend) runBlocking() {
	defer atomic.StoreUint32(&b.isRunning, 0)
	b.syncClose.Lock()
	defer b.syncClose.Unlock()

	for entry := range b.writeChan {
		for _, writer := range b.writers {
			if entry.level >= writer.LogLevel() {
				_, _ = writer.Write(entry.log)
			}
		}
	}
}

// IsRunning reports whether Run was called and the write loop is alive
func (b *Backend) IsRunning() bool {
	return atomic.LoadUint32(&b.isRunning) != 0
}

// Close stops the write loop, waits for buffered entries to be flushed and
// closes all registered writers
func (b *Backend) Close() {
	close(b.writeChan)
	// Taking syncClose blocks until the write loop drains and exits.
	b.syncClose.Lock()
	defer b.syncClose.Unlock()
	for _, writer := range b.writers {
		_ = writer.Close()
	}
}

// Logger derives a subsystem logger that writes through this backend. The
// tag is prepended to every message and the level starts at info.
func (b *Backend) Logger(subsystemTag string) *Logger {
	return &Logger{lvl: LevelInfo, tag: subsystemTag, b: b, writeChan: b.writeChan}
}
