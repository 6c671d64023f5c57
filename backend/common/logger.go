package common

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	loggerINFO  = "INFO"
	loggerWarn  = "WARN"
	loggerError = "ERR"
)

var setupLogLock sync.Mutex
var setupLogWorking bool
var currentLogDay string

// SetupGinLog points gin's writers, and the SYS logs below, at stdout plus a
// daily log file when --log-dir is set.
func SetupGinLog() {
	setupLogLock.Lock()
	defer setupLogLock.Unlock()
	if *LogDir == "" {
		return
	}
	day := time.Now().Format("20060102")
	if day == currentLogDay {
		return
	}
	if err := os.MkdirAll(*LogDir, 0o755); err != nil {
		log.Fatalf("failed to create log directory %s: %v", *LogDir, err)
	}
	logPath := filepath.Join(*LogDir, fmt.Sprintf("file-server-%s.log", day))
	fd, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Fatal("failed to open log file")
	}
	gin.DefaultWriter = io.MultiWriter(os.Stdout, fd)
	gin.DefaultErrorWriter = io.MultiWriter(os.Stderr, fd)
	currentLogDay = day
}

func SysLog(s string) {
	logHelper(gin.DefaultWriter, loggerINFO, s)
}

func SysWarn(s string) {
	logHelper(gin.DefaultWriter, loggerWarn, s)
}

func SysError(s string) {
	logHelper(gin.DefaultErrorWriter, loggerError, s)
}

func FatalLog(v ...any) {
	t := time.Now()
	_, _ = fmt.Fprintf(gin.DefaultErrorWriter, "[FATAL] %v | %v \n", t.Format("2006/01/02 - 15:04:05"), fmt.Sprint(v...))
	os.Exit(1)
}

func logHelper(w io.Writer, level string, msg string) {
	t := time.Now()
	_, _ = fmt.Fprintf(w, "[%s] %v | %s \n", level, t.Format("2006/01/02 - 15:04:05"), msg)
	if *LogDir != "" {
		rotateLog()
	}
}

// rotateLog reopens the log file once the day changes.
func rotateLog() {
	setupLogLock.Lock()
	if setupLogWorking || time.Now().Format("20060102") == currentLogDay {
		setupLogLock.Unlock()
		return
	}
	setupLogWorking = true
	setupLogLock.Unlock()
	go func() {
		SetupGinLog()
		setupLogLock.Lock()
		setupLogWorking = false
		setupLogLock.Unlock()
	}()
}
