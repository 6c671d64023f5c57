package common

import (
	"flag"
	"time"
)

var Version = "v0.0.0"
var StartTime = time.Now().Unix()

var (
	Port          = flag.Int("port", 3001, "the listening port")
	PrintVersion  = flag.Bool("version", false, "print version and exit")
	PrintHelpFlag = flag.Bool("help", false, "print help and exit")
	LogDir        = flag.String("log-dir", "", "specify the log directory")
	UploadPathArg = flag.String("upload-path", "", "directory holding the uploaded files")
	SQLitePathArg = flag.String("sqlite-path", "", "path of the upload index database")
	EnableGzip    = flag.Bool("enable-gzip", true, "compress API responses with gzip")
	ConfigFileArg = flag.String("config", "", "path of the ini config file")
	LocaleDirArg  = flag.String("locale-dir", "", "directory of <lang>.json files overriding the built-in messages")
)

var UploadPath = "uploads"
var SQLitePath = "data/file-server.db"

// IndexEnabled keeps an upload record per stored file so listings can report
// the original filename and a stable id.
var IndexEnabled = true

var RedisEnabled = true

// CORSOrigins is the CORS allow-list; "*" allows any origin.
var CORSOrigins = []string{"*"}

// RateLimitRPS and RateLimitBurst bound API requests per client IP.
var RateLimitRPS = 20.0
var RateLimitBurst = 40

// MaxFilesPerRequest bounds the file parts of a batch upload.
const MaxFilesPerRequest = 10

// RequestBodyOverhead is the multipart framing allowance added on top of the
// file bytes when capping request bodies.
const RequestBodyOverhead int64 = 1 << 20
