package model

import (
	"fmt"
	"os"
	"path/filepath"

	"file-server/backend/common"

	"github.com/burugo/thing"
	redisCache "github.com/burugo/thing/drivers/cache/redis"
	"github.com/burugo/thing/drivers/db/sqlite"
)

// InitDB opens the upload index at common.SQLitePath, caching through Redis
// when it is enabled.
func InitDB() (err error) {
	if dir := filepath.Dir(common.SQLitePath); dir != "." && common.SQLitePath != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create database directory %s: %w", dir, err)
		}
	}
	dbAdapter, err := sqlite.NewSQLiteAdapter(common.SQLitePath)
	if err != nil {
		return fmt.Errorf("open sqlite database %s: %w", common.SQLitePath, err)
	}
	var cacheClient thing.CacheClient = nil
	if common.RedisEnabled && common.RDB != nil {
		cacheClient, err = redisCache.NewClient(common.RDB, nil)
		if err != nil {
			return err
		}
	}
	thing.Configure(dbAdapter, cacheClient)

	if err = thing.AutoMigrate(&UploadRecord{}); err != nil {
		return err
	}
	if err := UploadRecordInit(); err != nil {
		return err
	}
	common.SysLog("Upload index initialized: " + common.SQLitePath)
	return nil
}

func CloseDB() error {
	// Thing ORM 不需要显式关闭 DB
	return nil
}
