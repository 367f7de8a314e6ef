package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// SysHealth is a snapshot of process and storage usage.
type SysHealth struct {
	AllocMB      uint64
	SysMB        uint64
	NumGC        uint32
	Goroutines   int
	DataDiskSize string
	HistoryFiles int
	HistorySize  string
}

// GetSysHealth collects runtime memory figures and the on-disk footprint of
// the database directory and the history store.
func GetSysHealth(dataPath, historyDir string) SysHealth {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	dataSize, _ := dirUsage(dataPath, "")
	historySize, historyFiles := dirUsage(historyDir, "history_")

	return SysHealth{
		AllocMB:      m.Alloc / 1024 / 1024,
		SysMB:        m.Sys / 1024 / 1024,
		NumGC:        m.NumGC,
		Goroutines:   runtime.NumGoroutine(),
		DataDiskSize: humanSize(dataSize),
		HistoryFiles: historyFiles,
		HistorySize:  humanSize(historySize),
	}
}

// dirUsage sums the size of regular files under path whose name starts with prefix.
func dirUsage(path, prefix string) (int64, int) {
	var size int64
	var files int
	_ = filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasPrefix(info.Name(), prefix) {
			size += info.Size()
			files++
		}
		return nil
	})
	return size, files
}

func humanSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
