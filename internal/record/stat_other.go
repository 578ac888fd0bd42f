//go:build !linux && !darwin && !windows

package record

import (
	"fmt"
	"os"
	"time"
)

func extraTimes(info os.FileInfo) (created, accessed time.Time) {
	return info.ModTime(), info.ModTime()
}

func ownership(info os.FileInfo) (mode *string, uid, gid *int) {
	m := fmt.Sprintf("%04o", info.Mode().Perm())
	return &m, nil, nil
}

func hiddenAttr(string) bool { return false }
