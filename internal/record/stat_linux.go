//go:build linux

package record

import (
	"fmt"
	"os"
	"syscall"
	"time"
)

// extraTimes returns change and access times from the raw stat.
// The fallback of mtime keeps records well formed on unusual filesystems.
func extraTimes(info os.FileInfo) (created, accessed time.Time) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info.ModTime(), info.ModTime()
	}
	created = time.Unix(st.Ctim.Sec, st.Ctim.Nsec)
	accessed = time.Unix(st.Atim.Sec, st.Atim.Nsec)
	return created, accessed
}

func ownership(info os.FileInfo) (mode *string, uid, gid *int) {
	m := fmt.Sprintf("%04o", info.Mode().Perm())
	mode = &m
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		u, g := int(st.Uid), int(st.Gid)
		uid, gid = &u, &g
	}
	return mode, uid, gid
}

func hiddenAttr(string) bool { return false }
