//go:build darwin

package record

import (
	"fmt"
	"os"
	"syscall"
	"time"
)

func extraTimes(info os.FileInfo) (created, accessed time.Time) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info.ModTime(), info.ModTime()
	}
	// Darwin exposes a true birth time.
	created = time.Unix(st.Birthtimespec.Sec, st.Birthtimespec.Nsec)
	accessed = time.Unix(st.Atimespec.Sec, st.Atimespec.Nsec)
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
