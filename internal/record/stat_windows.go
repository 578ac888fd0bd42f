//go:build windows

package record

import (
	"os"
	"syscall"
	"time"
)

func extraTimes(info os.FileInfo) (created, accessed time.Time) {
	st, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return info.ModTime(), info.ModTime()
	}
	created = time.Unix(0, st.CreationTime.Nanoseconds())
	accessed = time.Unix(0, st.LastAccessTime.Nanoseconds())
	return created, accessed
}

// ownership: POSIX mode and owner ids have no Windows equivalent; the
// record schema keeps them null there.
func ownership(os.FileInfo) (mode *string, uid, gid *int) {
	return nil, nil, nil
}

func hiddenAttr(path string) bool {
	p, err := syscall.UTF16PtrFromString(path)
	if err != nil {
		return false
	}
	attrs, err := syscall.GetFileAttributes(p)
	if err != nil {
		return false
	}
	return attrs&syscall.FILE_ATTRIBUTE_HIDDEN != 0
}
