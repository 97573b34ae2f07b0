//go:build !(linux || darwin || dragonfly || freebsd || netbsd || openbsd)

package discovery

import "syscall"

// 其他平台不设置端口复用
func reusePort(_, _ string, _ syscall.RawConn) error {
	return nil
}
