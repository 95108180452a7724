package util

import (
	"fmt"
	"net"
	"os/exec"
	"runtime"
)

// OpenPath 用系统默认程序打开文件或 URL
func OpenPath(target string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", target)
	case "darwin":
		cmd = exec.Command("open", target)
	default:
		cmd = exec.Command("xdg-open", target)
	}

	return cmd.Start()
}

// OpenPathWithFallback 主要方式失败时尝试备选程序
func OpenPathWithFallback(target string) error {
	err := OpenPath(target)
	if err == nil {
		return nil
	}

	switch runtime.GOOS {
	case "windows":
		return exec.Command("explorer", target).Start()
	case "linux":
		for _, opener := range []string{"gio", "gnome-open", "kde-open"} {
			args := []string{target}
			if opener == "gio" {
				args = []string{"open", target}
			}
			if err := exec.Command(opener, args...).Start(); err == nil {
				return nil
			}
		}
	}

	return err
}

// FindAvailablePort 从 startPort 起查找可监听的端口，最多尝试 maxTries 个
func FindAvailablePort(startPort, maxTries int) (int, error) {
	if maxTries <= 0 {
		maxTries = 1
	}
	for port := startPort; port < startPort+maxTries && port <= 65535; port++ {
		ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err != nil {
			continue
		}
		_ = ln.Close()
		return port, nil
	}
	return 0, fmt.Errorf("no available port in [%d, %d)", startPort, startPort+maxTries)
}
