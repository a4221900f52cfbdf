//go:build android

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// androidDataRoot gdata 在 Android 上的存储根目录
const androidDataRoot = "/data/data"

// EnsureStorageDir 在打开 gdata 之前准备 saves 目录
//
// gdata 使用 /data/data/{package}/ 作为根目录，但不会创建子目录。
// 滚动位置和窗口设置都写在 saves 下，目录不可写时返回错误，
// 调用方据此退回到进程内存储。
func EnsureStorageDir() error {
	root := GetStoragePath()
	if root == "" {
		return fmt.Errorf("failed to detect Android package name")
	}

	savesDir := filepath.Join(root, "saves")
	if err := os.MkdirAll(savesDir, 0755); err != nil {
		return fmt.Errorf("failed to create saves directory %s: %w", savesDir, err)
	}

	probe := filepath.Join(savesDir, ".timeline_probe")
	if err := os.WriteFile(probe, nil, 0644); err != nil {
		return fmt.Errorf("saves directory %s is not writable: %w", savesDir, err)
	}
	_ = os.Remove(probe)
	return nil
}

// GetStoragePath 返回应用的存储根目录，无法识别包名时返回空字符串
func GetStoragePath() string {
	pkg, err := androidPackageName()
	if err != nil {
		return ""
	}
	return filepath.Join(androidDataRoot, pkg)
}

// androidPackageName 从 /proc/self/cmdline 读取包名
func androidPackageName() (string, error) {
	data, err := os.ReadFile("/proc/self/cmdline")
	if err != nil {
		return "", err
	}
	name := strings.Map(func(r rune) rune {
		if r == 0 || r == '\n' {
			return -1
		}
		return r
	}, string(data))
	if name == "" {
		return "", fmt.Errorf("empty /proc/self/cmdline")
	}
	return name, nil
}
