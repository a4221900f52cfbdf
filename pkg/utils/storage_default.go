//go:build !android

package utils

// EnsureStorageDir 桌面平台由 gdata 自行创建目录
func EnsureStorageDir() error {
	return nil
}

// GetStoragePath 桌面平台不需要额外记录存储目录
func GetStoragePath() string {
	return ""
}
