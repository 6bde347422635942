// Package fileurl 文件路径相关的小工具
package fileurl

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// IsDir 判断所给路径是否为文件夹
func IsDir(path string) bool {
	s, err := os.Stat(path)
	return err == nil && s.IsDir()
}

// IsExist reports whether dst exists; permission errors count as existing
// IsExist 判断所给路径是否存在，无权限访问时视为存在
func IsExist(dst string) bool {
	_, err := os.Stat(dst)
	return err == nil || !errors.Is(err, fs.ErrNotExist)
}

// FirstExisting returns the first candidate that exists, or "" when none do
// FirstExisting 返回第一个存在的候选路径，都不存在时返回空字符串
func FirstExisting(candidates ...string) string {
	for _, p := range candidates {
		if p != "" && IsExist(p) {
			return p
		}
	}
	return ""
}

// CreatePath creates the parent directory of dst
// CreatePath 创建 dst 的上级目录
func CreatePath(dst string, perm os.FileMode) error {
	return os.MkdirAll(filepath.Dir(dst), perm)
}
