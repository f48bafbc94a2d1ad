// Package logger -----------------------------
// @file      : files.go
// @author    : hcjjj
// @contact   : hcjjj@foxmail.com
// @time      : 2023/12/15 20:10
// -------------------------------------------
package logger

import (
	"fmt"
	"os"
	"path/filepath"
)

// mustOpen 目录不存在就创建，再以追加的方式打开日志文件
func mustOpen(fileName, dir string) (*os.File, error) {
	_, err := os.Stat(dir)
	if os.IsPermission(err) {
		return nil, fmt.Errorf("permission denied dir: %s", dir)
	}
	if os.IsNotExist(err) {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return nil, fmt.Errorf("error during make dir %s, err: %w", dir, err)
		}
	}
	f, err := os.OpenFile(filepath.Join(dir, fileName), os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("fail to open file, err: %w", err)
	}
	return f, nil
}
