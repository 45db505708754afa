package path

import (
	"os"
	"path/filepath"
	"runtime"
)

// RootEnv 部署時可直接指定專案根目錄
const RootEnv = "APP_ROOT"

// RootPath 專案根目錄：APP_ROOT > 含 go.mod 的工作目錄 > 原始碼位置
func RootPath() string {
	if root := os.Getenv(RootEnv); root != "" {
		return filepath.Clean(root)
	}
	if wd, err := os.Getwd(); err == nil {
		if ok, _ := Exists(filepath.Join(wd, "go.mod")); ok {
			return wd
		}
	}
	// /project/utils/path/path.go → /project
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		wd, _ := os.Getwd()
		return wd
	}
	return filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
}

// Resolve 相對路徑以 root 為基準
func Resolve(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

// Exists 路径是否存在
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
