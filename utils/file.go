package utils

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	FILE_EXT_CPG = ".cpg"
	FILE_EXT_TMP = ".tmp"
)

// 确保文件所在目录存在
func EnsureDir(path string) (err error) {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return
	}
	err = os.MkdirAll(dir, os.ModePerm)
	return
}

// 同目录下的唯一临时文件路径，保留原扩展名以便驱动识别
func TempSibling(path string) string {
	ext := filepath.Ext(path)
	return filepath.Join(filepath.Dir(path), "."+GetFilenameWithoutExt(path)+"_"+uuid.NewString()+FILE_EXT_TMP+ext)
}

func GetFilenameWithoutExt(path string) (name string) {
	name = filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(path))
	return
}

func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// 读取shp旁的cpg编码声明，没有则返回空串
func ReadCpg(shp string) (enc string) {
	cpg := strings.TrimSuffix(shp, filepath.Ext(shp)) + FILE_EXT_CPG
	b, err := os.ReadFile(cpg)
	if err != nil {
		return
	}
	enc = strings.TrimSpace(string(b))
	return
}
