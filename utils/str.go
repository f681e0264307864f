package utils

import (
	"errors"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
)

const (
	UTF8  = "UTF8"
	UTF_8 = "UTF-8"
)

var (
	ErrUnknownEncoding = errors.New("unknown encoding")
)

func IsUtf8(enc string) bool {
	enc = strings.ToUpper(strings.TrimSpace(enc))
	return enc == UTF_8 || enc == UTF8
}

// 将编码名（含cpg中常见的纯数字代码页，如1252）规范为IANA名称
func CanonicalEncoding(name string) (canon string, err error) {
	name = strings.TrimSpace(name)
	if name == "" {
		err = ErrUnknownEncoding
		return
	}
	if IsUtf8(name) {
		canon = UTF_8
		return
	}
	if isDigits(name) {
		name = "windows-" + name
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		err = ErrUnknownEncoding
		return
	}
	if canon, err = ianaindex.IANA.Name(enc); err != nil {
		err = ErrUnknownEncoding
	}
	return
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
