// Package safe_random 包装 crypto/rand, 供 keystore salt / nonce 与锁 token 使用
package safe_random

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
)

// Reader 随机源, 测试中可替换为确定性输入
var Reader io.Reader = rand.Reader

// Bytes 读取 n 字节随机数, 随机源不足 n 字节时返回错误
func Bytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(Reader, b); err != nil {
		return nil, fmt.Errorf("生成随机字节失败: %w", err)
	}
	return b, nil
}

// Hex n 字节随机数的 hex 编码 (长度 2n)
func Hex(n int) (string, error) {
	b, err := Bytes(n)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
