//go:build !mobile

// Package mobile 是 ebitenmobile bind 的入口
//
// 只有 -tags mobile 时才编译 mobile.go 和 embed.go；
// 普通构建只剩下这个文件，保证 go build ./... 能通过。
package mobile

// Dummy 普通构建下的占位导出
func Dummy() {}
