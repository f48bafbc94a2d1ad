// Package dict -----------------------------
// @file      : dict.go
// @author    : hcjjj
// @contact   : hcjjj@foxmail.com
// @time      : 2024/1/4 19:03
// -------------------------------------------
package dict

// Dict 所有连接共享的 key-value 存储
// 每个方法自己加锁，锁的范围只有这一次操作
type Dict interface {
	Get(key string) (val []byte, exists bool)
	// Put 返回新插入了几个 key（覆盖返回 0）
	Put(key string, val []byte) (result int)
	Len() int
	Clear()
}
