// Package command -----------------------------
// @file      : string.go
// @author    : hcjjj
// @contact   : hcjjj@foxmail.com
// @time      : 2024/1/13 20:37
// -------------------------------------------
package command

// GET k1
func parseGet(args [][]byte) Command {
	return Get{Key: string(args[0])}
}

// SET k1 v
func parseSet(args [][]byte) Command {
	return Set{Key: string(args[0]), Value: args[1]}
}

func init() {
	registerCommand("Get", parseGet, 2)
	registerCommand("Set", parseSet, 3)
}
