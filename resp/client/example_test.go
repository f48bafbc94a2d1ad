package client_test

import (
	"fmt"

	"github.com/majimaccho/my-redis/resp/client"
)

func ExampleClient() {
	c, err := client.MakeClient("127.0.0.1:6379")
	if err != nil {
		fmt.Println(err)
		return
	}
	defer c.Close()

	if err := c.Set("hello", []byte("world")); err != nil {
		fmt.Println(err)
		return
	}
	val, ok, err := c.Get("hello")
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(ok, string(val))
}
