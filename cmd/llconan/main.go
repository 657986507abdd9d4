package main

import "github.com/goplus/llconan/cmd/llconan/internal"

func main() {
	internal.Execute()
}
