package main

import (
	"github.com/mj1618/pinit/cmd"

	_ "github.com/mj1618/pinit/internal/platform/win32"
)

func main() {
	cmd.Execute()
}
