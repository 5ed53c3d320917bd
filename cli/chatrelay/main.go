package main

import (
	"fmt"
	"os"

	chatrelaycmder "github.com/papercomputeco/chatrelay/cmd/chatrelay"
	"github.com/papercomputeco/chatrelay/pkg/cliui"
)

func main() {
	cmd := chatrelaycmder.NewChatrelayCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", cliui.Mark(err), err)
		os.Exit(1)
	}
}
