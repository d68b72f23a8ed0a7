package main

import (
	"fmt"
	"os"

	"github.com/jingkaihe/stepkit/pkg/ping"
	"github.com/jingkaihe/stepkit/pkg/skill"
)

func main() {
	if err := skill.NewCommand(ping.NewSkill()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
