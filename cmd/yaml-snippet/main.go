package main

import (
	"fmt"
	"os"

	"github.com/jingkaihe/stepkit/pkg/skill"
	"github.com/jingkaihe/stepkit/pkg/snippet"
)

func main() {
	if err := skill.NewCommand(snippet.NewSkill()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
