package main

import (
	"fmt"
	"os"

	"github.com/jingkaihe/stepkit/pkg/plancheck"
	"github.com/jingkaihe/stepkit/pkg/skill"
)

func main() {
	if err := skill.NewCommand(plancheck.NewSkill()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
