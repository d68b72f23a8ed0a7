package main

import (
	"fmt"
	"os"

	"github.com/jingkaihe/stepkit/pkg/review"
	"github.com/jingkaihe/stepkit/pkg/skill"
)

func main() {
	if err := skill.NewCommand(review.NewSkill()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
