// faqbot is a fuzzy Q/A chatbot: dataset answers first, canned category
// replies otherwise.
package main

import (
	"os"

	"github.com/0xcro3dile/faqbot-go/cmd/faqbot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
