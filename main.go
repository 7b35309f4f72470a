package main

import (
	"os"

	"github.com/mailfort/mailfort-admin/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
