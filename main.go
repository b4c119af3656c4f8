package main

import "github.com/dhis2/d2-data-apis/cmd"

func main() {
	cmd.Execute()
}
