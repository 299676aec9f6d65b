// Command stackform expands transform placeholders in CloudFormation templates.
package main

import "github.com/cameronsjo/stackform/internal/cmd"

func main() {
	cmd.Execute()
}
