package main

import (
	"flag"
	"fmt"
	"os"

	"course-service/internal/content"
)

func main() {
	dir := flag.String("content", "content", "content root holding courses/ and instructors/")
	flag.Parse()

	result := content.ValidateAll(*dir)
	fmt.Print(content.FormatReport(result))
	if !result.Valid {
		os.Exit(1)
	}
}
