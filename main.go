package main

import (
	"github.com/docqa/docqa-be/cmd"
	"github.com/joho/godotenv"
)

func main() {
	cmd.Execute()
}

func init() {
	// .env is optional; plain environment variables work without it.
	godotenv.Load()
}
