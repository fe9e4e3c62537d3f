/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"github.com/hance08/keabank/cmd"
	"github.com/hance08/keabank/migrations"
)

func main() {
	cmd.Execute(migrations.FS)
}
