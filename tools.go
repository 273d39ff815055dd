//go:build tools
// +build tools

package main

import (
	_ "github.com/elastic/go-licenser"
	_ "github.com/jstemmer/go-junit-report"
	_ "github.com/magefile/mage"
	_ "github.com/t-yuki/gocover-cobertura"
)
