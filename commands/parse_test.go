package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	for _, test := range []struct {
		line string
		cmd  Command
	}{
		{"q;BRA;SP.POP.TOTL;2000", Query{"BRA", "SP.POP.TOTL", 2000}},
		{"q;BRA;SP.POP.TOTL;2000\r\n", Query{"BRA", "SP.POP.TOTL", 2000}},
		{"q;BRA;SP.POP.TOTL; 1800 ", Query{"BRA", "SP.POP.TOTL", 1800}},
		{"q;BRA;SP.POP.TOTL;2000;", Query{"BRA", "SP.POP.TOTL", 2000}},
		// 3 fields are the arguments alone
		{"q;SP.POP.TOTL;2000", Query{"q", "SP.POP.TOTL", 2000}},
		{"q;BRA;SP.POP.TOTL", Invalid{"q", BadCommand}},
		{"q;BRA;SP.POP.TOTL;year", Invalid{"q", BadCommand}},
		{"q", Invalid{"q", WrongArity}},
		{"q;BRA", Invalid{"q", WrongArity}},
		{"q;BRA;SP.POP.TOTL;2000;x", Invalid{"q", WrongArity}},
		{"r;BRA;SP.POP.TOTL", Report{"BRA", "SP.POP.TOTL"}},
		{"r;BRA;SP.POP.TOTL;;", Report{"BRA", "SP.POP.TOTL"}},
		{"r;BRA", Invalid{"r", WrongArity}},
		{"r;BRA;SP.POP.TOTL;2000", Invalid{"r", WrongArity}},
		{"z", Stop{}},
		{"z;now", Stop{}},
		{"e", Disconnect{}},
		{"e\n", Disconnect{}},
		{"Q;BRA;SP.POP.TOTL;2000", Malformed{"Q"}},
		{"x", Malformed{"x"}},
		{"x;", Malformed{"x"}},
		{"help;;;", Malformed{"help"}},
		{"", Malformed{""}},
		{";;", Malformed{""}},
	} {
		assert.Equal(t, test.cmd, Parse(test.line), test.line)
	}
}

func TestVerb(t *testing.T) {
	for _, line := range []string{"q;a;b;1", "q", "r;a;b", "r", "z", "e", "x", "unknown;a"} {
		assert.Equal(t, split(line)[0], Parse(line).Verb(), line)
	}
}

func TestSplit(t *testing.T) {
	assert.Equal(t, []string{""}, split(""))
	assert.Equal(t, []string{""}, split("\n"))
	assert.Equal(t, []string{"a", "", "b"}, split("a;;b;;\r\n"))
}
