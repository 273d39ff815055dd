package commands

import (
	"strconv"
	s "strings"
)

// Parse returns the command encoded in a protocol line.
// It never fails: unknown verbs are returned as Malformed, and known verbs with bad arguments as Invalid.
func Parse(line string) Command {
	fields := split(line)
	switch verb := fields[0]; verb {
	case VerbQuery:
		return parseQuery(fields)
	case VerbReport:
		if len(fields) != 3 {
			return Invalid{RawVerb: verb, Reason: WrongArity}
		}
		return Report{CountryCode: fields[1], IndicatorCode: fields[2]}
	case VerbStop:
		return Stop{}
	case VerbDisconnect:
		return Disconnect{}
	default:
		return Malformed{RawVerb: verb}
	}
}

// splits on the delimiter, dropping the line terminator and trailing empty fields
// the result has at least one element, the verb, which might be empty
func split(line string) []string {
	line = s.TrimRight(line, "\r\n")
	fields := s.Split(line, Delimiter)
	for len(fields) > 1 && fields[len(fields)-1] == "" {
		fields = fields[:len(fields)-1]
	}
	return fields
}

// q;<country>;<indicator>;<year>
// a line with 3 fields is taken as the arguments alone, without a verb
func parseQuery(fields []string) Command {
	var args []string
	switch len(fields) {
	case 3:
		args = fields
	case 4:
		args = fields[1:]
	default:
		return Invalid{RawVerb: VerbQuery, Reason: WrongArity}
	}
	year, err := strconv.Atoi(s.TrimSpace(args[2]))
	if err != nil {
		return Invalid{RawVerb: VerbQuery, Reason: BadCommand}
	}
	return Query{CountryCode: args[0], IndicatorCode: args[1], Year: year}
}
