package commands

// Verbs of the line protocol
const (
	VerbQuery      = "q"
	VerbReport     = "r"
	VerbStop       = "z"
	VerbDisconnect = "e"
)

// Delimiter separates the fields of a protocol line
const Delimiter = ";"

// Fixed replies
const (
	StopReply       = "Server Stopped"
	DisconnectReply = "Goodbye!"
	WrongArity      = "Wrong number of arguments"
	BadCommand      = "Error;Bad Command"

	// stands for the value of a year without observation
	NoValue = "no value"

	// stands for the mean of a record without values
	NoMean = "0"
)

// Command is a request of the line protocol.
// The set of commands is closed: Query, Report, Stop, Disconnect, Malformed and Invalid are the only implementations.
type Command interface {
	// Verb returns the first field of the line the command was parsed from.
	Verb() string
	command()
}

// Query asks for the value of an indicator for a country in a given year.
type Query struct {
	CountryCode   string
	IndicatorCode string
	Year          int
}

// Report asks for the mean of all the values of an indicator for a country.
type Report struct {
	CountryCode   string
	IndicatorCode string
}

// Stop shuts down the whole server.
type Stop struct{}

// Disconnect closes the connection it is received on.
type Disconnect struct{}

// Malformed is a line with an unknown verb.
type Malformed struct {
	RawVerb string
}

// Invalid is a known verb with wrong arguments; Reason is sent back to the client.
type Invalid struct {
	RawVerb string
	Reason  string
}

func (Query) Verb() string { return VerbQuery }
func (Report) Verb() string { return VerbReport }
func (Stop) Verb() string { return VerbStop }
func (Disconnect) Verb() string { return VerbDisconnect }
func (m Malformed) Verb() string { return m.RawVerb }
func (inv Invalid) Verb() string { return inv.RawVerb }

func (Query) command() {}
func (Report) command() {}
func (Stop) command() {}
func (Disconnect) command() {}
func (Malformed) command() {}
func (Invalid) command() {}
