package infobot

// Command a chat command name without the leading slash
type Command string

const (
	CommandStart   Command = "start"
	CommandNews    Command = "news"
	CommandRates   Command = "rates"
	CommandConvert Command = "convert"
	CommandAuthor  Command = "author"
)

// Commands every command the bot answers, in menu order
var Commands = []Command{CommandStart, CommandAuthor, CommandNews, CommandRates, CommandConvert}
