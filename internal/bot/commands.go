package bot

import "strings"

// Kind identifies a classified command.
type Kind int

const (
	KindNone Kind = iota
	KindEcho
	KindStart
	KindInfo
	KindStatus
	KindLanguageInfo
	KindSetLanguage
	KindGetInfo
	KindGetSub
	KindNsfwStatus
	KindSetNsfw
	KindRandomReddit
	KindRandomBooru
	KindUnknown
)

var kindNames = map[Kind]string{
	KindNone:         "none",
	KindEcho:         "echo",
	KindStart:        "start",
	KindInfo:         "info",
	KindStatus:       "status",
	KindLanguageInfo: "language_info",
	KindSetLanguage:  "set_language",
	KindGetInfo:      "get_info",
	KindGetSub:       "get_sub",
	KindNsfwStatus:   "nsfw_status",
	KindSetNsfw:      "set_nsfw",
	KindRandomReddit: "random_reddit",
	KindRandomBooru:  "random_booru",
	KindUnknown:      "unknown",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return "none"
}

// Command is the result of classifying one inbound message.
type Command struct {
	Kind      Kind
	Arg       string
	Mentioned bool
}

// gatedKinds lists the commands that require an @mention in group chats.
// Without the mention the message is dropped without a reply.
var gatedKinds = map[Kind]bool{
	KindStart:        true,
	KindInfo:         true,
	KindStatus:       true,
	KindLanguageInfo: true,
	KindGetInfo:      true,
	KindNsfwStatus:   true,
	KindRandomReddit: true,
}

// Classify parses text into a command. botUsername strips the bot's own
// @mention so "/nsfw@bot on" and "/nsfw on" read the same.
func Classify(text, botUsername string) Command {
	stripped, mentioned := stripMention(strings.TrimSpace(text), botUsername)
	lower := strings.ToLower(stripped)

	switch lower {
	case "owo":
		return Command{Kind: KindEcho, Arg: "uwu", Mentioned: mentioned}
	case "uwu":
		return Command{Kind: KindEcho, Arg: "owo", Mentioned: mentioned}
	case "/start":
		return Command{Kind: KindStart, Mentioned: mentioned}
	case "/info":
		return Command{Kind: KindInfo, Mentioned: mentioned}
	case "/status":
		return Command{Kind: KindStatus, Mentioned: mentioned}
	case "/language":
		return Command{Kind: KindLanguageInfo, Mentioned: mentioned}
	case "/get":
		return Command{Kind: KindGetInfo, Mentioned: mentioned}
	case "/nsfw":
		return Command{Kind: KindNsfwStatus, Mentioned: mentioned}
	case "/random_reddit":
		return Command{Kind: KindRandomReddit, Mentioned: mentioned}
	case "/random", "/random_booru":
		return Command{Kind: KindRandomBooru, Mentioned: mentioned}
	}

	switch {
	case strings.HasPrefix(lower, "/language "):
		code := strings.TrimSpace(lower[len("/language "):])
		if len(code) > 2 {
			code = code[:2]
		}
		return Command{Kind: KindSetLanguage, Arg: code, Mentioned: mentioned}
	case strings.HasPrefix(lower, "/nsfw "):
		param := strings.TrimSpace(lower[len("/nsfw "):])
		return Command{Kind: KindSetNsfw, Arg: param, Mentioned: mentioned}
	case strings.HasPrefix(lower, "/get_"), strings.HasPrefix(lower, "/get "):
		sub := strings.TrimSpace(lower[len("/get_"):])
		if sub == "" {
			return Command{Kind: KindGetInfo, Mentioned: mentioned}
		}
		return Command{Kind: KindGetSub, Arg: sub, Mentioned: mentioned}
	case strings.HasPrefix(lower, "/"):
		return Command{Kind: KindUnknown, Mentioned: mentioned}
	}

	return Command{Kind: KindNone, Mentioned: mentioned}
}

// Gated reports whether the command needs an @mention in groups.
func (c Command) Gated() bool {
	return gatedKinds[c.Kind]
}

// stripMention removes the first @mention suffix so "/cmd@anybot arg" reads
// the same as "/cmd arg". The flag is true only when the mention names this
// bot, since group gating keys on that.
func stripMention(text, botUsername string) (string, bool) {
	head, tail, found := strings.Cut(text, "@")
	if !found {
		return text, false
	}

	mention := tail
	rest := ""
	if space := strings.IndexByte(tail, ' '); space >= 0 {
		mention = tail[:space]
		rest = tail[space:]
	}

	mentioned := botUsername != "" && strings.EqualFold(mention, botUsername)

	return strings.TrimSpace(head + rest), mentioned
}
