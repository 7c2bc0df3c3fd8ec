package markup

import (
	"strings"
	"unicode/utf8"
)

var replacer = strings.NewReplacer(
	"_", "\\_",
	"*", "\\*",
	"[", "\\[",
	"]", "\\]",
	"(", "\\(",
	")", "\\)",
	"~", "\\~",
	"`", "\\`",
	">", "\\>",
	"#", "\\#",
	"+", "\\+",
	"-", "\\-",
	"=", "\\=",
	"|", "\\|",
	"{", "\\{",
	"}", "\\}",
	".", "\\.",
	"!", "\\!",
	"\\", "\\\\",
)

// EscapeForMarkdown escapes the characters reserved by Telegram MarkdownV2.
func EscapeForMarkdown(src string) string {
	return replacer.Replace(src)
}

var urlReplacer = strings.NewReplacer(")", "\\)", "\\", "\\\\")

// Link renders a MarkdownV2 inline link. text is escaped.
func Link(text, url string) string {
	return "[" + EscapeForMarkdown(text) + "](" + urlReplacer.Replace(url) + ")"
}

func Bold(text string) string {
	return "*" + EscapeForMarkdown(text) + "*"
}

func Italic(text string) string {
	return "_" + EscapeForMarkdown(text) + "_"
}

// MaxMessageLen is the Telegram limit on the visible text of one message.
const MaxMessageLen = 4096

// Truncate shortens src to at most n runes, marking the cut with an ellipsis.
func Truncate(src string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(src) <= n {
		return src
	}

	runes := []rune(src)
	return string(runes[:n-1]) + "…"
}
