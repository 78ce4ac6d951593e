package icon

import "github.com/sdmp3/sdmp3/style"

// Icon identifies a symbol in the registry.
type Icon int

const (
	Lua Icon = iota + 1
	Go
	Success
	Fail
	NotFound
	Progress
	Search
	Download
	Music
	Folder
	Link
)

var icons = map[Icon]*iconDef{
	Lua: {
		emoji:   "🌙",
		nerd:    style.Fg(style.Blue)(""),
		plain:   "Lua",
		kaomoji: "(=^･ω･^=)",
		squares: "🟦",
	},
	Go: {
		emoji:   "🐹",
		nerd:    style.Fg(style.Sky)(""),
		plain:   "Go",
		kaomoji: "ʕ◔ϖ◔ʔ",
		squares: "🟦",
	},
	Success: {
		emoji:   "✅",
		nerd:    style.Fg(style.SuccessColor)(""),
		plain:   style.Fg(style.SuccessColor)("✓"),
		kaomoji: "(ﾉ◕ヮ◕)ﾉ*:･ﾟ✧",
		squares: "🟩",
	},
	Fail: {
		emoji:   "❌",
		nerd:    style.Fg(style.ErrorColor)(""),
		plain:   style.Fg(style.ErrorColor)("✗"),
		kaomoji: "(╯°□°)╯︵ ┻━┻",
		squares: "🟥",
	},
	NotFound: {
		emoji:   "🤷",
		nerd:    style.Fg(style.WarningColor)(""),
		plain:   style.Fg(style.WarningColor)("?"),
		kaomoji: "¯\\_(ツ)_/¯",
		squares: "🟨",
	},
	Progress: {
		emoji:   "⏳",
		nerd:    style.Fg(style.AccentColor)(""),
		plain:   style.Fg(style.AccentColor)("…"),
		kaomoji: "(・_・ヾ",
		squares: "🟪",
	},
	Search: {
		emoji:   "🔍",
		nerd:    style.Fg(style.SecondaryColor)(""),
		plain:   style.Fg(style.SecondaryColor)(">"),
		kaomoji: "(⊙_⊙)",
		squares: "🟪",
	},
	Download: {
		emoji:   "📥",
		nerd:    style.Fg(style.AccentColor)(""),
		plain:   style.Fg(style.AccentColor)("↓"),
		kaomoji: "(っ˘ω˘ς )",
		squares: "🟪",
	},
	Music: {
		emoji:   "🎵",
		nerd:    style.Fg(style.Pink)(""),
		plain:   "♪",
		kaomoji: "♪(´ε` )",
		squares: "🟫",
	},
	Folder: {
		emoji:   "📁",
		nerd:    style.Fg(style.Yellow)(""),
		plain:   "dir",
		kaomoji: "(•̀ᴗ•́)و",
		squares: "🟨",
	},
	Link: {
		emoji:   "🔗",
		nerd:    style.Fg(style.Blue)(""),
		plain:   "->",
		kaomoji: "(￣▽￣)ノ",
		squares: "🟦",
	},
}
