package styles

// Nerd Font icons (requires a Nerd Font to display correctly)
const (
	IconVersion   = "\uf02b" // tag
	IconGitBranch = "\ue725" // git branch
	IconCalendar  = "\uf073" // calendar
	IconGithub    = "\uf09b" // github
	IconHeart     = "\uf004" // heart
	IconGo        = "\ue627" // go gopher

	IconCheck   = "\uf00c" // check
	IconX       = "\uf00d" // x
	IconWarning = "\uf071" // warning
	IconInfo    = "\uf05a" // info

	IconTrash    = "\uf1f8" // trash
	IconFolder   = "\uf07b" // folder
	IconConfig   = "\ue615" // config
	IconDatabase = "\uf1c0" // database
	IconImage    = "\uf1c5" // image file
	IconCache    = "\uf49e" // cache
	IconClock    = "\uf017" // clock
	IconStar     = "\uf005" // star
	IconGauge    = "\uf0e4" // tachometer
	IconCopy     = "\uf0c5" // duplicates

	IconCursor = "\uf054" // chevron-right
)
