package notifier

// Discord formatting constants
const (
	DiscordUsername       = "Status Watch"
	DiscordFooterText     = "statuswatch"
	CriticalEmbedColor    = 0xDC3545 // red for outages and critical incidents
	MajorEmbedColor       = 0xFD7E14 // orange
	WarningEmbedColor     = 0xF0AD4E // yellow for degradations and minor incidents
	MaintenanceEmbedColor = 0x5BC0DE // blue
	DefaultEmbedColor     = 0x6F42C1
)

// Console rendering constants
const (
	ConsoleTimestampLayout = "2006-01-02 15:04:05"
	recordSeparatorWidth   = 80
	bannerWidth            = 80
)
