package constants

const (
	AppName            = "selfrpg"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/selfrpg/selfrpg.db"
	Version            = "v0.3.0"

	// StorageKey is the key under which the state document is persisted.
	StorageKey = "selfRpgData_v1"

	// DefaultIcon is used for attributes created without an icon.
	DefaultIcon = "✨"

	// TimestampFormat is used for human-readable timestamps in listings.
	TimestampFormat = "2006-01-02 15:04"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "selfrpg-"
	BackupFileSuffix = ".rpgbak"

	// Envelope constants
	EnvelopeHeader  = "RPG_BACKUP v1"
	EnvelopePrefix  = "RPG_BACKUP"
	EnvelopeVersion = 1

	// Messaging bot used by the send-to-bot backup flow
	DefaultBotUsername = "Jsonsaver_bot"
	BotURLPrefix       = "https://t.me/"

	// Lock constants
	LockfileName = "selfrpg.lock"
)
