package configstore

import "time"

// The one authoritative default configuration, used whenever a community has
// no stored config.
func Default() *CommunityConfig {
	deleteAndWarn := FilterConfig{
		Enabled: true,
		Action:  ActionDeleteAndWarn,
	}
	return &CommunityConfig{
		Badwords: deleteAndWarn,
		Links:    deleteAndWarn,
		Spam:     deleteAndWarn,
		Flood:    deleteAndWarn,
		Caps: FilterConfig{
			Enabled: true,
			Action:  ActionWarn,
		},

		// generic seed list; real deployments configure their own
		BannedWords: []string{"fuck", "suck", "shit", "kill"},

		SpamThreshold:  5,
		FloodThreshold: 5,
		FloodWindow:    5 * time.Second,
		CapsThreshold:  70,

		Warnings: WarningConfig{
			Enabled: true,
			Expiry:  24 * time.Hour,
			Escalations: EscalationTable{
				{WarningThreshold: 3, Punishment: PunishmentTimeout, TimeoutDuration: time.Hour},
				{WarningThreshold: 5, Punishment: PunishmentKick},
				{WarningThreshold: 7, Punishment: PunishmentBan},
			},
		},
	}
}
