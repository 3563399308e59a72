package domain

// PlaceholderName is shown when a record has neither display name nor username.
const PlaceholderName = "Unknown"

var avatarPalette = [...]string{
	"#F97316", // orange
	"#8B5CF6", // violet
	"#10B981", // emerald
	"#3B82F6", // blue
	"#EC4899", // pink
	"#F59E0B", // amber
	"#14B8A6", // teal
	"#EF4444", // red
}

// AvatarColor returns the palette color for a list position.
func AvatarColor(index int) string {
	if index < 0 {
		index = -index
	}
	return avatarPalette[index%len(avatarPalette)]
}

// DisplayName picks the first non-empty of display name and username,
// falling back to PlaceholderName.
func DisplayName(displayName *string, username string) string {
	if displayName != nil && *displayName != "" {
		return *displayName
	}
	if username != "" {
		return username
	}
	return PlaceholderName
}
