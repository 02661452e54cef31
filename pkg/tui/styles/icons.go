package styles

// Status icons
const (
	IconSuccess = "✓"
	IconError   = "✗"
	IconWarning = "⚠"
	IconInfo    = "ℹ"
	IconPending = "○"
	IconGear    = "⚙"
	IconBullet  = "•"
)

// ToastIcon maps a wire toast icon name to a glyph.
func ToastIcon(name string) string {
	switch name {
	case "check", "check-circle":
		return IconSuccess
	case "x", "alert-circle":
		return IconError
	case "alert-triangle":
		return IconWarning
	case "info":
		return IconInfo
	case "settings":
		return IconGear
	default:
		return IconBullet
	}
}
