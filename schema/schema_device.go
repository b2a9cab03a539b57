package schema

// NotificationSetting is the state of one notification capability.
type NotificationSetting int

// All notification setting states.
const (
	SettingNotSupported NotificationSetting = iota
	SettingDisabled
	SettingEnabled
)

// Key returns the dictionary key used when reporting the setting.
func (s NotificationSetting) Key() string {
	switch s {
	case SettingNotSupported:
		return "notSupported"
	case SettingDisabled:
		return "disabled"
	case SettingEnabled:
		return "enabled"
	default:
		return "unknown"
	}
}

// AuthorizationStatus is the user's notification authorization decision.
type AuthorizationStatus int

// All authorization states.
const (
	AuthorizationNotDetermined AuthorizationStatus = iota
	AuthorizationDenied
	AuthorizationAuthorized
)

// Key returns the dictionary key used when reporting the status.
func (s AuthorizationStatus) Key() string {
	switch s {
	case AuthorizationAuthorized:
		return "authorized"
	case AuthorizationDenied:
		return "denied"
	case AuthorizationNotDetermined:
		return "notDetermined"
	default:
		return "unknown"
	}
}

// AlertStyle is how alerts are presented.
type AlertStyle int

// All alert styles.
const (
	AlertStyleNone AlertStyle = iota
	AlertStyleBanner
	AlertStyleAlert
)

// Key returns the dictionary key used when reporting the style.
func (s AlertStyle) Key() string {
	switch s {
	case AlertStyleAlert:
		return "alert"
	case AlertStyleBanner:
		return "banner"
	case AlertStyleNone:
		return "none"
	default:
		return "unknown"
	}
}

// NotificationSettings is a snapshot of the notification settings for the app.
type NotificationSettings struct {
	Authorization      AuthorizationStatus
	NotificationCenter NotificationSetting
	LockScreen         NotificationSetting
	CarPlay            NotificationSetting
	Alert              NotificationSetting
	AlertStyle         AlertStyle
	Badge              NotificationSetting
	Sound              NotificationSetting
}

// Dictionary returns the settings keyed the way device info payloads expect.
func (n NotificationSettings) Dictionary() map[string]any {
	return map[string]any{
		"authorization":      n.Authorization.Key(),
		"notificationCenter": n.NotificationCenter.Key(),
		"lockScreen":         n.LockScreen.Key(),
		"carPlay":            n.CarPlay.Key(),
		"alert":              n.Alert.Key(),
		"alertStyle":         n.AlertStyle.Key(),
		"badge":              n.Badge.Key(),
		"sound":              n.Sound.Key(),
	}
}

// ScreenMetrics describes the main screen in points.
type ScreenMetrics struct {
	Density float64 `mapstructure:"density" json:"density"`
	Height  float64 `mapstructure:"height" json:"h"`
	Width   float64 `mapstructure:"width" json:"w"`
}
