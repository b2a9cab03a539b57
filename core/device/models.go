package device

import "strings"

// modelGroup lists the raw identifiers sharing one user-facing name.
type modelGroup struct {
	name string
	ids  []string
}

// modelNames maps raw model identifiers to user-facing names.
var modelNames = buildModelNames([]modelGroup{
	// iPod
	{"iPod Touch 5", []string{"iPod5,1"}},
	{"iPod Touch 6", []string{"iPod7,1"}},
	{"iPod Touch 7", []string{"iPod9,1"}},

	// iPhone
	{"iPhone 4", []string{"iPhone3,1", "iPhone3,2", "iPhone3,3"}},
	{"iPhone 4S", []string{"iPhone4,1"}},
	{"iPhone 5", []string{"iPhone5,1", "iPhone5,2"}},
	{"iPhone 5C", []string{"iPhone5,3", "iPhone5,4"}},
	{"iPhone 5S", []string{"iPhone6,1", "iPhone6,2"}},
	{"iPhone 6", []string{"iPhone7,2"}},
	{"iPhone 6 Plus", []string{"iPhone7,1"}},
	{"iPhone 6S", []string{"iPhone8,1"}},
	{"iPhone 6S Plus", []string{"iPhone8,2"}},
	{"iPhone SE", []string{"iPhone8,4"}},
	{"iPhone 7", []string{"iPhone9,1", "iPhone9,3"}},
	{"iPhone 7 Plus", []string{"iPhone9,2", "iPhone9,4"}},
	{"iPhone 8", []string{"iPhone10,1", "iPhone10,4"}},
	{"iPhone 8 Plus", []string{"iPhone10,2", "iPhone10,5"}},
	{"iPhone X", []string{"iPhone10,3", "iPhone10,6"}},
	{"iPhone XR", []string{"iPhone11,8"}},
	{"iPhone XS", []string{"iPhone11,2"}},
	{"iPhone XS Max", []string{"iPhone11,6", "iPhone11,4"}},
	{"iPhone 11", []string{"iPhone12,1"}},
	{"iPhone 11 Pro", []string{"iPhone12,3"}},
	{"iPhone 11 Pro Max", []string{"iPhone12,5"}},
	{"iPhone SE (2nd generation)", []string{"iPhone12,8"}},
	{"iPhone 12 mini", []string{"iPhone13,1"}},
	{"iPhone 12", []string{"iPhone13,2"}},
	{"iPhone 12 Pro", []string{"iPhone13,3"}},
	{"iPhone 12 Pro Max", []string{"iPhone13,4"}},

	// iPad
	{"iPad 2", []string{"iPad2,1", "iPad2,2", "iPad2,3", "iPad2,4"}},
	{"iPad 3", []string{"iPad3,1", "iPad3,2", "iPad3,3"}},
	{"iPad 4", []string{"iPad3,4", "iPad3,5", "iPad3,6"}},
	{"iPad 5", []string{"iPad6,11", "iPad6,12"}},
	{"iPad 6", []string{"iPad7,5", "iPad7,6"}},
	{"iPad 7", []string{"iPad7,11", "iPad7,12"}},
	{"iPad 8", []string{"iPad11,6", "iPad11,7"}},

	// iPad Air
	{"iPad Air", []string{"iPad4,1", "iPad4,2", "iPad4,3"}},
	{"iPad Air 2", []string{"iPad5,3", "iPad5,4"}},
	{"iPad Air 3", []string{"iPad11,3", "iPad11,4"}},
	{"iPad Air 4", []string{"iPad13,1", "iPad13,2"}},

	// iPad Mini
	{"iPad Mini", []string{"iPad2,5", "iPad2,6", "iPad2,7"}},
	{"iPad Mini 2", []string{"iPad4,4", "iPad4,5", "iPad4,6"}},
	{"iPad Mini 3", []string{"iPad4,7", "iPad4,8", "iPad4,9"}},
	{"iPad Mini 4", []string{"iPad5,1", "iPad5,2"}},
	{"iPad Mini 5", []string{"iPad11,1", "iPad11,2"}},

	// iPad Pro
	{"iPad Pro (12.9 inch)", []string{"iPad6,7", "iPad6,8"}},
	{"iPad Pro (9.7 inch)", []string{"iPad6,3", "iPad6,4"}},
	{"iPad Pro (12.9 inch) (2nd generation)", []string{"iPad7,1", "iPad7,2"}},
	{"iPad Pro (10.5 inch)", []string{"iPad7,3", "iPad7,4"}},
	{"iPad Pro (11 inch)", []string{"iPad8,1", "iPad8,2", "iPad8,3", "iPad8,4"}},
	{"iPad Pro (12.9 inch) (3rd generation)", []string{"iPad8,5", "iPad8,6", "iPad8,7", "iPad8,8"}},
	{"iPad Pro (11 inch) (2nd generation)", []string{"iPad8,9", "iPad8,10"}},
	{"iPad Pro (12.9 inch) (4th generation)", []string{"iPad8,11", "iPad8,12"}},

	// Simulator
	{"Simulator", []string{"x86_64", "i386"}},
})

func buildModelNames(groups []modelGroup) map[string]string {
	names := make(map[string]string)
	for _, g := range groups {
		for _, id := range g.ids {
			names[id] = g.name
		}
	}
	return names
}

// ModelName returns the user-facing name for a model identifier, or the
// identifier itself when it is not in the table.
func ModelName(identifier string) string {
	if name, ok := modelNames[identifier]; ok {
		return name
	}
	return identifier
}

// TypeOf returns the device family for a model identifier.
func TypeOf(identifier string) string {
	switch {
	case strings.HasPrefix(identifier, "iPhone"):
		return "iPhone"
	case strings.HasPrefix(identifier, "iPad"):
		return "iPad"
	case strings.HasPrefix(identifier, "iPod"):
		return "iPod"
	case strings.HasPrefix(identifier, "Watch"):
		return "Apple Watch"
	case strings.HasPrefix(identifier, "AppleTV"):
		return "Apple TV"
	default:
		return "Unspecified"
	}
}
