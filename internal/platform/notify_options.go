package platform

// DefaultAppName identifies the sender when Options.AppName is empty.
const DefaultAppName = "picannotate"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// AppName labels the sending application where the platform supports it.
	AppName string
	// IconPath, when non-empty, points to an image file the notification center
	// should display with the notification if supported by the platform.
	IconPath string
	// TimeoutMillis is the display duration. Zero selects the platform default.
	TimeoutMillis int32
}

func (o Options) appName() string {
	if o.AppName == "" {
		return DefaultAppName
	}
	return o.AppName
}

func (o Options) timeout() int32 {
	if o.TimeoutMillis <= 0 {
		return 5000
	}
	return o.TimeoutMillis
}
