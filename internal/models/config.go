package models

import (
	"path"

	"github.com/kardianos/osext"
)

// AppConfig is the application's main configuration structure
type AppConfig struct {
	// The directory where Fyyur stores its database - defaults to the /data subdirectory of the folder, the
	// Fyyur executable resides in
	DataDir string `json:"dataDir"`
	// The IP address to listen at - including the port number
	ListenAddress string `json:"listenAddress"`
	// Logging output settings
	Log LogConfig `json:"log"`
	// Settings for publishing listing notifications to a message broker
	Notifications NotificationConfig `json:"notifications"`
}

// LogConfig configures the application's log output
type LogConfig struct {
	// One of the logrus level names (debug, info, warning, error)
	Level string `json:"level"`
	// "text" or "json"
	Format string `json:"format"`
}

// NotificationConfig configures the AMQP broker listing notifications are sent to
// When URL is empty, no notifications are sent at all
type NotificationConfig struct {
	URL   string `json:"url"`
	Queue string `json:"queue"`
}

// GetDefaultConfig returns the default configuration values for the application
func GetDefaultConfig() (*AppConfig, error) {
	execDir, err := osext.ExecutableFolder()
	if err != nil {
		return nil, err
	}
	return &AppConfig{
		DataDir:       path.Join(execDir, "data"),
		ListenAddress: ":5000",
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Notifications: NotificationConfig{
			Queue: "fyyur.listings",
		},
	}, nil
}
