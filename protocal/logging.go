package protocal

import (
	"os"

	"review-replier/configs"

	"github.com/sirupsen/logrus"
)

// setupLogging configures the package-level logrus logger: JSON in production
func setupLogging(app configs.App) {
	logrus.SetOutput(os.Stdout)
	if app.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}

	if app.Env == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		return
	}
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}
