package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/daemon"
	"github.com/jmoiron/sqlx"
	"github.com/kardianos/osext"
	_ "github.com/mattn/go-sqlite3" // Just needed for the sqlite driver
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	fyyur "github.com/derWhity/fyyur/internal"
	"github.com/derWhity/fyyur/internal/ctxhelper"
	"github.com/derWhity/fyyur/internal/log"
	"github.com/derWhity/fyyur/internal/migrate"
	"github.com/derWhity/fyyur/internal/notify"
	artistrepo "github.com/derWhity/fyyur/internal/repos/artist/sqlite"
	showrepo "github.com/derWhity/fyyur/internal/repos/show/sqlite"
	venuerepo "github.com/derWhity/fyyur/internal/repos/venue/sqlite"
)

const (
	appName    = "Fyyur"
	appVersion = "0.1.0"
	dbFile     = "fyyur.db"
)

// Checks and tries to create the given directory recursively (or panics if this fails)
func checkAndCreateDir(path string, logger *logrus.Entry) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		if e, ok := err.(*os.PathError); ok && e.Err == syscall.ENOENT {
			logger.WithField(log.FldPath, path).Info("Directory does not exist - trying to create...")
			if err = os.MkdirAll(path, os.ModePerm); err != nil {
				logger.WithError(err).Fatal("Failed to create directory")
			}
			logger.Info("Directory created successfully")
		} else {
			logger.WithError(err).Fatal("Stat has failed")
		}
	} else {
		if !fileInfo.IsDir() {
			logger.Fatalf("'%s' is not a directory. Remove the plain file if you want to continue", path)
		}
	}
}

// Connects to the message broker when configured - otherwise listing events are dropped
func makePublisher(url, queue string, logger *logrus.Entry) notify.Publisher {
	if url == "" {
		logger.Info("No message broker configured. Listing notifications are disabled")
		return notify.Nop()
	}
	pub, err := notify.NewAMQP(url, queue, logger)
	if err != nil {
		logger.WithError(err).Error("Cannot connect to message broker. Listing notifications are disabled")
		return notify.Nop()
	}
	logger.WithField(log.FldQueue, queue).Info("Publishing listing notifications")
	return pub
}

func main() {
	execDir, err := osext.ExecutableFolder()
	if err != nil {
		panic(err)
	}

	configFile := flag.String(
		"config",
		filepath.Join(execDir, "config.json"),
		"The configuration file to load the application's configuration from",
	)
	envFile := flag.String(
		"env",
		".env",
		"File to read additional FYYUR_* environment variables from",
	)
	writeConfig := flag.Bool(
		"write-config",
		false,
		"Write the effective configuration to the configuration file and exit",
	)
	flag.Parse()

	ctx := context.Background()

	// Initialize the logger
	baseLogger := logrus.New()
	logger := baseLogger.WithField(log.FldVersion, appVersion)
	logger.Infof("%s version %s is starting up...", appName, appVersion)
	ctx = context.WithValue(ctx, ctxhelper.KeyLogger, logger)

	// Load the main configuration file
	cs := fyyur.NewConfigService(*configFile, *envFile)
	if err := cs.Load(ctx); err != nil {
		logger.WithError(err).Error("Cannot load config. Using defaults")
	}
	conf := cs.GetConfig(ctx)
	if err := fyyur.ConfigureLogger(baseLogger, conf.Log); err != nil {
		logger.WithError(err).Error("Invalid log configuration")
	}
	if *writeConfig {
		if err := cs.Write(ctx); err != nil {
			logger.WithError(err).Fatal("Failed to write configuration")
		}
		return
	}

	logger.Infof("Using '%s' as data directory", conf.DataDir)
	checkAndCreateDir(conf.DataDir, logger)

	// Set up the database connection and perform pending migrations
	dbFileName := path.Join(conf.DataDir, dbFile) + "?_foreign_keys=1"
	var db *sqlx.DB
	if db, err = sqlx.Open("sqlite3", dbFileName); err != nil {
		logger.WithError(err).Fatal("Failed to open database connection")
	}
	logger.Info("Performing database migrations...")
	if err = migrate.ExecuteMigrationsOnDb(db, logger); err != nil {
		logger.WithError(err).Fatal("Database migration has failed. Please check database for consistency and try again.")
	}

	publisher := makePublisher(conf.Notifications.URL, conf.Notifications.Queue, logger)

	venueRepo := venuerepo.New(db, logger)
	artistRepo := artistrepo.New(db, logger)
	showRepo := showrepo.New(db, logger)

	veSrv := fyyur.NewVenueService(venueRepo, publisher, logger)
	arSrv := fyyur.NewArtistService(artistRepo, publisher, logger)
	shSrv := fyyur.NewShowService(showRepo, publisher, logger)

	if num, err := showRepo.Count(); err == nil {
		logger.WithField(log.FldCount, num).Info("Shows in the directory")
	}

	httpLogger := logger.WithField(log.FldTransport, "HTTP")

	h := fyyur.MakeHTTPHandler(veSrv, arSrv, shSrv, httpLogger)

	// Start listening
	errs := make(chan error)

	// Listen for stop signals that will end the service
	go func() {
		c := make(chan os.Signal, 2)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		err := fmt.Errorf("%s", <-c)
		logger.Info("Caught signal to stop. Shutting down.")
		if err := publisher.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close the message broker connection")
		}
		if err := db.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close the database")
		}
		errs <- err
	}()

	go func() {
		httpLogger.WithField("addr", conf.ListenAddress).Info("Starting listening port")
		errs <- http.ListenAndServe(conf.ListenAddress, h)
	}()

	// Watchdog for systemd
	go func() {
		interval, err := daemon.SdWatchdogEnabled(false)
		if err != nil || interval == 0 {
			return
		}
		logger.Info("Activating systemd watchdog goroutine")
		port := strings.Split(conf.ListenAddress, ":")[1]
		url := fmt.Sprintf("http://127.0.0.1:%s/alive", port)
		for {
			if resp, err := http.Get(url); err == nil {
				resp.Body.Close()
				daemon.SdNotify(false, "WATCHDOG=1")
			}
			time.Sleep(interval / 3)
		}
	}()

	// Notify systemd that we are ready to go (if available)
	daemon.SdNotify(false, "READY=1")

	logger.WithError(<-errs).Error("Shutdown complete")
}
