package internal

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"github.com/derWhity/fyyur/internal/ctxhelper"
	"github.com/derWhity/fyyur/internal/log"
	"github.com/derWhity/fyyur/internal/models"
)

// Environment variables overriding the values of the configuration file
const (
	EnvListenAddress = "FYYUR_LISTEN_ADDRESS"
	EnvDataDir       = "FYYUR_DATA_DIR"
	EnvLogLevel      = "FYYUR_LOG_LEVEL"
	EnvLogFormat     = "FYYUR_LOG_FORMAT"
	EnvAMQPURL       = "FYYUR_AMQP_URL"
	EnvAMQPQueue     = "FYYUR_AMQP_QUEUE"
)

// ConfigService loads the application's configuration
type ConfigService interface {
	// Load loads the application config from its default file location
	Load(ctx context.Context) error
	// LoadFromFile loads the configuration from the given JSON file. Values set in the environment or inside the
	// .env file override the values from the file.
	LoadFromFile(ctx context.Context, filename string) error
	// Write writes the current application configuration to the default file name
	Write(ctx context.Context) error
	// WriteToFile writes the current application configuration to a JSON file
	WriteToFile(ctx context.Context, filename string) error
	// GetConfig retuns the current application configuration
	GetConfig(ctx context.Context) models.AppConfig
}

// -- ConfigService implementation -------------------------------------------------------------------------------------

type configService struct {
	configFilename string
	envFilename    string
	config         *models.AppConfig
	lookupEnv      func(string) (string, bool)
}

// NewConfigService creates a new configuration service instance with the given default file name and the name of
// the .env file to read additional environment variables from
func NewConfigService(configFilename, envFilename string) ConfigService {
	return &configService{
		configFilename: configFilename,
		envFilename:    envFilename,
		lookupEnv:      os.LookupEnv,
	}
}

// Load loads the application config from its default file location
func (s *configService) Load(ctx context.Context) error {
	return s.LoadFromFile(ctx, s.configFilename)
}

// LoadFromFile loads the configuration from the given JSON file and applies the environment overrides
func (s *configService) LoadFromFile(ctx context.Context, filename string) error {
	logger := ctxhelper.Logger(ctx)
	logger.WithField(log.FldFile, filename).Info("Loading configuration file")
	conf, err := models.GetDefaultConfig()
	if err != nil {
		return errors.Wrap(err, "LoadFromFile: Failed to create default config")
	}
	f, err := os.Open(filename)
	switch {
	case os.IsNotExist(err):
		logger.WithField(log.FldFile, filename).Warn("Configuration file does not exist. Using defaults")
	case err != nil:
		return errors.Wrap(err, "LoadFromFile: cannot load configuration file")
	default:
		defer f.Close()
		if err = json.NewDecoder(f).Decode(&conf); err != nil {
			return errors.Wrap(err, "LoadFromFile: Failed to decode configuration file")
		}
	}
	dotEnv, err := s.readDotEnv(logger)
	if err != nil {
		return err
	}
	applyEnv(conf, func(key string) (string, bool) {
		if val, ok := s.lookupEnv(key); ok {
			return val, true
		}
		val, ok := dotEnv[key]
		return val, ok
	})
	s.config = conf
	return nil
}

// readDotEnv reads the variables of the .env file without touching the process environment
func (s *configService) readDotEnv(logger *logrus.Entry) (map[string]string, error) {
	if s.envFilename == "" {
		return map[string]string{}, nil
	}
	vars, err := godotenv.Read(s.envFilename)
	if err != nil {
		if os.IsNotExist(errors.Cause(err)) {
			return map[string]string{}, nil
		}
		return nil, errors.Wrapf(err, "readDotEnv: Failed to read '%s'", s.envFilename)
	}
	logger.WithField(log.FldFile, s.envFilename).Info("Read environment file")
	return vars, nil
}

// applyEnv overrides the configuration values for which an environment variable is set
func applyEnv(conf *models.AppConfig, lookup func(string) (string, bool)) {
	for key, target := range map[string]*string{
		EnvListenAddress: &conf.ListenAddress,
		EnvDataDir:       &conf.DataDir,
		EnvLogLevel:      &conf.Log.Level,
		EnvLogFormat:     &conf.Log.Format,
		EnvAMQPURL:       &conf.Notifications.URL,
		EnvAMQPQueue:     &conf.Notifications.Queue,
	} {
		if val, ok := lookup(key); ok && strings.TrimSpace(val) != "" {
			*target = strings.TrimSpace(val)
		}
	}
}

// Write writes the current application configuration to the default file name
func (s *configService) Write(ctx context.Context) error {
	return s.WriteToFile(ctx, s.configFilename)
}

// WriteToFile writes the current application configuration to a JSON file
func (s *configService) WriteToFile(ctx context.Context, filename string) error {
	logger := ctxhelper.Logger(ctx)
	logger.WithField(log.FldFile, filename).Info("Writing configuration file")
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "WriteToFile: Cannot open configuration file '%s' to write to", filename)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "    ")
	conf := s.GetConfig(ctx)
	if err := enc.Encode(&conf); err != nil {
		return errors.Wrap(err, "WriteToFile: Failed to serialize configuration data")
	}
	return nil
}

// GetConfig retuns the current application configuration
func (s *configService) GetConfig(ctx context.Context) models.AppConfig {
	var ret models.AppConfig
	if s.config != nil {
		ret = *s.config
	} else {
		if tmp, err := models.GetDefaultConfig(); err == nil {
			ret = *tmp
		}
	}
	return ret
}

// ConfigureLogger applies the level and output format of the log configuration to the given logger
func ConfigureLogger(logger *logrus.Logger, conf models.LogConfig) error {
	level, err := logrus.ParseLevel(conf.Level)
	if err != nil {
		return errors.Wrapf(err, "ConfigureLogger: Illegal log level '%s'", conf.Level)
	}
	logger.SetLevel(level)
	switch strings.ToLower(conf.Format) {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return errors.Errorf("ConfigureLogger: Unknown log format '%s'", conf.Format)
	}
	return nil
}
