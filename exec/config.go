package exec

import (
	"fmt"
	"io"
	"strconv"

	"github.com/gobuffalo/envy"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	envLogLevel = "AUTOMATA_LOG_LEVEL"
	envMaxLen   = "AUTOMATA_MAX_LEN"

	defaultMaxLen = 6
)

func newLogger(out io.Writer, level logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return l
}

// loadConfig fills what the flags left unset from the environment, after
// loading the -env file if any. Variables set to "" count as unset.
func (p *Params) loadConfig() error {
	if p.EnvFilename != "" {
		if err := godotenv.Overload(p.EnvFilename); err != nil {
			return fmt.Errorf("load %s: %w", p.EnvFilename, err)
		}
		envy.Reload()
	}

	level := logrus.WarnLevel
	if v := envy.Get(envLogLevel, ""); v != "" {
		var err error
		if level, err = logrus.ParseLevel(v); err != nil {
			return fmt.Errorf("%s: %w", envLogLevel, err)
		}
	}
	if p.Verbose {
		level = logrus.DebugLevel
	}
	p.log = newLogger(p.Stderr, level)

	if p.MaxLen == 0 {
		p.MaxLen = defaultMaxLen
		if v := envy.Get(envMaxLen, ""); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", envMaxLen, err)
			}
			p.MaxLen = n
		}
	}
	if p.MaxLen < 0 {
		return fmt.Errorf("negative max length %d", p.MaxLen)
	}
	return nil
}
