// Package pathutil manages application file paths and locations
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/adrg/xdg"
)

const envFocusEnv = "FOCUS_ENV"

// Paths holds all application path configurations.
type Paths struct {
	configDir      string
	configFileName string
	dbFileName     string
	sqlFileName    string
	statusFileName string
	logFileName    string

	// Computed absolute paths
	configFilePath string
	dbFilePath     string
	sqlFilePath    string
	statusFilePath string
	logFilePath    string
}

var (
	paths *Paths
	once  sync.Once
)

// Initialize must be called once at program startup.
func Initialize() error {
	var initErr error

	once.Do(func() {
		paths = &Paths{
			configDir:      "focus",
			configFileName: "config.yml",
			dbFileName:     "focus.db",
			sqlFileName:    "focus.sqlite",
			statusFileName: "status.json",
			logFileName:    "focus.log",
		}

		paths.applyEnvironmentOverrides()
		initErr = paths.computePaths()
	})

	return initErr
}

// Must panics if paths haven't been initialized.
func Must() *Paths {
	if paths == nil {
		panic("pathutil.Initialize() must be called before accessing paths")
	}

	return paths
}

func Dir() string {
	return Must().configDir
}

func ConfigFilePath() string {
	return Must().configFilePath
}

func DBFilePath() string {
	return Must().dbFilePath
}

func SQLFilePath() string {
	return Must().sqlFilePath
}

func StatusFilePath() string {
	return Must().statusFilePath
}

func LogFilePath() string {
	return Must().logFilePath
}

func (p *Paths) applyEnvironmentOverrides() {
	focusEnv := strings.TrimSpace(os.Getenv(envFocusEnv))
	if focusEnv != "" {
		p.configFileName = fmt.Sprintf("config_%s.yml", focusEnv)
		p.dbFileName = fmt.Sprintf("focus_%s.db", focusEnv)
		p.sqlFileName = fmt.Sprintf("focus_%s.sqlite", focusEnv)
		p.statusFileName = fmt.Sprintf("status_%s.json", focusEnv)
		p.logFileName = fmt.Sprintf("focus_%s.log", focusEnv)
	}
}

func (p *Paths) computePaths() error {
	var err error

	relPath := filepath.Join(p.configDir, p.configFileName)

	p.configFilePath, err = xdg.ConfigFile(relPath)
	if err != nil {
		return fmt.Errorf("resolving config path: %w", err)
	}

	dataDir, err := xdg.DataFile(p.configDir)
	if err != nil {
		return fmt.Errorf("resolving data directory: %w", err)
	}

	p.dbFilePath = filepath.Join(dataDir, p.dbFileName)

	p.sqlFilePath = filepath.Join(dataDir, p.sqlFileName)

	p.statusFilePath = filepath.Join(dataDir, p.statusFileName)

	p.logFilePath = filepath.Join(dataDir, "log", p.logFileName)

	return nil
}
