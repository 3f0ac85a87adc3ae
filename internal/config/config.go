package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	toml "github.com/pelletier/go-toml/v2"

	"taskdash/internal/task"
	"taskdash/internal/view"
)

const (
	AppName               = "taskdash"
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "tasks.db"
	DefaultLogName        = "taskdash.log"
	EnvConfigPath         = "TASKDASH_CONFIG"

	IDSchemeTime = "time"
	IDSchemeUUID = "uuid"
)

type Keymap struct {
	Quit           string `toml:"quit"`
	Add            string `toml:"add"`
	Up             string `toml:"up"`
	Down           string `toml:"down"`
	Toggle         string `toml:"toggle"`
	Delete         string `toml:"delete"`
	Detail         string `toml:"detail"`
	Confirm        string `toml:"confirm"`
	Cancel         string `toml:"cancel"`
	Edit           string `toml:"edit"`
	Search         string `toml:"search"`
	FilterPriority string `toml:"filter_priority"`
	FilterStatus   string `toml:"filter_status"`
	ClearFilters   string `toml:"clear_filters"`
	NextField      string `toml:"next_field"`
	PrevField      string `toml:"prev_field"`
	PriorityUp     string `toml:"priority_up"`
	PriorityDown   string `toml:"priority_down"`
	DueForward     string `toml:"due_forward"`
	DueBack        string `toml:"due_back"`
}

type Config struct {
	DBPath          string `toml:"db_path"`
	LogPath         string `toml:"log_path"`
	IDScheme        string `toml:"id_scheme"`
	DefaultPriority string `toml:"default_priority"`
	DefaultStatus   string `toml:"default_status"`
	Keys            Keymap `toml:"keys"`
}

// ResolveConfigPath prefers $TASKDASH_CONFIG, then the user config dir,
// then the working directory.
func ResolveConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, AppName, DefaultConfigFileName)
}

// LoadOrCreate reads path, writing the defaults there first if it does not
// exist. Relative db and log paths resolve against the config directory.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg.resolve(filepath.Dir(path)), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBName
	}
	if cfg.IDScheme == "" {
		cfg.IDScheme = IDSchemeTime
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg.resolve(filepath.Dir(path)), nil
}

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.DBPath, validation.Required),
		validation.Field(&c.IDScheme, validation.In(IDSchemeTime, IDSchemeUUID)),
		validation.Field(&c.DefaultPriority, validation.In(string(task.High), string(task.Medium), string(task.Low))),
		validation.Field(&c.DefaultStatus, validation.In(string(view.StatusPending), string(view.StatusCompleted))),
	)
}

// Filter is the dashboard filter to start with.
func (c Config) Filter() view.Filter {
	status, _ := view.ParseStatus(c.DefaultStatus)
	return view.Filter{
		Priority: task.Priority(c.DefaultPriority),
		Status:   status,
	}
}

func (c Config) resolve(dir string) Config {
	c.DBPath = resolvePath(dir, c.DBPath)
	c.LogPath = resolvePath(dir, c.LogPath)
	return c
}

func resolvePath(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig() Config {
	return Config{
		DBPath:   DefaultDBName,
		LogPath:  DefaultLogName,
		IDScheme: IDSchemeTime,
		Keys: Keymap{
			Quit:           "q",
			Add:            "a",
			Up:             "k",
			Down:           "j",
			Toggle:         " ",
			Delete:         "d",
			Detail:         "enter",
			Confirm:        "enter",
			Cancel:         "esc",
			Edit:           "e",
			Search:         "/",
			FilterPriority: "p",
			FilterStatus:   "s",
			ClearFilters:   "c",
			NextField:      "tab",
			PrevField:      "shift+tab",
			PriorityUp:     "+",
			PriorityDown:   "-",
			DueForward:     "]",
			DueBack:        "[",
		},
	}
}
