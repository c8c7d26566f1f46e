package store

import (
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"tableflip.dev/dayplan/pkg/timemath"
)

// PlanLayout is the format of the default, date-named plan.
const PlanLayout = "2006-01-02"

// Config is what the commands need to open the store and draw a plan.
type Config interface {
	BasePath() string
	Plan() string
	Window() timemath.Window
	Snap() int
	PixelsPerMinute() float64
}

// LoadConfig reads .dayplan.yaml from $DAYPLAN_CONFIG_PATH or the working
// directory, with DAYPLAN_* environment overrides.
func LoadConfig() (Config, error) {
	viper.SetDefault("path", "~/.dayplan.db")
	viper.SetDefault("plan", "")
	viper.SetDefault("window.start", timemath.DefaultWindow.StartHour)
	viper.SetDefault("window.end", timemath.DefaultWindow.EndHour)
	viper.SetDefault("snap", timemath.DefaultSnap)
	viper.SetDefault("pixels_per_minute", 0.0)
	viper.SetConfigName(".dayplan") // .yaml is implicit
	viper.SetEnvPrefix("DAYPLAN")
	viper.AutomaticEnv()

	if override := os.Getenv("DAYPLAN_CONFIG_PATH"); override != "" {
		viper.AddConfigPath(override)
	}

	viper.AddConfigPath("./")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	path, err := homedir.Expand(viper.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}

	return &fileConfig{
		Path:   path,
		PlanID: viper.GetString("plan"),
		Hours: timemath.Window{
			StartHour: viper.GetInt("window.start"),
			EndHour:   viper.GetInt("window.end"),
		},
		SnapMinutes: viper.GetInt("snap"),
		PPM:         viper.GetFloat64("pixels_per_minute"),
	}, nil
}

type fileConfig struct {
	Path        string          `json:"path"`
	PlanID      string          `json:"plan"`
	Hours       timemath.Window `json:"window"`
	SnapMinutes int             `json:"snap"`
	PPM         float64         `json:"pixels_per_minute"`
}

func (f *fileConfig) BasePath() string {
	return f.Path
}

// Plan is the configured plan, or today's date when none is set.
func (f *fileConfig) Plan() string {
	if f.PlanID != "" {
		return f.PlanID
	}
	return time.Now().Format(PlanLayout)
}

func (f *fileConfig) Window() timemath.Window {
	return f.Hours.Normalized()
}

func (f *fileConfig) Snap() int {
	if f.SnapMinutes <= 0 {
		return timemath.DefaultSnap
	}
	return f.SnapMinutes
}

// PixelsPerMinute is zero when the view should fit the window to its width.
func (f *fileConfig) PixelsPerMinute() float64 {
	if f.PPM < 0 {
		return 0
	}
	return f.PPM
}

// Static is a Config with fixed values, for tests and one-off invocations.
type Static struct {
	Path    string
	PlanID  string
	Hours   timemath.Window
	Step    int
	Density float64
}

func (s Static) BasePath() string { return s.Path }

func (s Static) Plan() string {
	if s.PlanID == "" {
		return time.Now().Format(PlanLayout)
	}
	return s.PlanID
}

func (s Static) Window() timemath.Window {
	if s.Hours == (timemath.Window{}) {
		return timemath.DefaultWindow
	}
	return s.Hours.Normalized()
}

func (s Static) Snap() int {
	if s.Step <= 0 {
		return timemath.DefaultSnap
	}
	return s.Step
}

func (s Static) PixelsPerMinute() float64 { return s.Density }
