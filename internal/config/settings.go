package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/common"
	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/model"
	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/rules"
	"github.com/spf13/viper"
)

// DefaultHistoryPath is where run history is kept unless configured.
const DefaultHistoryPath = "$HOME/.local/share/entclass/history.db"

// Settings are the resolved options for a classification run.
type Settings struct {
	RulesPath      string
	OutputPath     string
	HistoryPath    string
	Unit           model.Unit
	Workers        int
	KeepRawCodes   bool
	HistoryEnabled bool
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("input.keep_raw_codes", false)
	v.SetDefault("engine.workers", 1)
	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", DefaultHistoryPath)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// LoadSettings loads run settings from Viper.
// It follows this precedence:
// 1. Command line flags bound to Viper
// 2. Viper configuration (from config file or ENTCLASS_ env vars)
// 3. Default values
func LoadSettings(v *viper.Viper) (*Settings, error) {
	rawUnit := v.GetString("input.unit")
	if strings.TrimSpace(rawUnit) == "" {
		return nil, common.NewUserError("Data unit is required; pass --unit Y or WY",
			fmt.Errorf("%w: input.unit is not set", common.ErrInvalidUnit))
	}
	unit, err := model.ParseUnit(rawUnit)
	if err != nil {
		return nil, common.NewUserError("Data unit must be Y (yuan) or WY (ten-thousand yuan)", err)
	}

	s := &Settings{
		Unit:           unit,
		OutputPath:     ExpandPath(v.GetString("output.path")),
		KeepRawCodes:   v.GetBool("input.keep_raw_codes"),
		Workers:        v.GetInt("engine.workers"),
		HistoryEnabled: v.GetBool("history.enabled"),
		HistoryPath:    ExpandPath(v.GetString("history.path")),
	}

	if p := v.GetString("rules.path"); p != "" {
		s.RulesPath = ExpandPath(p)
	} else {
		s.RulesPath, err = rules.DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	if s.Workers < 0 {
		return nil, fmt.Errorf("%w: engine.workers must not be negative", common.ErrInvalidConfig)
	}
	if s.Workers == 0 {
		s.Workers = runtime.NumCPU()
	}

	if s.HistoryEnabled && s.HistoryPath == "" {
		return nil, fmt.Errorf("%w: history.path is empty", common.ErrInvalidConfig)
	}

	return s, nil
}
